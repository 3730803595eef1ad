package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MessageKindText   = "text"
	MessageKindSystem = "system"
)

// ChatMessage is immutable once created; rooms are append-only logs ordered
// by CreatedAt.
type ChatMessage struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoomID uuid.UUID `gorm:"type:uuid;not null;index" json:"room_id"`

	SenderActorID uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_actor_id"`

	Kind             string     `gorm:"column:kind;not null;default:'text'" json:"kind"`
	Content          string     `gorm:"column:content;type:text;not null" json:"content"`
	ReplyToMessageID *uuid.UUID `gorm:"type:uuid;column:reply_to_message_id" json:"reply_to_message_id,omitempty"`

	Metadata datatypes.JSON `gorm:"type:jsonb;column:metadata;not null;default:'{}'" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (ChatMessage) TableName() string { return "chat_message" }
