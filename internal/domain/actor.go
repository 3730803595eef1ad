package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActorKindUser = "user"
	ActorKindBot  = "bot"
)

// Actor is the unified sender identity for chat messages. It is persisted as
// one row shape with optional user/bot foreign keys; exactly one of UserID
// and BotID is set depending on Kind.
type Actor struct {
	ID    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrgID uuid.UUID `gorm:"type:uuid;not null;index" json:"org_id"`

	Kind   string     `gorm:"column:kind;not null;index" json:"kind"`
	UserID *uuid.UUID `gorm:"type:uuid;column:user_id;index" json:"user_id,omitempty"`
	BotID  *uuid.UUID `gorm:"type:uuid;column:bot_id;index" json:"bot_id,omitempty"`

	DisplayName string `gorm:"column:display_name;not null" json:"display_name"`
	IconURL     string `gorm:"column:icon_url" json:"icon_url"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Actor) TableName() string { return "actor" }

func (a *Actor) IsBot() bool  { return a != nil && a.Kind == ActorKindBot }
func (a *Actor) IsUser() bool { return a != nil && a.Kind == ActorKindUser }
