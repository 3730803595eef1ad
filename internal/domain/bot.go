package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// BotKindChat is the conversational persona that replies in AI rooms.
	BotKindChat = "chat"
	// BotKindSystem is the operational persona used for alerts and reminders.
	BotKindSystem = "system"
)

// Bot is an automated persona scoped to one organization. By convention each
// organization has one chat bot and one system bot; that convention is not
// enforced here.
type Bot struct {
	ID    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrgID uuid.UUID `gorm:"type:uuid;not null;index" json:"org_id"`

	Kind       string `gorm:"column:kind;not null;index" json:"kind"`
	Name       string `gorm:"column:name;not null" json:"name"`
	Persona    string `gorm:"column:persona;type:text" json:"persona"`
	Constraint string `gorm:"column:constraint_text;type:text" json:"constraint"`
	IconURL    string `gorm:"column:icon_url" json:"icon_url"`

	ActorID *uuid.UUID `gorm:"type:uuid;column:actor_id;index" json:"actor_id,omitempty"`

	RowVersion int64 `gorm:"column:row_version;not null;default:0" json:"row_version"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Bot) TableName() string { return "bot" }
