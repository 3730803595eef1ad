package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	CommentKindNormal     = "normal"
	CommentKindHelpWanted = "help_wanted"
	CommentKindNeedReply  = "need_reply"
	CommentKindReminder   = "reminder"
)

// TaskComment carries the dispatch key (Kind) selecting which notifier
// strategy runs; a comment is processed by at most one strategy.
type TaskComment struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TaskID uuid.UUID `gorm:"type:uuid;not null;index" json:"task_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Content string `gorm:"column:content;type:text;not null" json:"content"`
	Kind    string `gorm:"column:kind;not null;default:'normal';index" json:"kind"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (TaskComment) TableName() string { return "task_comment" }
