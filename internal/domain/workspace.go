package domain

import (
	"time"

	"github.com/google/uuid"
)

type Workspace struct {
	ID    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrgID uuid.UUID `gorm:"type:uuid;not null;index" json:"org_id"`

	Name string `gorm:"column:name;not null" json:"name"`
	Code string `gorm:"column:code;not null" json:"code"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Workspace) TableName() string { return "workspace" }

// WorkspaceItem is read-only context for message text inside this engine;
// its RowVersion guards the mutation endpoints that live outside it.
type WorkspaceItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`

	Code  string `gorm:"column:code;not null" json:"code"`
	Title string `gorm:"column:title;not null" json:"title"`

	OwnerUserID     *uuid.UUID `gorm:"type:uuid;column:owner_user_id" json:"owner_user_id,omitempty"`
	AssigneeUserID  *uuid.UUID `gorm:"type:uuid;column:assignee_user_id" json:"assignee_user_id,omitempty"`
	CommitterUserID *uuid.UUID `gorm:"type:uuid;column:committer_user_id" json:"committer_user_id,omitempty"`

	LastActedUserID *uuid.UUID `gorm:"type:uuid;column:last_acted_user_id" json:"last_acted_user_id,omitempty"`

	RowVersion int64 `gorm:"column:row_version;not null;default:0" json:"row_version"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (WorkspaceItem) TableName() string { return "workspace_item" }

const (
	TaskStatusOpen      = "open"
	TaskStatusDone      = "done"
	TaskStatusCancelled = "cancelled"
)

type WorkspaceTask struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ItemID      uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`

	Title          string     `gorm:"column:title;not null" json:"title"`
	AssignedUserID *uuid.UUID `gorm:"type:uuid;column:assigned_user_id;index" json:"assigned_user_id,omitempty"`

	Status      string     `gorm:"column:status;not null;default:'open';index" json:"status"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	LastActedUserID *uuid.UUID `gorm:"type:uuid;column:last_acted_user_id" json:"last_acted_user_id,omitempty"`

	RowVersion int64 `gorm:"column:row_version;not null;default:0" json:"row_version"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (WorkspaceTask) TableName() string { return "workspace_task" }
