package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// RoomKindAi is the 1:1 DM-equivalent channel between a user actor and a
	// bot actor. It must contain exactly those two members.
	RoomKindAi = "ai"
	// RoomKindGroup is a workspace-bound room; unique per workspace.
	RoomKindGroup = "group"
	// RoomKindAiPrivate is an AI room hidden from the member list UI.
	RoomKindAiPrivate = "ai_private"
)

const (
	RoomMemberRoleMember = "member"
	RoomMemberRoleOwner  = "owner"
)

// ChatRoom is a persistent channel containing an append-only message log.
// UpdatedAt is touched last-write-wins on every message; concurrent bot
// writers must never abort on a liveness-timestamp conflict, so that one
// update bypasses the RowVersion check.
type ChatRoom struct {
	ID    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrgID uuid.UUID `gorm:"type:uuid;not null;index" json:"org_id"`

	Kind        string     `gorm:"column:kind;not null;index" json:"kind"`
	WorkspaceID *uuid.UUID `gorm:"type:uuid;column:workspace_id;index" json:"workspace_id,omitempty"`
	OwnerUserID *uuid.UUID `gorm:"type:uuid;column:owner_user_id" json:"owner_user_id,omitempty"`

	RowVersion int64 `gorm:"column:row_version;not null;default:0" json:"row_version"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now();index" json:"updated_at"`
}

func (ChatRoom) TableName() string { return "chat_room" }

// ChatRoomMember records membership; the row's existence is the fact.
// Inserts must be idempotent under concurrent writers.
type ChatRoomMember struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoomID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_room_actor" json:"room_id"`
	ActorID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_room_actor" json:"actor_id"`
	Role    string    `gorm:"column:role;not null;default:'member'" json:"role"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ChatRoomMember) TableName() string { return "chat_room_member" }
