package chat

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

type ChatRoomRepo interface {
	Create(dbc dbctx.Context, row *domain.ChatRoom) (*domain.ChatRoom, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.ChatRoom, error)
	GetGroupRoomByWorkspace(dbc dbctx.Context, workspaceID uuid.UUID) (*domain.ChatRoom, error)
	// FindAiRoomWithMember returns the oldest ai-kind room in the org whose
	// membership includes the given actor.
	FindAiRoomWithMember(dbc dbctx.Context, orgID uuid.UUID, actorID uuid.UUID) (*domain.ChatRoom, error)
	// TouchUpdatedAt is deliberately last-write-wins: it bypasses row_version
	// so concurrent bot writers never abort on a liveness-timestamp conflict.
	TouchUpdatedAt(dbc dbctx.Context, id uuid.UUID, at time.Time) error
}

type chatRoomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatRoomRepo(db *gorm.DB, log *logger.Logger) ChatRoomRepo {
	return &chatRoomRepo{db: db, log: log.With("repo", "ChatRoomRepo")}
}

func (r *chatRoomRepo) Create(dbc dbctx.Context, row *domain.ChatRoom) (*domain.ChatRoom, error) {
	if row == nil {
		return nil, fmt.Errorf("missing room")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *chatRoomRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.ChatRoom, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing room_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out domain.ChatRoom
	err := txx.WithContext(dbc.Ctx).First(&out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *chatRoomRepo) GetGroupRoomByWorkspace(dbc dbctx.Context, workspaceID uuid.UUID) (*domain.ChatRoom, error) {
	if workspaceID == uuid.Nil {
		return nil, fmt.Errorf("missing workspace_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out domain.ChatRoom
	err := txx.WithContext(dbc.Ctx).
		Where("kind = ? AND workspace_id = ?", domain.RoomKindGroup, workspaceID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *chatRoomRepo) FindAiRoomWithMember(dbc dbctx.Context, orgID uuid.UUID, actorID uuid.UUID) (*domain.ChatRoom, error) {
	if orgID == uuid.Nil || actorID == uuid.Nil {
		return nil, fmt.Errorf("missing org_id or actor_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out domain.ChatRoom
	err := txx.WithContext(dbc.Ctx).
		Joins("JOIN chat_room_member ON chat_room_member.room_id = chat_room.id").
		Where("chat_room.org_id = ? AND chat_room.kind = ? AND chat_room_member.actor_id = ?",
			orgID, domain.RoomKindAi, actorID).
		Order("chat_room.created_at ASC").
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *chatRoomRepo) TouchUpdatedAt(dbc dbctx.Context, id uuid.UUID, at time.Time) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing room_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&domain.ChatRoom{}).
		Where("id = ?", id).
		Update("updated_at", at.UTC()).Error
}
