package chat

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

type ChatRoomMemberRepo interface {
	Exists(dbc dbctx.Context, roomID uuid.UUID, actorID uuid.UUID) (bool, error)
	// CreateIfAbsent inserts the membership row. A duplicate-key error from a
	// concurrent insert is reported as created=false, not as a failure.
	CreateIfAbsent(dbc dbctx.Context, roomID uuid.UUID, actorID uuid.UUID, role string) (created bool, err error)
}

type chatRoomMemberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatRoomMemberRepo(db *gorm.DB, log *logger.Logger) ChatRoomMemberRepo {
	return &chatRoomMemberRepo{db: db, log: log.With("repo", "ChatRoomMemberRepo")}
}

func (r *chatRoomMemberRepo) Exists(dbc dbctx.Context, roomID uuid.UUID, actorID uuid.UUID) (bool, error) {
	if roomID == uuid.Nil || actorID == uuid.Nil {
		return false, fmt.Errorf("missing room_id or actor_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var count int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&domain.ChatRoomMember{}).
		Where("room_id = ? AND actor_id = ?", roomID, actorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *chatRoomMemberRepo) CreateIfAbsent(dbc dbctx.Context, roomID uuid.UUID, actorID uuid.UUID, role string) (bool, error) {
	if roomID == uuid.Nil || actorID == uuid.Nil {
		return false, fmt.Errorf("missing room_id or actor_id")
	}
	if role == "" {
		role = domain.RoomMemberRoleMember
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	row := &domain.ChatRoomMember{RoomID: roomID, ActorID: actorID, Role: role}
	err := txx.WithContext(dbc.Ctx).Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
