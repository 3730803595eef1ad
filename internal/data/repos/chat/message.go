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

type ChatMessageRepo interface {
	Create(dbc dbctx.Context, row *domain.ChatMessage) (*domain.ChatMessage, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.ChatMessage, error)
	// ListRecentSince returns up to limit messages created at or after the
	// cutoff, newest first.
	ListRecentSince(dbc dbctx.Context, roomID uuid.UUID, since time.Time, limit int) ([]*domain.ChatMessage, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, log *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: log.With("repo", "ChatMessageRepo")}
}

func (r *chatMessageRepo) Create(dbc dbctx.Context, row *domain.ChatMessage) (*domain.ChatMessage, error) {
	if row == nil {
		return nil, fmt.Errorf("missing message")
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

func (r *chatMessageRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.ChatMessage, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing message_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out domain.ChatMessage
	err := txx.WithContext(dbc.Ctx).First(&out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *chatMessageRepo) ListRecentSince(dbc dbctx.Context, roomID uuid.UUID, since time.Time, limit int) ([]*domain.ChatMessage, error) {
	if roomID == uuid.Nil {
		return nil, fmt.Errorf("missing room_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*domain.ChatMessage
	if err := txx.WithContext(dbc.Ctx).
		Model(&domain.ChatMessage{}).
		Where("room_id = ? AND created_at >= ?", roomID, since.UTC()).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
