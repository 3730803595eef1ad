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

type ActorRepo interface {
	Create(dbc dbctx.Context, row *domain.Actor) (*domain.Actor, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Actor, error)
	GetByUser(dbc dbctx.Context, orgID uuid.UUID, userID uuid.UUID) (*domain.Actor, error)
	GetByBot(dbc dbctx.Context, orgID uuid.UUID, botID uuid.UUID) (*domain.Actor, error)
}

type actorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActorRepo(db *gorm.DB, log *logger.Logger) ActorRepo {
	return &actorRepo{db: db, log: log.With("repo", "ActorRepo")}
}

func (r *actorRepo) Create(dbc dbctx.Context, row *domain.Actor) (*domain.Actor, error) {
	if row == nil {
		return nil, fmt.Errorf("missing actor")
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

func (r *actorRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Actor, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing actor_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out domain.Actor
	err := txx.WithContext(dbc.Ctx).First(&out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *actorRepo) GetByUser(dbc dbctx.Context, orgID uuid.UUID, userID uuid.UUID) (*domain.Actor, error) {
	if orgID == uuid.Nil || userID == uuid.Nil {
		return nil, fmt.Errorf("missing org_id or user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out domain.Actor
	err := txx.WithContext(dbc.Ctx).
		Where("org_id = ? AND kind = ? AND user_id = ?", orgID, domain.ActorKindUser, userID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *actorRepo) GetByBot(dbc dbctx.Context, orgID uuid.UUID, botID uuid.UUID) (*domain.Actor, error) {
	if orgID == uuid.Nil || botID == uuid.Nil {
		return nil, fmt.Errorf("missing org_id or bot_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out domain.Actor
	err := txx.WithContext(dbc.Ctx).
		Where("org_id = ? AND kind = ? AND bot_id = ?", orgID, domain.ActorKindBot, botID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
