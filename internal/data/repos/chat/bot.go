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

type BotRepo interface {
	Create(dbc dbctx.Context, row *domain.Bot) (*domain.Bot, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Bot, error)
	// GetByKind returns the organization's bot of the given kind. Bots
	// without an actor identity are treated as not-found.
	GetByKind(dbc dbctx.Context, orgID uuid.UUID, kind string) (*domain.Bot, error)
	ListByOrg(dbc dbctx.Context, orgID uuid.UUID) ([]*domain.Bot, error)
	UpdatePersona(dbc dbctx.Context, id uuid.UUID, rowVersion int64, persona string, constraint string) error
}

type botRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBotRepo(db *gorm.DB, log *logger.Logger) BotRepo {
	return &botRepo{db: db, log: log.With("repo", "BotRepo")}
}

func (r *botRepo) Create(dbc dbctx.Context, row *domain.Bot) (*domain.Bot, error) {
	if row == nil {
		return nil, fmt.Errorf("missing bot")
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

func (r *botRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Bot, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing bot_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out domain.Bot
	err := txx.WithContext(dbc.Ctx).First(&out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *botRepo) GetByKind(dbc dbctx.Context, orgID uuid.UUID, kind string) (*domain.Bot, error) {
	if orgID == uuid.Nil {
		return nil, fmt.Errorf("missing org_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out domain.Bot
	err := txx.WithContext(dbc.Ctx).
		Where("org_id = ? AND kind = ? AND actor_id IS NOT NULL", orgID, kind).
		Order("created_at ASC").
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *botRepo) ListByOrg(dbc dbctx.Context, orgID uuid.UUID) ([]*domain.Bot, error) {
	if orgID == uuid.Nil {
		return nil, fmt.Errorf("missing org_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*domain.Bot
	if err := txx.WithContext(dbc.Ctx).
		Where("org_id = ? AND actor_id IS NOT NULL", orgID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePersona uses the optimistic row_version check; persona edits racing
// each other should fail rather than silently overwrite.
func (r *botRepo) UpdatePersona(dbc dbctx.Context, id uuid.UUID, rowVersion int64, persona string, constraint string) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing bot_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Model(&domain.Bot{}).
		Where("id = ? AND row_version = ?", id, rowVersion).
		Updates(map[string]interface{}{
			"persona":         persona,
			"constraint_text": constraint,
			"row_version":     rowVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
