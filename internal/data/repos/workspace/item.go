package workspace

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

type WorkspaceItemRepo interface {
	Create(dbc dbctx.Context, row *domain.WorkspaceItem) (*domain.WorkspaceItem, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.WorkspaceItem, error)
}

type workspaceItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkspaceItemRepo(db *gorm.DB, log *logger.Logger) WorkspaceItemRepo {
	return &workspaceItemRepo{db: db, log: log.With("repo", "WorkspaceItemRepo")}
}

func (r *workspaceItemRepo) Create(dbc dbctx.Context, row *domain.WorkspaceItem) (*domain.WorkspaceItem, error) {
	if row == nil {
		return nil, fmt.Errorf("missing item")
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

func (r *workspaceItemRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.WorkspaceItem, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing item_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out domain.WorkspaceItem
	err := txx.WithContext(dbc.Ctx).First(&out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
