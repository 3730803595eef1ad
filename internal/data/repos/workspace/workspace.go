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

type WorkspaceRepo interface {
	Create(dbc dbctx.Context, row *domain.Workspace) (*domain.Workspace, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Workspace, error)
}

type workspaceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkspaceRepo(db *gorm.DB, log *logger.Logger) WorkspaceRepo {
	return &workspaceRepo{db: db, log: log.With("repo", "WorkspaceRepo")}
}

func (r *workspaceRepo) Create(dbc dbctx.Context, row *domain.Workspace) (*domain.Workspace, error) {
	if row == nil {
		return nil, fmt.Errorf("missing workspace")
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

func (r *workspaceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Workspace, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing workspace_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out domain.Workspace
	err := txx.WithContext(dbc.Ctx).First(&out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
