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

type WorkspaceTaskRepo interface {
	Create(dbc dbctx.Context, row *domain.WorkspaceTask) (*domain.WorkspaceTask, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.WorkspaceTask, error)
	// ListRecentCompletedByWorkspace returns the workspace's most recently
	// completed tasks across all users, newest first.
	ListRecentCompletedByWorkspace(dbc dbctx.Context, workspaceID uuid.UUID, limit int) ([]*domain.WorkspaceTask, error)
}

type workspaceTaskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkspaceTaskRepo(db *gorm.DB, log *logger.Logger) WorkspaceTaskRepo {
	return &workspaceTaskRepo{db: db, log: log.With("repo", "WorkspaceTaskRepo")}
}

func (r *workspaceTaskRepo) Create(dbc dbctx.Context, row *domain.WorkspaceTask) (*domain.WorkspaceTask, error) {
	if row == nil {
		return nil, fmt.Errorf("missing task")
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

func (r *workspaceTaskRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.WorkspaceTask, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing task_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out domain.WorkspaceTask
	err := txx.WithContext(dbc.Ctx).First(&out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *workspaceTaskRepo) ListRecentCompletedByWorkspace(dbc dbctx.Context, workspaceID uuid.UUID, limit int) ([]*domain.WorkspaceTask, error) {
	if workspaceID == uuid.Nil {
		return nil, fmt.Errorf("missing workspace_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*domain.WorkspaceTask
	if err := txx.WithContext(dbc.Ctx).
		Where("workspace_id = ? AND status = ? AND assigned_user_id IS NOT NULL", workspaceID, domain.TaskStatusDone).
		Order("completed_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
