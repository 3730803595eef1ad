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

type TaskCommentRepo interface {
	Create(dbc dbctx.Context, row *domain.TaskComment) (*domain.TaskComment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.TaskComment, error)
}

type taskCommentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskCommentRepo(db *gorm.DB, log *logger.Logger) TaskCommentRepo {
	return &taskCommentRepo{db: db, log: log.With("repo", "TaskCommentRepo")}
}

func (r *taskCommentRepo) Create(dbc dbctx.Context, row *domain.TaskComment) (*domain.TaskComment, error) {
	if row == nil {
		return nil, fmt.Errorf("missing comment")
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

func (r *taskCommentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.TaskComment, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing comment_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out domain.TaskComment
	err := txx.WithContext(dbc.Ctx).First(&out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
