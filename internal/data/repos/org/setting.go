package org

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

type OrganizationSettingRepo interface {
	Upsert(dbc dbctx.Context, row *domain.OrganizationSetting) (*domain.OrganizationSetting, error)
	// GetByOrg returns nil when the organization has no settings row; callers
	// treat that as "AI disabled", not as an error.
	GetByOrg(dbc dbctx.Context, orgID uuid.UUID) (*domain.OrganizationSetting, error)
}

type organizationSettingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrganizationSettingRepo(db *gorm.DB, log *logger.Logger) OrganizationSettingRepo {
	return &organizationSettingRepo{db: db, log: log.With("repo", "OrganizationSettingRepo")}
}

func (r *organizationSettingRepo) Upsert(dbc dbctx.Context, row *domain.OrganizationSetting) (*domain.OrganizationSetting, error) {
	if row == nil || row.OrgID == uuid.Nil {
		return nil, fmt.Errorf("missing org setting")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	existing, err := r.GetByOrg(dbc, row.OrgID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if err := txx.WithContext(dbc.Ctx).Create(row).Error; err != nil {
			return nil, err
		}
		return row, nil
	}
	row.ID = existing.ID
	if err := txx.WithContext(dbc.Ctx).
		Model(&domain.OrganizationSetting{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"ai_vendor":  row.AIVendor,
			"ai_api_key": row.AIAPIKey,
			"ai_model":   row.AIModel,
		}).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *organizationSettingRepo) GetByOrg(dbc dbctx.Context, orgID uuid.UUID) (*domain.OrganizationSetting, error) {
	if orgID == uuid.Nil {
		return nil, fmt.Errorf("missing org_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out domain.OrganizationSetting
	err := txx.WithContext(dbc.Ctx).Where("org_id = ?", orgID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}
