package services

import (
	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
	"github.com/crewdesk/crewdesk-backend/internal/platform/openai"
)

// AIClients resolves a per-organization AI client from the organization's
// stored vendor credentials. A (nil, nil) result means AI is not configured
// for that organization; callers treat it as a feature gate, not an error.
type AIClients interface {
	ForOrg(dbc dbctx.Context, orgID uuid.UUID) (openai.Client, error)
}

type aiClients struct {
	log      *logger.Logger
	settings repos.OrganizationSettingRepo
}

func NewAIClients(log *logger.Logger, settings repos.OrganizationSettingRepo) AIClients {
	return &aiClients{
		log:      log.With("service", "AIClients"),
		settings: settings,
	}
}

func (s *aiClients) ForOrg(dbc dbctx.Context, orgID uuid.UUID) (openai.Client, error) {
	setting, err := s.settings.GetByOrg(dbc, orgID)
	if err != nil {
		return nil, err
	}
	if !setting.AIEnabled() {
		return nil, nil
	}
	return openai.NewClientWithCredentials(s.log, setting.AIAPIKey, setting.AIModel)
}
