package services

import (
	"context"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
	"github.com/crewdesk/crewdesk-backend/internal/platform/openai"
)

// BotService selects which bot persona should respond. Every method returns
// (nil, nil) when no bot can be selected; callers skip the notification.
type BotService interface {
	GetBot(dbc dbctx.Context, orgID uuid.UUID, kind string) (*domain.Bot, error)
	// SelectBotByContent classifies the content: urgent content routes to the
	// system bot, everything else to the chat bot. A failed or unconfigured
	// classifier yields no bot rather than a guess.
	SelectBotByContent(dbc dbctx.Context, orgID uuid.UUID, content string) (*domain.Bot, error)
	// SelectBotRandom picks one of the organization's bots uniformly.
	SelectBotRandom(dbc dbctx.Context, orgID uuid.UUID) (*domain.Bot, error)
}

type botService struct {
	log       *logger.Logger
	bots      repos.BotRepo
	aiClients AIClients
}

func NewBotService(log *logger.Logger, bots repos.BotRepo, aiClients AIClients) BotService {
	return &botService{
		log:       log.With("service", "BotService"),
		bots:      bots,
		aiClients: aiClients,
	}
}

func (s *botService) GetBot(dbc dbctx.Context, orgID uuid.UUID, kind string) (*domain.Bot, error) {
	return s.bots.GetByKind(dbc, orgID, kind)
}

func (s *botService) SelectBotByContent(dbc dbctx.Context, orgID uuid.UUID, content string) (*domain.Bot, error) {
	ai, err := s.aiClients.ForOrg(dbc, orgID)
	if err != nil {
		return nil, err
	}
	if ai == nil {
		return nil, nil
	}

	needsAttention, err := classifyNeedsAttention(dbc.Ctx, ai, content)
	if err != nil {
		s.log.Warn("content classification failed; skipping bot selection", "org_id", orgID, "error", err)
		return nil, nil
	}

	kind := domain.BotKindChat
	if needsAttention {
		kind = domain.BotKindSystem
	}
	return s.bots.GetByKind(dbc, orgID, kind)
}

func (s *botService) SelectBotRandom(dbc dbctx.Context, orgID uuid.UUID) (*domain.Bot, error) {
	list, err := s.bots.ListByOrg(dbc, orgID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[rand.Intn(len(list))], nil
}

const needsAttentionSystemPrompt = "You classify workspace chat messages. " +
	"Answer whether the message signals urgency, trouble, or a request that needs operational attention."

func classifyNeedsAttention(ctx context.Context, ai openai.Client, content string) (bool, error) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"needs_attention": map[string]any{"type": "boolean"},
		},
		"required":             []string{"needs_attention"},
		"additionalProperties": false,
	}

	out, err := ai.GenerateJSON(ctx, needsAttentionSystemPrompt, strings.TrimSpace(content), "needs_attention", schema)
	if err != nil {
		return false, err
	}
	v, ok := out["needs_attention"].(bool)
	if !ok {
		return false, nil
	}
	return v, nil
}
