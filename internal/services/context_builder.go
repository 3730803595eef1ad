package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
	"github.com/crewdesk/crewdesk-backend/internal/platform/openai"
)

const (
	defaultContextWindow = 48 * time.Hour
	defaultContextTurns  = 3
)

// ContextBuilder windows recent room history into role-tagged turns for AI
// calls. Both the trailing time window and the turn cap are cost controls,
// enforced independently.
type ContextBuilder interface {
	BuildContext(dbc dbctx.Context, roomID uuid.UUID, botActorID uuid.UUID) ([]openai.ChatMessage, error)
}

type contextBuilder struct {
	log      *logger.Logger
	messages repos.ChatMessageRepo
	window   time.Duration
	turns    int
	now      func() time.Time
}

// NewContextBuilder builds a ContextBuilder; window <= 0 and turns <= 0 fall
// back to the defaults (2 days, 3 turns).
func NewContextBuilder(log *logger.Logger, messages repos.ChatMessageRepo, window time.Duration, turns int) ContextBuilder {
	if window <= 0 {
		window = defaultContextWindow
	}
	if turns <= 0 {
		turns = defaultContextTurns
	}
	return &contextBuilder{
		log:      log.With("service", "ContextBuilder"),
		messages: messages,
		window:   window,
		turns:    turns,
		now:      time.Now,
	}
}

func (b *contextBuilder) BuildContext(dbc dbctx.Context, roomID uuid.UUID, botActorID uuid.UUID) ([]openai.ChatMessage, error) {
	since := b.now().Add(-b.window)
	limit := b.turns * 2

	rows, err := b.messages.ListRecentSince(dbc, roomID, since, limit)
	if err != nil {
		return nil, err
	}

	// rows arrive newest first; the model wants ascending time order.
	out := make([]openai.ChatMessage, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		role := "user"
		if rows[i].SenderActorID == botActorID {
			role = "assistant"
		}
		out = append(out, openai.ChatMessage{Role: role, Content: rows[i].Content})
	}
	return out, nil
}
