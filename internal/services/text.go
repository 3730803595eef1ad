package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
)

// truncateRunes caps s at max runes, appending an ellipsis when trimmed.
func truncateRunes(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

func displayName(dbc dbctx.Context, users repos.UserRepo, id *uuid.UUID) string {
	if id == nil {
		return "Someone"
	}
	u, err := users.GetByID(dbc, *id)
	if err != nil || u == nil {
		return "Someone"
	}
	return u.Name
}

func personaPrompt(bot *domain.Bot) string {
	parts := make([]string, 0, 2)
	if s := strings.TrimSpace(bot.Persona); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(bot.Constraint); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}
