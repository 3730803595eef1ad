package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/domain"
)

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "short stays intact", in: "hello", max: 10, want: "hello"},
		{name: "exact length stays intact", in: "hello", max: 5, want: "hello"},
		{name: "long gets ellipsis", in: "hello world", max: 6, want: "hello…"},
		{name: "multibyte counted as runes", in: "こんにちは世界", max: 5, want: "こんにち…"},
		{name: "surrounding space trimmed", in: "  hi  ", max: 10, want: "hi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncateRunes(tc.in, tc.max)
			if got != tc.want {
				t.Fatalf("truncateRunes(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
			if n := len([]rune(got)); n > tc.max {
				t.Fatalf("result %q has %d runes, cap is %d", got, n, tc.max)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	dbc := testCtx()
	userID := uuid.New()
	users := &fakeUserRepo{byID: map[uuid.UUID]*domain.User{
		userID: {ID: userID, Name: "Mori"},
	}}

	if got := displayName(dbc, users, &userID); got != "Mori" {
		t.Fatalf("displayName = %q, want Mori", got)
	}
	if got := displayName(dbc, users, nil); got != "Someone" {
		t.Fatalf("displayName(nil) = %q, want Someone", got)
	}
	unknown := uuid.New()
	if got := displayName(dbc, users, &unknown); got != "Someone" {
		t.Fatalf("displayName(unknown) = %q, want Someone", got)
	}
}

func TestPersonaPrompt(t *testing.T) {
	bot := &domain.Bot{Persona: "Cheerful helper.", Constraint: "Keep answers short."}
	want := "Cheerful helper.\nKeep answers short."
	if got := personaPrompt(bot); got != want {
		t.Fatalf("personaPrompt = %q, want %q", got, want)
	}

	bot = &domain.Bot{Persona: "Cheerful helper."}
	if got := personaPrompt(bot); got != "Cheerful helper." {
		t.Fatalf("personaPrompt without constraint = %q", got)
	}
}
