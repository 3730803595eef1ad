package services

import (
	"fmt"
	"time"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/jobs"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

// DefaultWelcomeDelay is the fixed pre-delay before the welcome message so
// the user's first screen has settled.
const DefaultWelcomeDelay = 10 * time.Second

// LoginNotifier greets first-time users in their AI room.
type LoginNotifier interface {
	SendLoginWelcome(dbc dbctx.Context, p jobs.LoginWelcomePayload) error
}

type loginNotifier struct {
	log        *logger.Logger
	users      repos.UserRepo
	bots       BotService
	resolver   RoomResolver
	dispatcher Dispatcher
	delay      time.Duration
}

// NewLoginNotifier builds a LoginNotifier; delay < 0 falls back to the
// default 10 seconds.
func NewLoginNotifier(
	log *logger.Logger,
	users repos.UserRepo,
	bots BotService,
	resolver RoomResolver,
	dispatcher Dispatcher,
	delay time.Duration,
) LoginNotifier {
	if delay < 0 {
		delay = DefaultWelcomeDelay
	}
	return &loginNotifier{
		log:        log.With("service", "LoginNotifier"),
		users:      users,
		bots:       bots,
		resolver:   resolver,
		dispatcher: dispatcher,
		delay:      delay,
	}
}

func (s *loginNotifier) SendLoginWelcome(dbc dbctx.Context, p jobs.LoginWelcomePayload) error {
	if s.delay > 0 {
		select {
		case <-dbc.Ctx.Done():
			return dbc.Ctx.Err()
		case <-time.After(s.delay):
		}
	}

	user, err := s.users.GetByID(dbc, p.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		s.log.Warn("user not found; skipping welcome", "user_id", p.UserID)
		return nil
	}
	if user.LastLoginAt != nil {
		return nil
	}

	bot, err := s.bots.SelectBotRandom(dbc, p.OrgID)
	if err != nil {
		return err
	}
	if bot == nil {
		s.log.Warn("no bots in organization; skipping welcome", "org_id", p.OrgID)
		return nil
	}

	room, err := s.resolver.GetOrCreateDmRoom(dbc, p.OrgID, user.ID, bot)
	if err != nil {
		return err
	}
	if room == nil {
		return nil
	}

	name := p.Username
	if name == "" {
		name = user.Name
	}
	content := fmt.Sprintf("Welcome aboard, %s! I'm %s. Mention me here whenever you need a hand.", name, bot.Name)

	if _, err := s.dispatcher.SendBotMessage(dbc, room, bot, content, nil); err != nil {
		return err
	}
	return s.users.MarkLoggedIn(dbc, user.ID, time.Now().UTC())
}
