package services

import (
	"strings"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/jobs"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
)

// aiReplyFallback is delivered in place of a reply on unrecoverable AI
// failure; end users never see the underlying error.
const aiReplyFallback = "Sorry, I ran into a problem while writing my reply. Please try again in a moment."

// ChatReplyService produces the AI-backed bot reply to a user message in a
// chat room.
type ChatReplyService interface {
	SendAiChatReply(dbc dbctx.Context, p jobs.ChatAiReplyPayload) error
}

type chatReplyService struct {
	log            *logger.Logger
	rooms          repos.ChatRoomRepo
	messages       repos.ChatMessageRepo
	bots           BotService
	membership     MembershipService
	contextBuilder ContextBuilder
	aiClients      AIClients
	dispatcher     Dispatcher
}

func NewChatReplyService(
	log *logger.Logger,
	rooms repos.ChatRoomRepo,
	messages repos.ChatMessageRepo,
	bots BotService,
	membership MembershipService,
	contextBuilder ContextBuilder,
	aiClients AIClients,
	dispatcher Dispatcher,
) ChatReplyService {
	return &chatReplyService{
		log:            log.With("service", "ChatReplyService"),
		rooms:          rooms,
		messages:       messages,
		bots:           bots,
		membership:     membership,
		contextBuilder: contextBuilder,
		aiClients:      aiClients,
		dispatcher:     dispatcher,
	}
}

func (s *chatReplyService) SendAiChatReply(dbc dbctx.Context, p jobs.ChatAiReplyPayload) error {
	room, err := s.rooms.GetByID(dbc, p.RoomID)
	if err != nil {
		return err
	}
	if room == nil {
		s.log.Warn("room not found; skipping ai reply", "room_id", p.RoomID)
		return nil
	}

	trigger, err := s.messages.GetByID(dbc, p.MessageID)
	if err != nil {
		return err
	}
	if trigger == nil {
		s.log.Warn("trigger message not found; skipping ai reply", "message_id", p.MessageID)
		return nil
	}

	bot, err := s.bots.SelectBotByContent(dbc, room.OrgID, trigger.Content)
	if err != nil {
		return err
	}
	if bot == nil {
		s.log.Info("no bot selected; skipping ai reply", "org_id", room.OrgID, "room_id", room.ID)
		return nil
	}

	if err := s.membership.EnsureMember(dbc, room.ID, *bot.ActorID); err != nil {
		return err
	}

	ai, err := s.aiClients.ForOrg(dbc, room.OrgID)
	if err != nil {
		return err
	}
	if ai == nil {
		return nil
	}

	return s.dispatcher.WithTyping(dbc.Ctx, room, bot, func() error {
		turns, err := s.contextBuilder.BuildContext(dbc, room.ID, *bot.ActorID)
		if err != nil {
			return err
		}

		reply, aiErr := ai.GenerateChat(dbc.Ctx, personaPrompt(bot), turns)
		if aiErr != nil || strings.TrimSpace(reply) == "" {
			s.log.Warn("ai reply generation failed; sending fallback", "room_id", room.ID, "error", aiErr)
			s.dispatcher.PublishBotError(dbc.Ctx, room, aiReplyFallback)
			reply = aiReplyFallback
		}

		_, err = s.dispatcher.SendBotMessage(dbc, room, bot, reply, &trigger.ID)
		return err
	})
}
