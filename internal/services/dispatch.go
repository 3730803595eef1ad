package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
	"github.com/crewdesk/crewdesk-backend/internal/realtime"
)

var tracer = otel.Tracer("github.com/crewdesk/crewdesk-backend/internal/services")

// Dispatcher persists an outbound bot message and fans it out.
type Dispatcher interface {
	// SendBotMessage persists the message, touches the room liveness
	// timestamp last-write-wins, and publishes one message_received event to
	// the room group plus one unread_updated event to the organization
	// group. Publish failures propagate so the job host retries.
	SendBotMessage(dbc dbctx.Context, room *domain.ChatRoom, bot *domain.Bot, content string, replyTo *uuid.UUID) (*domain.ChatMessage, error)

	// WithTyping publishes typing=true, runs fn, and publishes typing=false
	// exactly once even when fn fails.
	WithTyping(ctx context.Context, room *domain.ChatRoom, bot *domain.Bot, fn func() error) error

	// PublishBotError emits the user-facing error indicator for an
	// unrecoverable AI failure. Best effort.
	PublishBotError(ctx context.Context, room *domain.ChatRoom, message string)
}

type dispatcher struct {
	log      *logger.Logger
	messages repos.ChatMessageRepo
	rooms    repos.ChatRoomRepo
	pub      Publisher
}

func NewDispatcher(log *logger.Logger, messages repos.ChatMessageRepo, rooms repos.ChatRoomRepo, pub Publisher) Dispatcher {
	return &dispatcher{
		log:      log.With("service", "Dispatcher"),
		messages: messages,
		rooms:    rooms,
		pub:      pub,
	}
}

func botSender(bot *domain.Bot) realtime.SenderDescriptor {
	botID := bot.ID
	return realtime.SenderDescriptor{
		ID:              *bot.ActorID,
		ActorType:       domain.ActorKindBot,
		UserID:          nil,
		BotID:           &botID,
		DisplayName:     bot.Name,
		AvatarType:      realtime.AvatarTypeBot,
		AvatarURL:       bot.IconURL,
		IdentityIconURL: bot.IconURL,
		IsActive:        true,
	}
}

func (d *dispatcher) SendBotMessage(dbc dbctx.Context, room *domain.ChatRoom, bot *domain.Bot, content string, replyTo *uuid.UUID) (*domain.ChatMessage, error) {
	if room == nil {
		return nil, fmt.Errorf("room required")
	}
	if bot == nil || bot.ActorID == nil {
		return nil, fmt.Errorf("bot with actor identity required")
	}

	ctx, span := tracer.Start(dbc.Ctx, "Dispatcher.SendBotMessage", trace.WithAttributes(
		attribute.String("room.id", room.ID.String()),
		attribute.String("bot.id", bot.ID.String()),
	))
	defer span.End()
	dbc.Ctx = ctx

	msg, err := d.send(dbc, room, bot, content, replyTo)
	if err != nil {
		span.RecordError(err)
	}
	return msg, err
}

func (d *dispatcher) send(dbc dbctx.Context, room *domain.ChatRoom, bot *domain.Bot, content string, replyTo *uuid.UUID) (*domain.ChatMessage, error) {
	msg, err := d.messages.Create(dbc, &domain.ChatMessage{
		RoomID:           room.ID,
		SenderActorID:    *bot.ActorID,
		Kind:             domain.MessageKindText,
		Content:          content,
		ReplyToMessageID: replyTo,
	})
	if err != nil {
		return nil, err
	}

	touchedAt := msg.CreatedAt
	if touchedAt.IsZero() {
		touchedAt = time.Now().UTC()
	}
	if err := d.rooms.TouchUpdatedAt(dbc, room.ID, touchedAt); err != nil {
		return nil, err
	}

	received, err := d.pub.Publish(dbc.Ctx, realtime.RoomGroup(room.ID), realtime.EventChatMessageReceived, realtime.MessageReceivedPayload{
		RoomID:   room.ID,
		RoomType: room.Kind,
		Message: realtime.MessagePayload{
			ID:               msg.ID,
			SenderActorID:    msg.SenderActorID,
			MessageType:      msg.Kind,
			Content:          msg.Content,
			ReplyToMessageID: msg.ReplyToMessageID,
			CreatedAt:        msg.CreatedAt,
			Sender:           botSender(bot),
		},
	})
	if err != nil {
		return nil, err
	}

	if _, err := d.pub.Publish(dbc.Ctx, realtime.OrgGroup(room.OrgID), realtime.EventChatUnreadUpdated, realtime.UnreadUpdatedPayload{
		RoomID:        room.ID,
		RoomType:      room.Kind,
		SenderActorID: msg.SenderActorID,
	}); err != nil {
		return nil, err
	}

	d.log.Info("bot message dispatched",
		"room_id", room.ID,
		"bot_id", bot.ID,
		"message_id", msg.ID,
		"receivers", received,
	)
	return msg, nil
}

func (d *dispatcher) WithTyping(ctx context.Context, room *domain.ChatRoom, bot *domain.Bot, fn func() error) error {
	d.publishTyping(ctx, room, bot, true)
	defer d.publishTyping(ctx, room, bot, false)
	return fn()
}

// Typing signals are transient; a lost one degrades to the client-side
// timeout, so failures are logged and not propagated.
func (d *dispatcher) publishTyping(ctx context.Context, room *domain.ChatRoom, bot *domain.Bot, isTyping bool) {
	if room == nil || bot == nil {
		return
	}
	if _, err := d.pub.Publish(ctx, realtime.RoomGroup(room.ID), realtime.EventBotTyping, realtime.BotTypingPayload{
		IsTyping: isTyping,
		BotID:    bot.ID,
		BotName:  bot.Name,
	}); err != nil {
		d.log.Warn("failed to publish typing indicator", "room_id", room.ID, "is_typing", isTyping, "error", err)
	}
}

func (d *dispatcher) PublishBotError(ctx context.Context, room *domain.ChatRoom, message string) {
	if room == nil {
		return
	}
	if _, err := d.pub.Publish(ctx, realtime.RoomGroup(room.ID), realtime.EventBotError, realtime.BotErrorPayload{
		RoomID:  room.ID,
		Message: message,
	}); err != nil {
		d.log.Warn("failed to publish bot error indicator", "room_id", room.ID, "error", err)
	}
}
