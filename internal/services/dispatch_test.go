package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/realtime"
)

func TestSendBotMessage_PublishesBothEvents(t *testing.T) {
	dbc := testCtx()
	orgID := uuid.New()
	room := &domain.ChatRoom{ID: uuid.New(), OrgID: orgID, Kind: domain.RoomKindGroup}
	bot := newTestBot(orgID, domain.BotKindSystem)

	messages := &fakeMessageRepo{}
	rooms := &fakeRoomRepo{}
	pub := &fakePublisher{receivers: 2}
	d := NewDispatcher(testLogger(t), messages, rooms, pub)

	msg, err := d.SendBotMessage(dbc, room, bot, "hello", nil)
	if err != nil {
		t.Fatalf("SendBotMessage: %v", err)
	}
	if msg == nil || msg.SenderActorID != *bot.ActorID {
		t.Fatalf("message sender wrong: %+v", msg)
	}
	if len(messages.created) != 1 {
		t.Fatalf("expected 1 persisted message, got %d", len(messages.created))
	}
	if len(rooms.touched) != 1 || rooms.touched[0].id != room.ID {
		t.Fatalf("room liveness not touched: %+v", rooms.touched)
	}

	got := pub.byEvent(realtime.EventChatMessageReceived)
	if len(got) != 1 {
		t.Fatalf("expected 1 message_received, got %d", len(got))
	}
	if got[0].group != realtime.RoomGroup(room.ID) {
		t.Fatalf("message_received group = %q, want %q", got[0].group, realtime.RoomGroup(room.ID))
	}

	got = pub.byEvent(realtime.EventChatUnreadUpdated)
	if len(got) != 1 {
		t.Fatalf("expected 1 unread_updated, got %d", len(got))
	}
	if got[0].group != realtime.OrgGroup(orgID) {
		t.Fatalf("unread_updated group = %q, want %q", got[0].group, realtime.OrgGroup(orgID))
	}
}

func TestSendBotMessage_PublishFailurePropagates(t *testing.T) {
	dbc := testCtx()
	orgID := uuid.New()
	room := &domain.ChatRoom{ID: uuid.New(), OrgID: orgID, Kind: domain.RoomKindGroup}
	bot := newTestBot(orgID, domain.BotKindSystem)

	pub := &fakePublisher{failOn: map[realtime.Event]error{
		realtime.EventChatMessageReceived: fmt.Errorf("bus down"),
	}}
	d := NewDispatcher(testLogger(t), &fakeMessageRepo{}, &fakeRoomRepo{}, pub)

	if _, err := d.SendBotMessage(dbc, room, bot, "hello", nil); err == nil {
		t.Fatal("expected publish failure to propagate")
	}
	if len(pub.byEvent(realtime.EventChatUnreadUpdated)) != 0 {
		t.Fatal("unread_updated must not be published after a failed message_received")
	}
}

func TestSendBotMessage_RequiresBotActor(t *testing.T) {
	dbc := testCtx()
	room := &domain.ChatRoom{ID: uuid.New(), OrgID: uuid.New()}
	bot := &domain.Bot{ID: uuid.New()}

	d := NewDispatcher(testLogger(t), &fakeMessageRepo{}, &fakeRoomRepo{}, &fakePublisher{})
	if _, err := d.SendBotMessage(dbc, room, bot, "hello", nil); err == nil {
		t.Fatal("expected error for bot without actor identity")
	}
}

func TestWithTyping_PairsStartAndStop(t *testing.T) {
	orgID := uuid.New()
	room := &domain.ChatRoom{ID: uuid.New(), OrgID: orgID}
	bot := newTestBot(orgID, domain.BotKindChat)

	pub := &fakePublisher{}
	d := NewDispatcher(testLogger(t), &fakeMessageRepo{}, &fakeRoomRepo{}, pub)

	err := d.WithTyping(context.Background(), room, bot, func() error {
		return fmt.Errorf("work failed")
	})
	if err == nil {
		t.Fatal("expected fn error to propagate")
	}

	typing := pub.byEvent(realtime.EventBotTyping)
	if len(typing) != 2 {
		t.Fatalf("expected typing start+stop, got %d events", len(typing))
	}
	first, ok := typing[0].data.(realtime.BotTypingPayload)
	if !ok || !first.IsTyping {
		t.Fatalf("first typing event should be true, got %+v", typing[0].data)
	}
	second, ok := typing[1].data.(realtime.BotTypingPayload)
	if !ok || second.IsTyping {
		t.Fatalf("second typing event should be false, got %+v", typing[1].data)
	}
}

func TestWithTyping_PublishFailureDoesNotAbortWork(t *testing.T) {
	orgID := uuid.New()
	room := &domain.ChatRoom{ID: uuid.New(), OrgID: orgID}
	bot := newTestBot(orgID, domain.BotKindChat)

	pub := &fakePublisher{failOn: map[realtime.Event]error{
		realtime.EventBotTyping: fmt.Errorf("bus down"),
	}}
	d := NewDispatcher(testLogger(t), &fakeMessageRepo{}, &fakeRoomRepo{}, pub)

	ran := false
	if err := d.WithTyping(context.Background(), room, bot, func() error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("typing publish failure must not fail the work: %v", err)
	}
	if !ran {
		t.Fatal("fn did not run")
	}
}
