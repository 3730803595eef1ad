package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/domain"
	"github.com/crewdesk/crewdesk-backend/internal/jobs"
	"github.com/crewdesk/crewdesk-backend/internal/platform/openai"
)

func chatReplyFixture(t *testing.T) (jobs.ChatAiReplyPayload, *domain.ChatRoom, *domain.ChatMessage, *domain.Bot) {
	t.Helper()
	orgID := uuid.New()
	room := &domain.ChatRoom{ID: uuid.New(), OrgID: orgID, Kind: domain.RoomKindAi}
	trigger := &domain.ChatMessage{ID: uuid.New(), RoomID: room.ID, SenderActorID: uuid.New(), Content: "hi bot"}
	bot := newTestBot(orgID, domain.BotKindChat)
	p := jobs.ChatAiReplyPayload{
		OrgID:        orgID,
		RoomID:       room.ID,
		MessageID:    trigger.ID,
		SenderUserID: uuid.New(),
	}
	return p, room, trigger, bot
}

func TestSendAiChatReply_SendsReplyToTrigger(t *testing.T) {
	dbc := testCtx()
	p, room, trigger, bot := chatReplyFixture(t)

	rooms := &fakeRoomRepo{byID: map[uuid.UUID]*domain.ChatRoom{room.ID: room}}
	messages := &fakeMessageRepo{byID: map[uuid.UUID]*domain.ChatMessage{trigger.ID: trigger}}
	ai := &fakeAI{chat: "sure, on it"}
	membership := &fakeMembership{}
	dispatcher := &fakeDispatcher{}

	svc := NewChatReplyService(
		testLogger(t), rooms, messages,
		&fakeBots{bot: bot}, membership,
		&fakeContextBuilder{turns: []openai.ChatMessage{{Role: "user", Content: "hi bot"}}},
		&fakeAIClients{client: ai}, dispatcher,
	)

	if err := svc.SendAiChatReply(dbc, p); err != nil {
		t.Fatalf("SendAiChatReply: %v", err)
	}
	if len(membership.ensured) != 1 || membership.ensured[0].actorID != *bot.ActorID {
		t.Fatalf("bot not ensured as member: %+v", membership.ensured)
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(dispatcher.sent))
	}
	sent := dispatcher.sent[0]
	if sent.content != "sure, on it" {
		t.Fatalf("reply content = %q", sent.content)
	}
	if sent.replyTo == nil || *sent.replyTo != trigger.ID {
		t.Fatalf("reply must thread to the trigger message, got %v", sent.replyTo)
	}
	if len(dispatcher.typing) != 2 || !dispatcher.typing[0] || dispatcher.typing[1] {
		t.Fatalf("typing indicator not paired: %v", dispatcher.typing)
	}
}

func TestSendAiChatReply_FallbackOnAiFailure(t *testing.T) {
	dbc := testCtx()
	p, room, trigger, bot := chatReplyFixture(t)

	rooms := &fakeRoomRepo{byID: map[uuid.UUID]*domain.ChatRoom{room.ID: room}}
	messages := &fakeMessageRepo{byID: map[uuid.UUID]*domain.ChatMessage{trigger.ID: trigger}}
	ai := &fakeAI{chatErr: fmt.Errorf("model overloaded")}
	dispatcher := &fakeDispatcher{}

	svc := NewChatReplyService(
		testLogger(t), rooms, messages,
		&fakeBots{bot: bot}, &fakeMembership{},
		&fakeContextBuilder{}, &fakeAIClients{client: ai}, dispatcher,
	)

	if err := svc.SendAiChatReply(dbc, p); err != nil {
		t.Fatalf("ai failure must not fail the job: %v", err)
	}
	if len(dispatcher.botErrors) != 1 {
		t.Fatalf("expected 1 bot error event, got %d", len(dispatcher.botErrors))
	}
	if len(dispatcher.sent) != 1 || dispatcher.sent[0].content != aiReplyFallback {
		t.Fatalf("expected fallback reply, got %+v", dispatcher.sent)
	}
}

func TestSendAiChatReply_SkipsWhenNoBotSelected(t *testing.T) {
	dbc := testCtx()
	p, room, trigger, _ := chatReplyFixture(t)

	rooms := &fakeRoomRepo{byID: map[uuid.UUID]*domain.ChatRoom{room.ID: room}}
	messages := &fakeMessageRepo{byID: map[uuid.UUID]*domain.ChatMessage{trigger.ID: trigger}}
	dispatcher := &fakeDispatcher{}

	svc := NewChatReplyService(
		testLogger(t), rooms, messages,
		&fakeBots{}, &fakeMembership{},
		&fakeContextBuilder{}, &fakeAIClients{client: &fakeAI{}}, dispatcher,
	)

	if err := svc.SendAiChatReply(dbc, p); err != nil {
		t.Fatalf("SendAiChatReply: %v", err)
	}
	if len(dispatcher.sent) != 0 {
		t.Fatalf("expected no reply without a bot, got %d", len(dispatcher.sent))
	}
}

func TestSendAiChatReply_SkipsWhenAiUnconfigured(t *testing.T) {
	dbc := testCtx()
	p, room, trigger, bot := chatReplyFixture(t)

	rooms := &fakeRoomRepo{byID: map[uuid.UUID]*domain.ChatRoom{room.ID: room}}
	messages := &fakeMessageRepo{byID: map[uuid.UUID]*domain.ChatMessage{trigger.ID: trigger}}
	dispatcher := &fakeDispatcher{}

	svc := NewChatReplyService(
		testLogger(t), rooms, messages,
		&fakeBots{bot: bot}, &fakeMembership{},
		&fakeContextBuilder{}, &fakeAIClients{}, dispatcher,
	)

	if err := svc.SendAiChatReply(dbc, p); err != nil {
		t.Fatalf("SendAiChatReply: %v", err)
	}
	if len(dispatcher.sent) != 0 || len(dispatcher.typing) != 0 {
		t.Fatal("nothing should be dispatched when the org has no AI")
	}
}

func TestSendAiChatReply_MissingRoomIsSkipped(t *testing.T) {
	dbc := testCtx()
	p, _, _, bot := chatReplyFixture(t)
	dispatcher := &fakeDispatcher{}

	svc := NewChatReplyService(
		testLogger(t), &fakeRoomRepo{byID: map[uuid.UUID]*domain.ChatRoom{}}, &fakeMessageRepo{},
		&fakeBots{bot: bot}, &fakeMembership{},
		&fakeContextBuilder{}, &fakeAIClients{client: &fakeAI{}}, dispatcher,
	)

	if err := svc.SendAiChatReply(dbc, p); err != nil {
		t.Fatalf("missing room must not fail the job: %v", err)
	}
	if len(dispatcher.sent) != 0 {
		t.Fatal("no reply expected for a missing room")
	}
}
