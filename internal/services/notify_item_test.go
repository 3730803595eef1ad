package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/domain"
)

func TestNotifyItemCreated_AnnouncesInGroupRoom(t *testing.T) {
	dbc := testCtx()
	wsID := uuid.New()
	actorUser := &domain.User{ID: uuid.New(), Name: "Aya"}
	item := &domain.WorkspaceItem{
		ID:              uuid.New(),
		WorkspaceID:     wsID,
		Code:            "ITEM-12",
		Title:           "onboarding flow",
		LastActedUserID: ptrUUID(actorUser.ID),
	}
	room := &domain.ChatRoom{ID: uuid.New(), OrgID: uuid.New(), Kind: domain.RoomKindGroup, WorkspaceID: &wsID}
	bot := newTestBot(room.OrgID, domain.BotKindSystem)

	membership := &fakeMembership{}
	dispatcher := &fakeDispatcher{}
	svc := NewItemNotifier(
		testLogger(t),
		&fakeItemRepo{byID: map[uuid.UUID]*domain.WorkspaceItem{item.ID: item}},
		&fakeUserRepo{byID: map[uuid.UUID]*domain.User{actorUser.ID: actorUser}},
		&fakeRoomRepo{groupRooms: map[uuid.UUID]*domain.ChatRoom{wsID: room}},
		&fakeBots{bot: bot},
		membership,
		dispatcher,
	)

	if err := svc.NotifyItemCreated(dbc, item.ID); err != nil {
		t.Fatalf("NotifyItemCreated: %v", err)
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("expected 1 announcement, got %d", len(dispatcher.sent))
	}
	want := "Aya created item ITEM-12: onboarding flow"
	if dispatcher.sent[0].content != want {
		t.Fatalf("content = %q, want %q", dispatcher.sent[0].content, want)
	}
	if len(membership.ensured) != 1 || membership.ensured[0].actorID != *bot.ActorID {
		t.Fatalf("bot must be ensured as room member, got %+v", membership.ensured)
	}
}

func TestNotifyItemUpdated_MissingItemSkipped(t *testing.T) {
	dbc := testCtx()
	dispatcher := &fakeDispatcher{}
	svc := NewItemNotifier(
		testLogger(t),
		&fakeItemRepo{},
		&fakeUserRepo{},
		&fakeRoomRepo{},
		&fakeBots{},
		&fakeMembership{},
		dispatcher,
	)

	if err := svc.NotifyItemUpdated(dbc, uuid.New()); err != nil {
		t.Fatalf("missing item must not fail the job: %v", err)
	}
	if len(dispatcher.sent) != 0 {
		t.Fatal("no announcement expected for a missing item")
	}
}

func TestNotifyItemCreated_NoGroupRoomSkipped(t *testing.T) {
	dbc := testCtx()
	item := &domain.WorkspaceItem{ID: uuid.New(), WorkspaceID: uuid.New(), Code: "ITEM-1", Title: "x"}
	dispatcher := &fakeDispatcher{}
	svc := NewItemNotifier(
		testLogger(t),
		&fakeItemRepo{byID: map[uuid.UUID]*domain.WorkspaceItem{item.ID: item}},
		&fakeUserRepo{},
		&fakeRoomRepo{},
		&fakeBots{},
		&fakeMembership{},
		dispatcher,
	)

	if err := svc.NotifyItemCreated(dbc, item.ID); err != nil {
		t.Fatalf("NotifyItemCreated: %v", err)
	}
	if len(dispatcher.sent) != 0 {
		t.Fatal("no announcement expected without a group room")
	}
}

func TestNotifyTaskCreated_AnnouncesWithItemCode(t *testing.T) {
	dbc := testCtx()
	wsID := uuid.New()
	item := &domain.WorkspaceItem{ID: uuid.New(), WorkspaceID: wsID, Code: "ITEM-3", Title: "item"}
	task := &domain.WorkspaceTask{
		ID:          uuid.New(),
		ItemID:      item.ID,
		WorkspaceID: wsID,
		Title:       "write docs",
	}
	room := &domain.ChatRoom{ID: uuid.New(), OrgID: uuid.New(), Kind: domain.RoomKindGroup, WorkspaceID: &wsID}

	dispatcher := &fakeDispatcher{}
	svc := NewTaskNotifier(
		testLogger(t),
		&fakeTaskRepo{byID: map[uuid.UUID]*domain.WorkspaceTask{task.ID: task}},
		&fakeItemRepo{byID: map[uuid.UUID]*domain.WorkspaceItem{item.ID: item}},
		&fakeUserRepo{},
		&fakeRoomRepo{groupRooms: map[uuid.UUID]*domain.ChatRoom{wsID: room}},
		&fakeBots{bot: newTestBot(room.OrgID, domain.BotKindSystem)},
		&fakeMembership{},
		dispatcher,
	)

	if err := svc.NotifyTaskCreated(dbc, task.ID); err != nil {
		t.Fatalf("NotifyTaskCreated: %v", err)
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("expected 1 announcement, got %d", len(dispatcher.sent))
	}
	want := `Someone created task "write docs" on item ITEM-3`
	if dispatcher.sent[0].content != want {
		t.Fatalf("content = %q, want %q", dispatcher.sent[0].content, want)
	}
}
