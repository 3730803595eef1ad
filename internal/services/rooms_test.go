package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/domain"
)

func TestGetOrCreateDmRoom_CreatesRoomWithBothMembers(t *testing.T) {
	dbc := testCtx()
	orgID := uuid.New()
	userID := uuid.New()
	userActor := &domain.Actor{ID: uuid.New(), OrgID: orgID, Kind: domain.ActorKindUser, UserID: ptrUUID(userID)}
	bot := newTestBot(orgID, domain.BotKindChat)

	rooms := &fakeRoomRepo{}
	actors := &fakeActorRepo{byUser: map[uuid.UUID]*domain.Actor{userID: userActor}}
	members := &fakeMemberRepo{}
	svc := NewRoomResolver(testLogger(t), rooms, actors, members)

	room, err := svc.GetOrCreateDmRoom(dbc, orgID, userID, bot)
	if err != nil {
		t.Fatalf("GetOrCreateDmRoom: %v", err)
	}
	if room == nil {
		t.Fatal("expected a room")
	}
	if room.Kind != domain.RoomKindAi {
		t.Fatalf("room kind = %q, want %q", room.Kind, domain.RoomKindAi)
	}
	if room.OwnerUserID == nil || *room.OwnerUserID != userID {
		t.Fatalf("owner = %v, want %s", room.OwnerUserID, userID)
	}
	if len(rooms.created) != 1 {
		t.Fatalf("expected 1 room created, got %d", len(rooms.created))
	}
	if len(members.added) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members.added))
	}
	if members.added[0].actorID != userActor.ID || members.added[0].role != domain.RoomMemberRoleOwner {
		t.Fatalf("first member should be the user as owner, got %+v", members.added[0])
	}
	if members.added[1].actorID != *bot.ActorID || members.added[1].role != domain.RoomMemberRoleMember {
		t.Fatalf("second member should be the bot, got %+v", members.added[1])
	}
}

func TestGetOrCreateDmRoom_ReusesExistingRoom(t *testing.T) {
	dbc := testCtx()
	orgID := uuid.New()
	userID := uuid.New()
	userActor := &domain.Actor{ID: uuid.New(), OrgID: orgID, Kind: domain.ActorKindUser, UserID: ptrUUID(userID)}
	bot := newTestBot(orgID, domain.BotKindChat)
	existing := &domain.ChatRoom{ID: uuid.New(), OrgID: orgID, Kind: domain.RoomKindAi}

	rooms := &fakeRoomRepo{aiRoom: existing}
	actors := &fakeActorRepo{byUser: map[uuid.UUID]*domain.Actor{userID: userActor}}
	members := &fakeMemberRepo{}
	svc := NewRoomResolver(testLogger(t), rooms, actors, members)

	room, err := svc.GetOrCreateDmRoom(dbc, orgID, userID, bot)
	if err != nil {
		t.Fatalf("GetOrCreateDmRoom: %v", err)
	}
	if room == nil || room.ID != existing.ID {
		t.Fatalf("expected the existing room back, got %+v", room)
	}
	if len(rooms.created) != 0 {
		t.Fatalf("expected no new room, got %d", len(rooms.created))
	}
	// The bot is attached to rooms that predate it.
	if len(members.added) != 1 || members.added[0].actorID != *bot.ActorID {
		t.Fatalf("expected only the bot membership add, got %+v", members.added)
	}
}

func TestGetOrCreateDmRoom_UserWithoutActorSkips(t *testing.T) {
	dbc := testCtx()
	orgID := uuid.New()
	bot := newTestBot(orgID, domain.BotKindChat)

	rooms := &fakeRoomRepo{}
	actors := &fakeActorRepo{byUser: map[uuid.UUID]*domain.Actor{}}
	svc := NewRoomResolver(testLogger(t), rooms, actors, &fakeMemberRepo{})

	room, err := svc.GetOrCreateDmRoom(dbc, orgID, uuid.New(), bot)
	if err != nil {
		t.Fatalf("GetOrCreateDmRoom: %v", err)
	}
	if room != nil {
		t.Fatalf("expected nil room for user without actor, got %+v", room)
	}
}

func TestGetOrCreateDmRoom_BotWithoutActorFails(t *testing.T) {
	dbc := testCtx()
	orgID := uuid.New()
	bot := &domain.Bot{ID: uuid.New(), OrgID: orgID, Kind: domain.BotKindChat}

	svc := NewRoomResolver(testLogger(t), &fakeRoomRepo{}, &fakeActorRepo{}, &fakeMemberRepo{})
	if _, err := svc.GetOrCreateDmRoom(dbc, orgID, uuid.New(), bot); err == nil {
		t.Fatal("expected error for bot without actor identity")
	}
}
