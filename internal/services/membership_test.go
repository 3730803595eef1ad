package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/domain"
)

func TestEnsureMember_AddsOnce(t *testing.T) {
	dbc := testCtx()
	members := &fakeMemberRepo{}
	svc := NewMembershipService(testLogger(t), members)

	roomID := uuid.New()
	actorID := uuid.New()

	if err := svc.EnsureMember(dbc, roomID, actorID); err != nil {
		t.Fatalf("EnsureMember: %v", err)
	}
	if len(members.added) != 1 {
		t.Fatalf("expected 1 membership row, got %d", len(members.added))
	}
	if members.added[0].role != domain.RoomMemberRoleMember {
		t.Fatalf("role = %q, want %q", members.added[0].role, domain.RoomMemberRoleMember)
	}

	// Second call must be a no-op.
	if err := svc.EnsureMember(dbc, roomID, actorID); err != nil {
		t.Fatalf("EnsureMember (second): %v", err)
	}
	if len(members.added) != 1 {
		t.Fatalf("expected membership to stay at 1 row, got %d", len(members.added))
	}
}

func TestEnsureMember_ExistingMemberSkipsInsert(t *testing.T) {
	dbc := testCtx()
	roomID := uuid.New()
	actorID := uuid.New()
	members := &fakeMemberRepo{existing: map[string]bool{memberKey(roomID, actorID): true}}
	svc := NewMembershipService(testLogger(t), members)

	if err := svc.EnsureMember(dbc, roomID, actorID); err != nil {
		t.Fatalf("EnsureMember: %v", err)
	}
	if len(members.added) != 0 {
		t.Fatalf("expected no inserts for existing member, got %d", len(members.added))
	}
}
