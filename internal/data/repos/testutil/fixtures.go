package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewdesk/crewdesk-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID, name string) *domain.User {
	tb.Helper()
	u := &domain.User{
		ID:    uuid.New(),
		OrgID: orgID,
		Name:  name,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedUserActor(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID, user *domain.User) *domain.Actor {
	tb.Helper()
	a := &domain.Actor{
		ID:          uuid.New(),
		OrgID:       orgID,
		Kind:        domain.ActorKindUser,
		UserID:      PtrUUID(user.ID),
		DisplayName: user.Name,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed user actor: %v", err)
	}
	return a
}

func SeedBot(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID, kind string) (*domain.Bot, *domain.Actor) {
	tb.Helper()
	b := &domain.Bot{
		ID:      uuid.New(),
		OrgID:   orgID,
		Kind:    kind,
		Name:    kind + "-bot",
		Persona: "helpful",
	}
	a := &domain.Actor{
		ID:          uuid.New(),
		OrgID:       orgID,
		Kind:        domain.ActorKindBot,
		BotID:       PtrUUID(b.ID),
		DisplayName: b.Name,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed bot actor: %v", err)
	}
	b.ActorID = PtrUUID(a.ID)
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed bot: %v", err)
	}
	return b, a
}

func SeedWorkspace(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID) *domain.Workspace {
	tb.Helper()
	w := &domain.Workspace{
		ID:    uuid.New(),
		OrgID: orgID,
		Name:  "workspace",
		Code:  "WS-1",
	}
	if err := tx.WithContext(ctx).Create(w).Error; err != nil {
		tb.Fatalf("seed workspace: %v", err)
	}
	return w
}

func SeedRoom(tb testing.TB, ctx context.Context, tx *gorm.DB, orgID uuid.UUID, kind string, workspaceID *uuid.UUID) *domain.ChatRoom {
	tb.Helper()
	r := &domain.ChatRoom{
		ID:          uuid.New(),
		OrgID:       orgID,
		Kind:        kind,
		WorkspaceID: workspaceID,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed room: %v", err)
	}
	return r
}

func SeedMessage(tb testing.TB, ctx context.Context, tx *gorm.DB, roomID uuid.UUID, senderActorID uuid.UUID, content string, createdAt time.Time) *domain.ChatMessage {
	tb.Helper()
	m := &domain.ChatMessage{
		ID:            uuid.New(),
		RoomID:        roomID,
		SenderActorID: senderActorID,
		Kind:          domain.MessageKindText,
		Content:       content,
		CreatedAt:     createdAt.UTC(),
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed message: %v", err)
	}
	return m
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
