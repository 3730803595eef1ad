package org

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos/testutil"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/dbctx"
)

func TestUserRepo_MarkLoggedIn(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	orgID := uuid.New()
	user := testutil.SeedUser(t, ctx, tx, orgID, "Aya")

	repo := NewUserRepo(gdb, log)

	got, err := repo.GetByID(dbc, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.LastLoginAt != nil {
		t.Fatalf("fresh user should have no login mark, got %+v", got)
	}

	at := time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)
	if err := repo.MarkLoggedIn(dbc, user.ID, at); err != nil {
		t.Fatalf("MarkLoggedIn: %v", err)
	}

	got, err = repo.GetByID(dbc, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.LastLoginAt == nil || !got.LastLoginAt.Equal(at) {
		t.Fatalf("last_login_at = %v, want %v", got.LastLoginAt, at)
	}
}

func TestUserRepo_GetByIDMissing(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	log := testutil.Logger(t)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewUserRepo(gdb, log)
	got, err := repo.GetByID(dbc, uuid.New())
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("unknown id should resolve to nil, got %+v", got)
	}
}
