//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/adacosta/portfolio-chat/internal/chat"
	"github.com/adacosta/portfolio-chat/internal/profile"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func deleteSession(t *testing.T, s *Store, id uuid.UUID) {
	t.Cleanup(func() {
		s.pool.Exec(context.Background(), "DELETE FROM chat_sessions WHERE session_id = $1", id)
	})
}

func TestIntegration_SaveAndLoadHistory(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	id := uuid.New()
	deleteSession(t, s, id)

	msgs := []chat.Message{
		{ID: 1, Role: chat.RoleUser, Text: "hello"},
		{ID: 2, Role: chat.RoleBot, Text: "Hi there", Source: chat.SourceRuleBased},
	}
	if err := s.SaveHistory(ctx, id, msgs); err != nil {
		t.Fatalf("SaveHistory failed: %v", err)
	}

	got, err := s.LoadHistory(ctx, id)
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	for i := range msgs {
		if got[i] != msgs[i] {
			t.Errorf("message %d: got %+v, want %+v", i, got[i], msgs[i])
		}
	}

	var snapshot string
	if err := s.pool.QueryRow(ctx, "SELECT resume_context FROM chat_sessions WHERE session_id = $1", id).Scan(&snapshot); err != nil {
		t.Fatalf("read resume_context: %v", err)
	}
	if snapshot != profile.ResumeContext {
		t.Error("expected resume context snapshot to be stored")
	}
}

func TestIntegration_SaveReplacesList(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	id := uuid.New()
	deleteSession(t, s, id)

	_ = s.SaveHistory(ctx, id, []chat.Message{{ID: 1, Role: chat.RoleUser, Text: "a"}, {ID: 2, Role: chat.RoleBot, Text: "b"}})
	if err := s.SaveHistory(ctx, id, []chat.Message{{ID: 3, Role: chat.RoleUser, Text: "c"}}); err != nil {
		t.Fatalf("second SaveHistory failed: %v", err)
	}

	got, err := s.LoadHistory(ctx, id)
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if len(got) != 1 || got[0].Text != "c" {
		t.Errorf("expected list to be replaced, got %+v", got)
	}
}

func TestIntegration_LoadUnknownSession(t *testing.T) {
	s := setupTestStore(t)

	got, err := s.LoadHistory(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestIntegration_PurgeOlderThan(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	oldID, newID := uuid.New(), uuid.New()
	deleteSession(t, s, oldID)
	deleteSession(t, s, newID)

	_ = s.SaveHistory(ctx, oldID, []chat.Message{{ID: 1, Role: chat.RoleUser, Text: "old"}})
	_ = s.SaveHistory(ctx, newID, []chat.Message{{ID: 1, Role: chat.RoleUser, Text: "new"}})
	if _, err := s.pool.Exec(ctx, "UPDATE chat_sessions SET created_at = now() - interval '8 days' WHERE session_id = $1", oldID); err != nil {
		t.Fatalf("backdate session: %v", err)
	}

	before, err := s.CountSessions(ctx)
	if err != nil {
		t.Fatalf("CountSessions failed: %v", err)
	}

	n, err := s.PurgeOlderThan(ctx, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("PurgeOlderThan failed: %v", err)
	}
	if n < 1 {
		t.Errorf("expected at least 1 purged session, got %d", n)
	}

	if got, _ := s.LoadHistory(ctx, oldID); len(got) != 0 {
		t.Errorf("expected old session to be purged, got %+v", got)
	}
	if got, _ := s.LoadHistory(ctx, newID); len(got) != 1 {
		t.Errorf("expected recent session to remain, got %+v", got)
	}

	after, _ := s.CountSessions(ctx)
	if after != before-n {
		t.Errorf("expected count %d after purge, got %d", before-n, after)
	}
}
