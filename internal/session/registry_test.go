package session

import (
	"path/filepath"
	"testing"

	"github.com/humblebridge/humblebridge/internal/store"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewRegistry(s)
}

func TestRegistry_AbsentUntilSet(t *testing.T) {
	r := newTestRegistry(t)

	if _, ok, err := r.SessionID("base-1"); err != nil || ok {
		t.Fatalf("expected absent session, got ok=%v err=%v", ok, err)
	}

	if err := r.SetSessionID("base-1", "chat-1"); err != nil {
		t.Fatalf("SetSessionID() error: %v", err)
	}
	chatID, ok, err := r.SessionID("base-1")
	if err != nil {
		t.Fatalf("SessionID() error: %v", err)
	}
	if !ok || chatID != "chat-1" {
		t.Errorf("expected chat-1, got ok=%v id=%q", ok, chatID)
	}
}

func TestRegistry_ClearIsTombstoneNotDelete(t *testing.T) {
	r := newTestRegistry(t)

	if err := r.SetSessionID("base-1", "chat-1"); err != nil {
		t.Fatalf("SetSessionID() error: %v", err)
	}
	if err := r.ClearSession("base-1"); err != nil {
		t.Fatalf("ClearSession() error: %v", err)
	}

	// The registry reads it as absent...
	if _, ok, _ := r.SessionID("base-1"); ok {
		t.Error("tombstoned session should read as absent")
	}
	// ...but the row is still there with an empty chat id.
	chatID, _, found, err := r.store.GetSession("base-1")
	if err != nil {
		t.Fatalf("GetSession() error: %v", err)
	}
	if !found || chatID != "" {
		t.Errorf("expected tombstone row, got found=%v chatID=%q", found, chatID)
	}

	// Clearing again is idempotent.
	if err := r.ClearSession("base-1"); err != nil {
		t.Errorf("second ClearSession() error: %v", err)
	}
}
