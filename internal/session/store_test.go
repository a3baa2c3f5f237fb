package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDefaultsToArabicAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store := Open(path)

	sess, err := store.Ensure("42")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if sess.Language != "ar" {
		t.Errorf("expected default language ar, got %q", sess.Language)
	}
	if sess.State != StateAwaitingLanguage {
		t.Errorf("expected awaiting_language, got %q", sess.State)
	}

	// The snapshot must already be on disk before any reply goes out.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("session file not written: %v", err)
	}
	var onDisk map[string]Session
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("session file not valid JSON: %v", err)
	}
	if onDisk["42"].Language != "ar" {
		t.Errorf("persisted language = %q, want ar", onDisk["42"].Language)
	}
}

func TestEnsureDoesNotResetExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store := Open(path)

	if _, err := store.Update("7", func(s *Session) {
		s.Language = "en"
		s.State = StateAwaitingSymbol
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	sess, err := store.Ensure("7")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if sess.Language != "en" || sess.State != StateAwaitingSymbol {
		t.Errorf("Ensure reset an existing session: %+v", sess)
	}
}

func TestUpdateRoundTripsThroughDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store := Open(path)

	if _, err := store.Update("9", func(s *Session) {
		s.Language = "en"
		s.State = StateAwaitingTimeframe
		s.PendingSymbol = "BTC"
		s.PendingPrice = 67890.123
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded := Open(path)
	sess, ok := reloaded.Get("9")
	if !ok {
		t.Fatal("session lost across reload")
	}
	if sess.PendingSymbol != "BTC" {
		t.Errorf("pending symbol = %q, want BTC", sess.PendingSymbol)
	}
	if sess.PendingPrice != 67890.123 {
		t.Errorf("pending price = %v, want 67890.123", sess.PendingPrice)
	}
}

func TestOpenWithCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := Open(path)
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d sessions", store.Len())
	}
}

func TestClearPending(t *testing.T) {
	s := Session{
		Language:         "en",
		State:            StateAwaitingTimeframe,
		PendingSymbol:    "ETH",
		PendingTimeframe: "1W",
		PendingPrice:     10,
	}
	s.ClearPending()
	if s.PendingSymbol != "" || s.PendingTimeframe != "" || s.PendingPrice != 0 {
		t.Errorf("pending fields not cleared: %+v", s)
	}
	if s.State != StateAwaitingSymbol {
		t.Errorf("state = %q, want awaiting_symbol", s.State)
	}
	if s.Language != "en" {
		t.Errorf("language must survive a reset, got %q", s.Language)
	}
}
