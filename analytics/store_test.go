package analytics

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"go-pager-bot/listener"
)

var (
	_ listener.Tracker = (*Store)(nil)
	_ listener.Tracker = Nop{}
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "analytics.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_TrackAndEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	if err := s.Track(ctx, 42, "Function ping", map[string]any{"command": "ping"}); err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if err := s.Track(ctx, 42, "Function help", map[string]any{"command": "help"}); err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if err := s.Track(ctx, 7, "Function ping", map[string]any{"command": "ping"}); err != nil {
		t.Fatalf("Track failed: %v", err)
	}

	var events []CommandEvent
	if err := s.db.Where("identity = ?", 42).Order("created_at").Find(&events).Error; err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Name != "Function ping" || events[0].Command != "ping" || events[0].ID == "" {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	var props map[string]string
	if err := json.Unmarshal([]byte(events[1].Properties), &props); err != nil || props["command"] != "help" {
		t.Errorf("unexpected properties %q (%v)", events[1].Properties, err)
	}
}

func TestStore_Counts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, cmd := range []string{"ping", "help", "ping", "id", "ping", "help"} {
		if err := s.Track(ctx, 1, "Function "+cmd, map[string]any{"command": cmd}); err != nil {
			t.Fatalf("Track failed: %v", err)
		}
	}
	if err := s.Track(ctx, 1, "Startup", nil); err != nil {
		t.Fatalf("Track failed: %v", err)
	}

	counts, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	expected := []CommandCount{{"ping", 3}, {"help", 2}, {"id", 1}}
	if len(counts) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, counts)
	}
	for i := range expected {
		if counts[i] != expected[i] {
			t.Errorf("counts[%d] = %+v, expected %+v", i, counts[i], expected[i])
		}
	}
}
