package commands

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/offerkit/countdown-go/pkg/log"
)

func readEvents(t *testing.T, path string) []log.Event {
	t.Helper()
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer reader.Close()

	var events []log.Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		events = append(events, event)
	}
}

func TestFilterBySession(t *testing.T) {
	start := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := append(sessionEvents("session-a", "offer", start), sessionEvents("session-b", "offer", start)...)
	path := createTestLogFile(t, events)
	out := filepath.Join(t.TempDir(), "filtered.clog")

	count, err := RunFilter(path, FilterOptions{Output: out, SessionID: "session-b"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 8 {
		t.Errorf("expected 8 events, got %d", count)
	}
	for _, e := range readEvents(t, out) {
		if e.SessionID != "session-b" {
			t.Errorf("expected session-b, got %s", e.SessionID)
		}
	}
}

func TestFilterByTimeRangeAndCategory(t *testing.T) {
	start := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, sessionEvents("s1", "offer", start))
	out := filepath.Join(t.TempDir(), "filtered.clog")

	count, err := RunFilter(path, FilterOptions{
		Output:    out,
		TimeStart: "2026-01-28T10:00:01Z",
		Category:  "tick",
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 ticks after the first second, got %d", count)
	}
	got := readEvents(t, out)
	if len(got) != 2 || got[1].Tick.RemainingMs != 0 {
		t.Errorf("unexpected filtered events: %+v", got)
	}
}

func TestFilterInvalidOptions(t *testing.T) {
	path := createTestLogFile(t, nil)
	out := filepath.Join(t.TempDir(), "filtered.clog")

	tests := []FilterOptions{
		{Output: out, TimeStart: "yesterday"},
		{Output: out, TimeEnd: "tomorrow"},
		{Output: out, Category: "frame"},
	}
	for _, opts := range tests {
		if _, err := RunFilter(path, opts); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}
