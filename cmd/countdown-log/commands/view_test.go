package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/offerkit/countdown-go/pkg/log"
)

func TestFormatStateChangeEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	event := log.Event{
		Timestamp: ts,
		SessionID: "abc12345-6789-0123-4567-890abcdef012",
		Key:       "offer_countdown",
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: "RUNNING",
			NewState: "EXPIRED",
			Reason:   "deadline reached",
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	for _, want := range []string{
		"2026-01-28T10:15:32.123456Z",
		"[session:abc12345]",
		"offer_countdown STATE",
		"RUNNING -> EXPIRED",
		"Reason: deadline reached",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestFormatInitialStateChange(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, log.Event{
		Category:    log.CategoryState,
		StateChange: &log.StateChangeEvent{NewState: "RUNNING"},
	})
	if !strings.Contains(buf.String(), "  -> RUNNING") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestFormatTickEvent(t *testing.T) {
	event := log.Event{
		Timestamp: time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC),
		SessionID: "s1",
		Key:       "k",
		Category:  log.CategoryTick,
		Tick: &log.TickEvent{
			RemainingMs: 329750,
			Deadline:    1769594400000,
			Initial:     true,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "Remaining: 05:29 (initial)") {
		t.Errorf("expected remaining clock, got:\n%s", output)
	}
	if !strings.Contains(output, "(1769594400000)") {
		t.Errorf("expected raw deadline, got:\n%s", output)
	}
	if !strings.Contains(output, "[session:s1]") {
		t.Errorf("expected short session ID kept as is, got:\n%s", output)
	}
}

func TestFormatStoreEvent(t *testing.T) {
	tests := []struct {
		name  string
		store log.StoreEvent
		want  []string
		avoid []string
	}{
		{
			name:  "get miss",
			store: log.StoreEvent{Op: log.StoreOpGet},
			want:  []string{"Op: GET (miss)"},
			avoid: []string{"Deadline:"},
		},
		{
			name:  "get hit",
			store: log.StoreEvent{Op: log.StoreOpGet, Deadline: 1000, Found: true},
			want:  []string{"Op: GET (hit)", "Deadline:"},
		},
		{
			name:  "set",
			store: log.StoreEvent{Op: log.StoreOpSet, Deadline: 1000},
			want:  []string{"Op: SET\n", "(1000)"},
		},
		{
			name:  "remove",
			store: log.StoreEvent{Op: log.StoreOpRemove},
			want:  []string{"Op: REMOVE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.store
			var buf bytes.Buffer
			formatEvent(&buf, log.Event{Category: log.CategoryStore, Store: &st})
			output := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(output, w) {
					t.Errorf("expected %q in output, got:\n%s", w, output)
				}
			}
			for _, a := range tt.avoid {
				if strings.Contains(output, a) {
					t.Errorf("unexpected %q in output:\n%s", a, output)
				}
			}
		})
	}
}

func TestFormatErrorEvent(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, log.Event{
		Category: log.CategoryError,
		Error:    &log.ErrorEventData{Message: "storage unavailable", Context: "set"},
	})
	output := buf.String()
	if !strings.Contains(output, "Message: storage unavailable") || !strings.Contains(output, "Context: set") {
		t.Errorf("unexpected output:\n%s", output)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{-time.Second, "00:00"},
		{999 * time.Millisecond, "00:00"},
		{90 * time.Second, "01:30"},
		{15 * time.Minute, "15:00"},
		{75 * time.Minute, "75:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.d); got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRunViewFilters(t *testing.T) {
	start := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := append(sessionEvents("session-a", "offer", start), sessionEvents("session-b", "promo", start)...)
	path := createTestLogFile(t, events)

	state := log.CategoryState
	tests := []struct {
		name   string
		filter ViewFilter
		count  int
	}{
		{"all", ViewFilter{}, 16},
		{"by key", ViewFilter{Key: "offer"}, 8},
		{"by category", ViewFilter{Category: &state}, 4},
		{"hide ticks", ViewFilter{HideTicks: true}, 10},
		{"key and category", ViewFilter{Key: "promo", Category: &state}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := RunView(path, tt.filter, &buf); err != nil {
				t.Fatalf("RunView failed: %v", err)
			}
			got := strings.Count(buf.String(), "[session:")
			if got != tt.count {
				t.Errorf("expected %d events, got %d", tt.count, got)
			}
		})
	}
}

func TestRunViewMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunView("/nonexistent/events.clog", ViewFilter{}, &buf); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseCategoryFlag(t *testing.T) {
	c, err := ParseCategoryFlag("Tick")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != log.CategoryTick {
		t.Errorf("expected TICK, got %s", c)
	}
	if _, err := ParseCategoryFlag("message"); err == nil {
		t.Error("expected error for unknown category")
	}
}
