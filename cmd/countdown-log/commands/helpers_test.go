package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/offerkit/countdown-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.clog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

// sessionEvents returns the events of a 2 second countdown that ran out.
func sessionEvents(sessionID, key string, start time.Time) []log.Event {
	deadline := start.Add(2 * time.Second).UnixMilli()
	return []log.Event{
		{Timestamp: start, SessionID: sessionID, Key: key, Category: log.CategoryStore,
			Store: &log.StoreEvent{Op: log.StoreOpGet}},
		{Timestamp: start, SessionID: sessionID, Key: key, Category: log.CategoryStore,
			Store: &log.StoreEvent{Op: log.StoreOpSet, Deadline: deadline}},
		{Timestamp: start, SessionID: sessionID, Key: key, Category: log.CategoryState,
			StateChange: &log.StateChangeEvent{OldState: "IDLE", NewState: "RUNNING", Reason: "activated"}},
		{Timestamp: start, SessionID: sessionID, Key: key, Category: log.CategoryTick,
			Tick: &log.TickEvent{RemainingMs: 2000, Deadline: deadline, Initial: true}},
		{Timestamp: start.Add(time.Second), SessionID: sessionID, Key: key, Category: log.CategoryTick,
			Tick: &log.TickEvent{RemainingMs: 1000, Deadline: deadline}},
		{Timestamp: start.Add(2 * time.Second), SessionID: sessionID, Key: key, Category: log.CategoryTick,
			Tick: &log.TickEvent{RemainingMs: 0, Deadline: deadline}},
		{Timestamp: start.Add(2 * time.Second), SessionID: sessionID, Key: key, Category: log.CategoryStore,
			Store: &log.StoreEvent{Op: log.StoreOpRemove}},
		{Timestamp: start.Add(2 * time.Second), SessionID: sessionID, Key: key, Category: log.CategoryState,
			StateChange: &log.StateChangeEvent{OldState: "RUNNING", NewState: "EXPIRED", Reason: "deadline reached"}},
	}
}
