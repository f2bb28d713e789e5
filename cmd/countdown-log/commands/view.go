// Package commands implements the countdown-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/offerkit/countdown-go/pkg/log"
)

const timestampFormat = "2006-01-02T15:04:05.000000Z"

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Key       string
	Category  *log.Category
	HideTicks bool
}

func (f ViewFilter) matches(e log.Event) bool {
	if f.Key != "" && e.Key != f.Key {
		return false
	}
	if f.Category != nil && e.Category != *f.Category {
		return false
	}
	if f.HideTicks && e.Category == log.CategoryTick {
		return false
	}
	return true
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] key CATEGORY
	ts := event.Timestamp.UTC().Format(timestampFormat)
	fmt.Fprintf(w, "%s [session:%s] %s %s\n",
		ts, shortenID(event.SessionID), event.Key, event.Category.String())

	switch {
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Tick != nil:
		formatTickDetails(w, event.Tick)
	case event.Store != nil:
		formatStoreDetails(w, event.Store)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatTickDetails(w io.Writer, tick *log.TickEvent) {
	remaining := time.Duration(tick.RemainingMs) * time.Millisecond
	fmt.Fprintf(w, "  Remaining: %s", formatClock(remaining))
	if tick.Initial {
		fmt.Fprint(w, " (initial)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Deadline: %s\n", formatDeadline(tick.Deadline))
}

func formatStoreDetails(w io.Writer, st *log.StoreEvent) {
	fmt.Fprintf(w, "  Op: %s", st.Op.String())
	if st.Op == log.StoreOpGet {
		if st.Found {
			fmt.Fprint(w, " (hit)")
		} else {
			fmt.Fprint(w, " (miss)")
		}
	}
	fmt.Fprintln(w)
	if st.Deadline != 0 {
		fmt.Fprintf(w, "  Deadline: %s\n", formatDeadline(st.Deadline))
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatClock renders a duration as MM:SS, rounding partial seconds down.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// formatDeadline renders epoch milliseconds with the raw value alongside.
func formatDeadline(ms int64) string {
	return fmt.Sprintf("%s (%d)", time.UnixMilli(ms).UTC().Format(time.RFC3339), ms)
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return log.ParseCategory(s)
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	err = reader.Each(func(event log.Event) error {
		if filter.matches(event) {
			formatEvent(output, event)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to read event: %w", err)
	}
	if reader.Truncated() {
		fmt.Fprintln(output, "(log ends in a partial record)")
	}
	return nil
}
