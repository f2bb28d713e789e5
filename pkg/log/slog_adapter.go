package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes countdown events to an slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("key", event.Key),
		slog.String("category", event.Category.String()),
	}

	switch {
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Tick != nil:
		attrs = append(attrs,
			slog.Int64("remaining_ms", event.Tick.RemainingMs),
			slog.Int64("deadline", event.Tick.Deadline),
		)
		if event.Tick.Initial {
			attrs = append(attrs, slog.Bool("initial", true))
		}
	case event.Store != nil:
		attrs = append(attrs,
			slog.String("op", event.Store.Op.String()),
			slog.Int64("deadline", event.Store.Deadline),
		)
		if event.Store.Op == StoreOpGet {
			attrs = append(attrs, slog.Bool("found", event.Store.Found))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "countdown", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
