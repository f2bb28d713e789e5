package countdown

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/offerkit/countdown-go/pkg/clock"
	"github.com/offerkit/countdown-go/pkg/deadline"
	"github.com/offerkit/countdown-go/pkg/log"
)

// Countdown limits and defaults.
const (
	// MaxDuration is the longest supported countdown (a 32-bit millisecond interval).
	MaxDuration = time.Duration(math.MaxInt32) * time.Millisecond

	// DefaultInterval is the display refresh cadence.
	DefaultInterval = 1000 * time.Millisecond

	// DefaultDuration is the countdown length used when none is configured.
	DefaultDuration = 15 * time.Minute

	// DefaultKey is the persistence key used when none is configured.
	DefaultKey = "offer_countdown"
)

// Engine errors.
var (
	ErrInvalidDuration = errors.New("invalid countdown duration")
	ErrInvalidKey      = errors.New("invalid persistence key")
)

// DeadlineStore is the durable key -> deadline mapping a session relies on.
// *deadline.Store satisfies it. Errors report an unreachable backend; the
// engine logs them and carries on in memory.
type DeadlineStore interface {
	// Get returns the live deadline for key, or false if there is none.
	Get(ctx context.Context, key string) (deadline.Deadline, bool, error)

	// Set stores d under key, replacing any existing entry.
	Set(ctx context.Context, key string, d deadline.Deadline) error

	// Remove deletes the entry for key if present.
	Remove(ctx context.Context, key string) error
}

// State represents a session lifecycle state.
type State uint8

const (
	// StateIdle is the state before a deadline has been resolved.
	StateIdle State = iota

	// StateRunning indicates the session is ticking.
	StateRunning

	// StateExpired indicates the deadline was reached (terminal).
	StateExpired

	// StateDeactivated indicates the consumer stopped the session (terminal).
	StateDeactivated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateExpired:
		return "EXPIRED"
	case StateDeactivated:
		return "DEACTIVATED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateExpired || s == StateDeactivated
}

// Handlers are the callbacks a session invokes. All fields are optional.
// Callbacks run on the ticking goroutine, never while the session lock is held,
// so they may call back into the session.
type Handlers struct {
	// OnUpdate receives every remaining-time computation, starting with the
	// synchronous one made during Activate.
	OnUpdate func(r Remaining)

	// OnExpire runs exactly once when the deadline is reached.
	OnExpire func()

	// OnStateChange observes lifecycle transitions.
	OnStateChange func(oldState, newState State)
}

// Config configures an Engine.
type Config struct {
	// Clock supplies time and scheduling. Defaults to clock.Real.
	Clock clock.Clock

	// Interval is the refresh cadence. Defaults to DefaultInterval.
	Interval time.Duration

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// EventLog receives structured lifecycle events. If nil, events are discarded.
	EventLog log.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Clock:    clock.Real{},
		Interval: DefaultInterval,
		EventLog: log.NoopLogger{},
	}
}
