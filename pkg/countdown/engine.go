package countdown

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/offerkit/countdown-go/pkg/clock"
	"github.com/offerkit/countdown-go/pkg/deadline"
	"github.com/offerkit/countdown-go/pkg/log"
)

// Engine creates countdown sessions backed by a DeadlineStore.
// An Engine holds no per-session state and may be shared.
type Engine struct {
	store    DeadlineStore
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
	events   log.Logger
}

// NewEngine creates an engine. Zero-valued Config fields take their defaults.
func NewEngine(store DeadlineStore, cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.EventLog == nil {
		cfg.EventLog = log.NoopLogger{}
	}
	return &Engine{
		store:    store,
		clock:    cfg.Clock,
		interval: cfg.Interval,
		logger:   cfg.Logger,
		events:   cfg.EventLog,
	}
}

// Activate starts a countdown session for key.
//
// A live deadline already stored under key is reused unchanged. Otherwise a
// new deadline of now+defaultDuration is created and stored. Store failures
// never fail Activate; the session then runs on its in-memory deadline. The first
// update is delivered to h.OnUpdate before Activate returns.
//
// defaultDuration must be within [0, MaxDuration]; violations return
// ErrInvalidDuration without touching the store.
func (e *Engine) Activate(ctx context.Context, key string, defaultDuration time.Duration, h Handlers) (*Session, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	if defaultDuration < 0 || defaultDuration > MaxDuration {
		return nil, ErrInvalidDuration
	}

	s := &Session{
		id:       uuid.New().String(),
		key:      key,
		engine:   e,
		handlers: h,
		ctx:      context.WithoutCancel(ctx),
		state:    StateIdle,
		done:     make(chan struct{}),
	}

	s.deadline = e.resolveDeadline(ctx, s, defaultDuration)
	e.debugLog("countdown activated",
		"session", s.id, "key", key, "deadline", int64(s.deadline))

	s.start()
	return s, nil
}

// resolveDeadline returns the stored live deadline for the session's key or
// creates and stores a fresh one. If the store cannot be read the fresh
// deadline stays in memory, so a live entry that is only temporarily
// unreachable is never overwritten.
func (e *Engine) resolveDeadline(ctx context.Context, s *Session, defaultDuration time.Duration) deadline.Deadline {
	d, ok, err := e.store.Get(ctx, s.key)
	if err != nil {
		s.logError(err, "get deadline")
		return deadline.After(e.clock.Now(), defaultDuration)
	}
	if ok {
		s.logStore(log.StoreOpGet, d, true)
		return d
	}
	s.logStore(log.StoreOpGet, 0, false)

	d = deadline.After(e.clock.Now(), defaultDuration)
	if err := e.store.Set(ctx, s.key, d); err != nil {
		s.logError(err, "set deadline")
		return d
	}
	s.logStore(log.StoreOpSet, d, false)
	return d
}

// Interval returns the refresh cadence.
func (e *Engine) Interval() time.Duration {
	return e.interval
}

func (e *Engine) debugLog(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
