package countdown

import (
	"context"
	"sync"

	"github.com/offerkit/countdown-go/pkg/clock"
	"github.com/offerkit/countdown-go/pkg/deadline"
	"github.com/offerkit/countdown-go/pkg/log"
)

// Session is one running countdown. It is created by Engine.Activate.
type Session struct {
	id       string
	key      string
	engine   *Engine
	handlers Handlers
	deadline deadline.Deadline

	// ctx carries request values for store calls but never cancels them.
	ctx context.Context

	mu          sync.Mutex
	state       State
	timer       clock.Timer
	last        Remaining
	subscribers []chan Remaining
	done        chan struct{}
}

// ID returns the unique session identifier.
func (s *Session) ID() string {
	return s.id
}

// Key returns the persistence key.
func (s *Session) Key() string {
	return s.key
}

// Deadline returns the absolute deadline this session counts down to.
func (s *Session) Deadline() deadline.Deadline {
	return s.deadline
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining returns the most recently emitted remaining time.
func (s *Session) Remaining() Remaining {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Done is closed once the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Deactivate stops the session without expiring it. The stored deadline is
// left in place and OnExpire is not called. A tick still in flight when
// Deactivate runs is dropped rather than delivered. Calls after the first, or
// after expiry, do nothing.
func (s *Session) Deactivate() {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return
	}
	s.state = StateDeactivated
	s.stopTimerLocked()
	s.mu.Unlock()

	s.engine.debugLog("countdown deactivated", "session", s.id, "key", s.key)
	s.finish(StateRunning, StateDeactivated, "deactivated")
}

// Updates returns a channel of remaining-time updates. The channel first
// yields the latest value, then each subsequent update; it is closed when the
// session reaches a terminal state or ctx is done. A slow reader only sees
// the newest value.
func (s *Session) Updates(ctx context.Context) <-chan Remaining {
	ch := make(chan Remaining, 1)

	s.mu.Lock()
	if s.state.Terminal() {
		ch <- s.last
		close(ch)
		s.mu.Unlock()
		return ch
	}
	ch <- s.last
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			s.unsubscribe(ch)
		case <-s.done:
		}
	}()
	return ch
}

// start moves the session to RUNNING, emits the initial update and schedules
// the first tick.
func (s *Session) start() {
	s.mu.Lock()
	s.state = StateRunning
	s.mu.Unlock()

	s.notifyState(StateIdle, StateRunning, "")
	s.tick(true)
}

// tick recomputes the remaining time from the clock and emits it.
func (s *Session) tick(initial bool) {
	now := s.engine.clock.Now()
	rem := NewRemaining(s.deadline.Remaining(now))

	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.last = rem
	expired := rem.Expired()
	if expired {
		// Only the goroutine that performs this transition runs the expiry path.
		s.state = StateExpired
	}
	s.publishLocked(rem)
	s.mu.Unlock()

	s.engine.events.Log(log.Event{
		Timestamp: now,
		SessionID: s.id,
		Key:       s.key,
		Category:  log.CategoryTick,
		Tick: &log.TickEvent{
			RemainingMs: rem.RemainingMs,
			Deadline:    int64(s.deadline),
			Initial:     initial,
		},
	})
	if s.handlers.OnUpdate != nil && s.deliverable(expired) {
		s.handlers.OnUpdate(rem)
	}

	if expired {
		s.expire()
		return
	}

	s.mu.Lock()
	if s.state == StateRunning {
		s.timer = s.engine.clock.AfterFunc(s.engine.interval, func() { s.tick(false) })
	}
	s.mu.Unlock()
}

// expire runs once, after the RUNNING -> EXPIRED transition.
func (s *Session) expire() {
	s.engine.debugLog("countdown expired", "session", s.id, "key", s.key)

	if s.handlers.OnExpire != nil {
		s.handlers.OnExpire()
	}

	if err := s.engine.store.Remove(s.ctx, s.key); err != nil {
		s.logError(err, "remove deadline")
	} else {
		s.logStore(log.StoreOpRemove, s.deadline, false)
	}

	s.finish(StateRunning, StateExpired, "deadline reached")
}

// finish reports a terminal transition and releases observers.
func (s *Session) finish(oldState, newState State, reason string) {
	s.notifyState(oldState, newState, reason)

	s.mu.Lock()
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	s.mu.Unlock()

	close(s.done)
}

func (s *Session) notifyState(oldState, newState State, reason string) {
	s.engine.events.Log(log.Event{
		Timestamp: s.engine.clock.Now(),
		SessionID: s.id,
		Key:       s.key,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: oldState.String(),
			NewState: newState.String(),
			Reason:   reason,
		},
	})
	if s.handlers.OnStateChange != nil {
		s.handlers.OnStateChange(oldState, newState)
	}
}

func (s *Session) logStore(op log.StoreOp, d deadline.Deadline, found bool) {
	s.engine.events.Log(log.Event{
		Timestamp: s.engine.clock.Now(),
		SessionID: s.id,
		Key:       s.key,
		Category:  log.CategoryStore,
		Store: &log.StoreEvent{
			Op:       op,
			Deadline: int64(d),
			Found:    found,
		},
	})
}

func (s *Session) logError(err error, op string) {
	s.engine.events.Log(log.Event{
		Timestamp: s.engine.clock.Now(),
		SessionID: s.id,
		Key:       s.key,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Message: err.Error(),
			Context: op,
		},
	})
}

// deliverable reports whether a tick may still reach OnUpdate. A Deactivate
// that landed after the tick was computed suppresses it. The expiring tick has
// already left RUNNING and is always delivered.
func (s *Session) deliverable(expired bool) bool {
	if expired {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateRunning
}

// publishLocked delivers rem to channel subscribers, replacing any unread value.
func (s *Session) publishLocked(rem Remaining) {
	for _, ch := range s.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- rem:
		default:
		}
	}
}

func (s *Session) unsubscribe(ch chan Remaining) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cur := range s.subscribers {
		if cur == ch {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
