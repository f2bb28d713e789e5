package interactive

import (
	"context"
	"sort"
	"time"

	"github.com/offerkit/countdown-go/pkg/countdown"
	"github.com/offerkit/countdown-go/pkg/deadline"
)

func (s *Shell) cmdStart(ctx context.Context, args []string) {
	key := keyArg(args, 0)
	d := s.defaultDuration
	switch {
	case len(args) == 1:
		// A lone duration starts the default key, as with set.
		if parsed, err := time.ParseDuration(args[0]); err == nil {
			key, d = countdown.DefaultKey, parsed
		}
	case len(args) > 1:
		parsed, err := time.ParseDuration(args[1])
		if err != nil {
			s.printf("Invalid duration %q: %v\n", args[1], err)
			return
		}
		d = parsed
	}

	if cur := s.session(key); cur != nil && cur.State() == countdown.StateRunning {
		s.printf("%s is already running (%s left)\n", key, cur.Remaining())
		return
	}

	sess, err := s.engine.Activate(ctx, key, d, countdown.Handlers{
		OnUpdate: func(r countdown.Remaining) {
			if s.watch {
				s.printf("[%s] %s\n", key, r)
			}
		},
		OnExpire: func() {
			s.printf("[%s] expired\n", key)
		},
	})
	if err != nil {
		s.printf("Start failed: %v\n", err)
		return
	}

	s.mu.Lock()
	s.sessions[key] = sess
	s.mu.Unlock()

	if sess.State() == countdown.StateRunning {
		s.printf("%s running, %s left (deadline %s)\n",
			key, sess.Remaining(), sess.Deadline().Time().UTC().Format(time.RFC3339))
	}
}

func (s *Shell) cmdStop(args []string) {
	key := keyArg(args, 0)
	sess := s.session(key)
	if sess == nil || sess.State() != countdown.StateRunning {
		s.printf("%s is not running\n", key)
		return
	}
	sess.Deactivate()
	s.printf("%s stopped with %s left; deadline kept\n", key, sess.Remaining())
}

func (s *Shell) cmdStatus(args []string) {
	s.mu.Lock()
	keys := make([]string, 0, len(s.sessions))
	for k := range s.sessions {
		if len(args) == 0 || k == args[0] {
			keys = append(keys, k)
		}
	}
	s.mu.Unlock()
	sort.Strings(keys)

	if len(keys) == 0 {
		s.printf("No countdowns\n")
		return
	}

	s.printf("%-20s %-12s %-7s %s\n", "KEY", "STATE", "LEFT", "SESSION")
	for _, k := range keys {
		sess := s.session(k)
		s.printf("%-20s %-12s %-7s %s\n", k, sess.State(), sess.Remaining(), shortID(sess.ID()))
	}
}

func (s *Shell) cmdGet(ctx context.Context, args []string) {
	key := keyArg(args, 0)
	d, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.printf("%s: store unavailable: %v\n", key, err)
		return
	}
	if !ok {
		s.printf("%s: no live deadline\n", key)
		return
	}
	left := countdown.NewRemaining(d.Remaining(s.clock.Now()))
	s.printf("%s: deadline %s (%s), %s left\n", key, d, d.Time().UTC().Format(time.RFC3339), left)
}

func (s *Shell) cmdSet(ctx context.Context, args []string) {
	var key, raw string
	switch len(args) {
	case 1:
		key, raw = countdown.DefaultKey, args[0]
	case 2:
		key, raw = args[0], args[1]
	default:
		s.printf("Usage: set [key] <duration>\n")
		return
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 || d > countdown.MaxDuration {
		s.printf("Invalid duration %q\n", raw)
		return
	}

	dl := deadline.After(s.clock.Now(), d)
	if err := s.store.Set(ctx, key, dl); err != nil {
		s.printf("%s: store unavailable: %v\n", key, err)
		return
	}
	s.printf("%s: deadline set to %s\n", key, dl.Time().UTC().Format(time.RFC3339))
}

func (s *Shell) cmdClear(ctx context.Context, args []string) {
	key := keyArg(args, 0)
	if err := s.store.Remove(ctx, key); err != nil {
		s.printf("%s: store unavailable: %v\n", key, err)
		return
	}
	s.printf("%s: deadline cleared\n", key)
	if sess := s.session(key); sess != nil && sess.State() == countdown.StateRunning {
		s.printf("%s is still running until stopped\n", key)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
