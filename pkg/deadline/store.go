package deadline

import (
	"context"
	"log/slog"
	"time"

	"github.com/offerkit/countdown-go/pkg/clock"
)

// DefaultOpTimeout bounds a single backend call.
const DefaultOpTimeout = 250 * time.Millisecond

// Options configures a Store.
type Options struct {
	// Clock decides which entries are expired. Defaults to clock.Real.
	Clock clock.Clock

	// KeyPrefix is prepended to every key before it reaches the backend.
	KeyPrefix string

	// OpTimeout bounds each backend call. Defaults to DefaultOpTimeout.
	OpTimeout time.Duration

	// Logger receives backend failures. If nil, failures are silent.
	Logger *slog.Logger
}

// Store maps persistence keys to live deadlines.
type Store struct {
	backend   Backend
	clock     clock.Clock
	prefix    string
	opTimeout time.Duration
	logger    *slog.Logger
}

// NewStore creates a Store on top of backend.
func NewStore(backend Backend, opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = DefaultOpTimeout
	}
	return &Store{
		backend:   backend,
		clock:     opts.Clock,
		prefix:    opts.KeyPrefix,
		opTimeout: opts.OpTimeout,
		logger:    opts.Logger,
	}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Get returns the live deadline for key.
// Missing, unparsable and expired entries are reported as absent with a nil
// error. A non-nil error means the backend could not be read; the entry may
// still exist.
func (s *Store) Get(ctx context.Context, key string) (Deadline, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	raw, found, err := s.backend.Load(ctx, s.prefix+key)
	if err != nil {
		s.warn("deadline load failed", key, err)
		return 0, false, err
	}
	if !found {
		return 0, false, nil
	}

	d, err := Parse(raw)
	if err != nil {
		s.debugLog("ignoring invalid stored deadline", "key", key, "value", raw)
		return 0, false, nil
	}
	if d.Expired(s.clock.Now()) {
		s.debugLog("ignoring expired deadline", "key", key, "deadline", int64(d))
		return 0, false, nil
	}
	return d, true, nil
}

// Set stores d under key, replacing any existing entry.
func (s *Store) Set(ctx context.Context, key string, d Deadline) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.backend.Save(ctx, s.prefix+key, d.String()); err != nil {
		s.warn("deadline save failed", key, err)
		return err
	}
	return nil
}

// Remove deletes the entry for key if present. Removing a missing key is not
// an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.backend.Delete(ctx, s.prefix+key); err != nil {
		s.warn("deadline delete failed", key, err)
		return err
	}
	return nil
}

func (s *Store) warn(msg, key string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, "key", key, "error", err)
	}
}

func (s *Store) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
