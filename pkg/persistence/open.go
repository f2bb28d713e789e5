package persistence

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/offerkit/countdown-go/pkg/deadline"
)

// Backend kinds accepted by Open.
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindRedis  = "redis"
)

// ErrUnknownKind is returned by Open for an unsupported backend kind.
var ErrUnknownKind = errors.New("unknown store kind")

// Config selects and configures a backend.
type Config struct {
	// Kind is one of memory, file, sqlite, redis.
	Kind string

	// Path is the state file for the file backend.
	Path string

	// DSN is the database for the sqlite backend.
	DSN string

	// Redis connection settings.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open creates the backend described by cfg. The returned Closer releases
// connections held by the backend and must be called when done.
func Open(ctx context.Context, cfg Config) (deadline.Backend, io.Closer, error) {
	switch cfg.Kind {
	case KindMemory, "":
		return deadline.NewMemoryBackend(), nopCloser{}, nil

	case KindFile:
		if cfg.Path == "" {
			return nil, nil, fmt.Errorf("file store: path required")
		}
		return NewFileBackend(cfg.Path), nopCloser{}, nil

	case KindSQLite:
		if cfg.DSN == "" {
			return nil, nil, fmt.Errorf("sqlite store: dsn required")
		}
		b, err := NewSQLiteBackend(cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite store: %w", err)
		}
		return b, b, nil

	case KindRedis:
		if cfg.RedisAddr == "" {
			return nil, nil, fmt.Errorf("redis store: address required")
		}
		client, err := DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("redis store: %w", err)
		}
		prefix := cfg.RedisPrefix
		if prefix == "" {
			prefix = DefaultRedisPrefix
		}
		return NewRedisBackend(client, prefix), client, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}
