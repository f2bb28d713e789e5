// Package app wires configuration into a ready-to-use countdown engine.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/offerkit/countdown-go/internal/config"
	"github.com/offerkit/countdown-go/pkg/clock"
	"github.com/offerkit/countdown-go/pkg/countdown"
	"github.com/offerkit/countdown-go/pkg/deadline"
	"github.com/offerkit/countdown-go/pkg/log"
	"github.com/offerkit/countdown-go/pkg/persistence"
)

// Runtime holds everything a countdown binary needs.
type Runtime struct {
	Config config.Config
	Logger *slog.Logger
	Clock  clock.Clock
	Store  *deadline.Store
	Engine *countdown.Engine

	closers []io.Closer
}

// Options tweaks Setup for tests and embedding.
type Options struct {
	// LogOutput receives operational logs. If nil, logs are discarded.
	LogOutput io.Writer

	// Clock overrides the system clock.
	Clock clock.Clock
}

// Setup opens the configured backend and event log and builds the engine.
// The caller must Close the runtime.
func Setup(ctx context.Context, cfg config.Config, opts Options) (*Runtime, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	out := opts.LogOutput
	if out == nil {
		out = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	c := opts.Clock
	if c == nil {
		c = clock.Real{}
	}

	rt := &Runtime{Config: cfg, Logger: logger, Clock: c}

	backend, closer, err := persistence.Open(ctx, cfg.Persistence())
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, closer)
	logger.Info("deadline store ready", "kind", cfg.Store.Kind)

	events, err := rt.eventLog(level)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.Store = deadline.NewStore(backend, deadline.Options{
		Clock:  c,
		Logger: logger,
	})
	rt.Engine = countdown.NewEngine(rt.Store, countdown.Config{
		Clock:    c,
		Interval: cfg.Countdown.Interval,
		Logger:   logger,
		EventLog: events,
	})
	return rt, nil
}

// eventLog builds the lifecycle event sink: the CBOR file if configured, plus
// the slog console at debug level.
func (rt *Runtime) eventLog(level slog.Level) (log.Logger, error) {
	var loggers []log.Logger

	if path := rt.Config.Log.EventLog; path != "" {
		fl, err := log.NewFileLogger(path)
		if err != nil {
			return nil, fmt.Errorf("open event log: %w", err)
		}
		rt.closers = append(rt.closers, fl)
		loggers = append(loggers, fl)
	}
	if level <= slog.LevelDebug {
		loggers = append(loggers, log.NewSlogAdapter(rt.Logger))
	}

	switch len(loggers) {
	case 0:
		return log.NoopLogger{}, nil
	case 1:
		return loggers[0], nil
	default:
		return log.NewMultiLogger(loggers...), nil
	}
}

// Close releases the backend connection and event log, in reverse order.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}
