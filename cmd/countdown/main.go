// Command countdown shows a persistent offer countdown in the terminal.
//
// The deadline is stored on first start and reused by every later run under
// the same key, so quitting and restarting continues where it left off.
//
// Usage:
//
//	countdown [flags]
//
// Examples:
//
//	# 15 minute countdown stored in the default state file
//	countdown
//
//	# 5 minute countdown with Minutes/Seconds captions, stored in SQLite
//	countdown -duration 5m -labels -store sqlite -dsn countdown.db
//
//	# Forget the stored deadline and start over
//	countdown -reset
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/offerkit/countdown-go/internal/app"
	"github.com/offerkit/countdown-go/internal/config"
	"github.com/offerkit/countdown-go/pkg/countdown"
)

var (
	configPath   = flag.String("config", "", "Path to YAML config file")
	key          = flag.String("key", "", "Persistence key (overrides config)")
	duration     = flag.Duration("duration", 0, "Default countdown duration (overrides config)")
	labels       = flag.Bool("labels", false, "Show Minutes/Seconds captions")
	title        = flag.String("title", "Limited time offer", "Heading shown above the countdown")
	storeKind    = flag.String("store", "", "Store backend: memory, file, sqlite, redis (overrides config)")
	storePath    = flag.String("state-file", "", "State file for the file store (overrides config)")
	dsn          = flag.String("dsn", "", "SQLite DSN (overrides config)")
	redisAddr    = flag.String("redis-addr", "", "Redis address (overrides config)")
	eventLog     = flag.String("event-log", "", "Write lifecycle events to this .clog file")
	logFile      = flag.String("log-file", "", "Write operational logs to this file")
	logLevel     = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	reset        = flag.Bool("reset", false, "Remove the stored deadline before starting")
	exitOnExpire = flag.Bool("exit-on-expire", false, "Exit as soon as the countdown expires")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "countdown: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs only go to a file.
	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	ctx := context.Background()
	rt, err := app.Setup(ctx, cfg, app.Options{LogOutput: logOut})
	if err != nil {
		return err
	}
	defer rt.Close()

	if *reset {
		if err := rt.Store.Remove(ctx, cfg.Countdown.Key); err != nil {
			return fmt.Errorf("reset %s: %w", cfg.Countdown.Key, err)
		}
	}

	sess, err := rt.Engine.Activate(ctx, cfg.Countdown.Key, cfg.Countdown.Duration, countdown.Handlers{
		OnExpire: func() {
			rt.Logger.Info("countdown expired", "key", cfg.Countdown.Key)
		},
	})
	if err != nil {
		return err
	}

	uiCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newModel(*title, sess, sess.Updates(uiCtx), cfg.Countdown.Labels, *exitOnExpire)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		sess.Deactivate()
		return err
	}

	// Leave the session stopped on any exit path.
	sess.Deactivate()
	if sess.State() == countdown.StateExpired {
		fmt.Println("Offer expired.")
	} else {
		fmt.Printf("%s left. Run again to resume.\n", sess.Remaining().String())
	}
	return nil
}

// applyFlags overlays explicitly set flags onto cfg.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "key":
			cfg.Countdown.Key = *key
		case "duration":
			cfg.Countdown.Duration = *duration
		case "labels":
			cfg.Countdown.Labels = *labels
		case "store":
			cfg.Store.Kind = *storeKind
		case "state-file":
			cfg.Store.Path = *storePath
		case "dsn":
			cfg.Store.DSN = *dsn
		case "redis-addr":
			cfg.Store.Redis.Addr = *redisAddr
		case "event-log":
			cfg.Log.EventLog = *eventLog
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})
}
