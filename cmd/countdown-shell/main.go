// Command countdown-shell manages persistent countdowns from an interactive
// prompt.
//
// Several keyed countdowns can run side by side. Each one stores its deadline
// on first start, so stopping and starting it again, or restarting the shell,
// resumes the same deadline.
//
// Usage:
//
//	countdown-shell [flags]
//
// Examples:
//
//	# Default file store
//	countdown-shell
//
//	# Share deadlines with other processes through Redis
//	countdown-shell -store redis -redis-addr localhost:6379
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/offerkit/countdown-go/cmd/countdown-shell/interactive"
	"github.com/offerkit/countdown-go/internal/app"
	"github.com/offerkit/countdown-go/internal/config"
)

var (
	configPath = flag.String("config", "", "Path to YAML config file")
	duration   = flag.Duration("duration", 0, "Default countdown duration (overrides config)")
	storeKind  = flag.String("store", "", "Store backend: memory, file, sqlite, redis (overrides config)")
	storePath  = flag.String("state-file", "", "State file for the file store (overrides config)")
	dsn        = flag.String("dsn", "", "SQLite DSN (overrides config)")
	redisAddr  = flag.String("redis-addr", "", "Redis address (overrides config)")
	eventLog   = flag.String("event-log", "", "Write lifecycle events to this .clog file")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	watch      = flag.Bool("watch", false, "Print every countdown update")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "countdown-shell: %v\n", err)
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	rt, err := app.Setup(ctx, cfg, app.Options{LogOutput: os.Stderr})
	if err != nil {
		return err
	}
	defer rt.Close()

	sh := interactive.New(interactive.Config{
		Engine:          rt.Engine,
		Store:           rt.Store,
		Clock:           rt.Clock,
		DefaultDuration: cfg.Countdown.Duration,
		Watch:           *watch,
	}, os.Stdout)
	defer sh.Close()

	return sh.Run(ctx, cancel)
}

// applyFlags overlays explicitly set flags onto cfg.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Countdown.Duration = *duration
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
