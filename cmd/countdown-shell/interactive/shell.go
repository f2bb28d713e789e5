// Package interactive provides the interactive command-line interface
// for countdown-shell.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/offerkit/countdown-go/pkg/clock"
	"github.com/offerkit/countdown-go/pkg/countdown"
	"github.com/offerkit/countdown-go/pkg/deadline"
)

// Config wires the shell to an engine and its store.
type Config struct {
	Engine          *countdown.Engine
	Store           *deadline.Store
	Clock           clock.Clock

	// DefaultDuration is used by start when no duration is given. Zero is a
	// valid value and makes such countdowns expire at once.
	DefaultDuration time.Duration

	// Watch prints every update of every session when set.
	Watch bool
}

// Shell manages several keyed countdown sessions from a prompt.
type Shell struct {
	engine          *countdown.Engine
	store           *deadline.Store
	clock           clock.Clock
	defaultDuration time.Duration
	watch           bool

	outMu sync.Mutex
	out   io.Writer

	mu       sync.Mutex
	sessions map[string]*countdown.Session
}

// New creates a shell that writes to out.
func New(cfg Config, out io.Writer) *Shell {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	return &Shell{
		engine:          cfg.Engine,
		store:           cfg.Store,
		clock:           cfg.Clock,
		defaultDuration: cfg.DefaultDuration,
		watch:           cfg.Watch,
		out:             out,
		sessions:        make(map[string]*countdown.Session),
	}
}

// Run starts the interactive command loop on the terminal.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "countdown> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(),
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	s.outMu.Lock()
	s.out = rl.Stdout()
	s.outMu.Unlock()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			s.printf("Exiting...\n")
			cancel()
			return nil
		}

		if !s.Execute(ctx, line) {
			cancel()
			return nil
		}
	}
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("start"),
		readline.PcItem("stop"),
		readline.PcItem("status"),
		readline.PcItem("get"),
		readline.PcItem("set"),
		readline.PcItem("clear"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Execute runs one command line. It returns false when the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "start":
		s.cmdStart(ctx, args)

	case "stop":
		s.cmdStop(args)

	case "status", "ls":
		s.cmdStatus(args)

	case "get":
		s.cmdGet(ctx, args)

	case "set":
		s.cmdSet(ctx, args)

	case "clear":
		s.cmdClear(ctx, args)

	case "quit", "exit", "q":
		s.printf("Exiting...\n")
		return false

	default:
		s.printf("Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

// Close deactivates every running session. Stored deadlines are kept.
func (s *Shell) Close() {
	s.mu.Lock()
	sessions := make([]*countdown.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Deactivate()
	}
}

func (s *Shell) printHelp() {
	s.printf(`
Countdown Commands:
  Sessions:
    start [key] [duration] - Start or resume a countdown (default %s);
                             a lone duration applies to the default key
    stop [key]             - Stop a countdown, keeping its deadline
    status [key]           - Show running countdowns

  Store:
    get [key]              - Show the stored deadline
    set [key] <duration>   - Store a deadline of now+duration
    clear [key]            - Remove the stored deadline

  Other:
    help                   - Show this help
    quit                   - Exit (stored deadlines survive)

Key defaults to %q.
`, s.defaultDuration, countdown.DefaultKey)
}

func (s *Shell) printf(format string, args ...any) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

func (s *Shell) session(key string) *countdown.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[key]
}

// keyArg returns args[i] or the default key.
func keyArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return countdown.DefaultKey
}
