// Command countdown-log is a tool for viewing and analyzing countdown event logs.
//
// Event logs are written by countdown and countdown-shell when started with
// the -event-log flag (or log.event_log in the config file).
//
// Usage:
//
//	countdown-log <command> [flags] <file.clog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	countdown-log view events.clog
//
//	# View only state transitions of one key
//	countdown-log view -key offer_countdown -category state events.clog
//
//	# Export to CSV
//	countdown-log export -format csv events.clog
//
//	# Keep one session and save to new file
//	countdown-log filter -session 1b4e28ba -o session.clog events.clog
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/offerkit/countdown-go/cmd/countdown-log/commands"
)

// errUsage means the flag set already printed what went wrong.
var errUsage = errors.New("usage")

type command struct {
	name    string
	args    string
	summary string
	run     func(fs *flag.FlagSet, args []string) error
}

var commandList = []command{
	{"view", "[flags] <file.clog>", "View log file in human-readable format", runView},
	{"export", "[flags] <file.clog>", "Export log file to JSONL or CSV format", runExport},
	{"filter", "-o <out.clog> [flags] <file.clog>", "Filter log file and write to new file", runFilter},
	{"stats", "<file.clog>", "Show statistics about the log file", runStats},
}

func usage() string {
	var b strings.Builder
	b.WriteString("countdown-log - Countdown Event Log Analyzer\n\nUsage:\n  countdown-log <command> [flags] <file.clog>\n\nCommands:\n")
	for _, c := range commandList {
		fmt.Fprintf(&b, "  %-8s %s\n", c.name, c.summary)
	}
	b.WriteString("\nUse \"countdown-log <command> -help\" for more information about a command.\n")
	return b.String()
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage())
		os.Exit(1)
	}

	name := os.Args[1]
	switch name {
	case "-h", "-help", "--help", "help":
		fmt.Print(usage())
		return
	}

	for _, c := range commandList {
		if c.name != name {
			continue
		}
		fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
		fs.Usage = func() {
			fmt.Fprintf(os.Stderr, "countdown-log %s - %s\n\nUsage:\n  countdown-log %s %s\n\nFlags:\n",
				c.name, c.summary, c.name, c.args)
			fs.PrintDefaults()
		}
		if err := c.run(fs, os.Args[2:]); err != nil {
			if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n", name)
	fmt.Fprint(os.Stderr, usage())
	os.Exit(1)
}

// parse parses args and returns the single log file argument.
func parse(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one log file path required")
		fs.Usage()
		return "", errUsage
	}
	return fs.Arg(0), nil
}

func runView(fs *flag.FlagSet, args []string) error {
	key := fs.String("key", "", "Filter by persistence key")
	category := fs.String("category", "", "Filter by category (state, tick, store, error)")
	noTicks := fs.Bool("no-ticks", false, "Hide TICK events")

	path, err := parse(fs, args)
	if err != nil {
		return err
	}

	filter := commands.ViewFilter{Key: *key, HideTicks: *noTicks}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			return err
		}
		filter.Category = &c
	}
	return commands.RunView(path, filter, os.Stdout)
}

func runExport(fs *flag.FlagSet, args []string) error {
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	return commands.RunExport(path, *format, *output)
}

func runFilter(fs *flag.FlagSet, args []string) error {
	var opts commands.FilterOptions
	fs.StringVar(&opts.Output, "o", "", "Output file (required)")
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Key, "key", "", "Filter by persistence key")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (state, tick, store, error)")

	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	if opts.Output == "" {
		return errors.New("output file (-o) required")
	}

	count, err := commands.RunFilter(path, opts)
	if err != nil {
		return err
	}
	fmt.Printf("Filtered %d events to %s\n", count, opts.Output)
	return nil
}

func runStats(fs *flag.FlagSet, args []string) error {
	path, err := parse(fs, args)
	if err != nil {
		return err
	}
	return commands.RunStats(path, os.Stdout)
}
