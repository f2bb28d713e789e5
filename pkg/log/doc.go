// Package log provides structured lifecycle logging for countdown sessions.
//
// This package defines the Logger interface and Event types for capturing
// what a countdown engine does: state transitions, ticks, and deadline store
// traffic. It is separate from operational logging (slog) - the event log is
// a complete machine-readable trace for debugging and analysis.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.EventLog = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLog, _ = log.NewFileLogger("/var/log/countdown/offer.clog")
//
//	// Both: use MultiLogger
//	cfg.EventLog = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files are a sequence of CBOR-encoded events with integer keys, using
// the .clog extension. The countdown-log CLI views and summarizes them.
package log
