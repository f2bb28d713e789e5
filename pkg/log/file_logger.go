package log

import (
	"os"
	"sync"
)

// FileLogger appends CBOR event records to a .clog file.
// It is safe for concurrent use. Records are written whole, so a reader
// only ever sees a partial record at the end of a file whose writer died.
type FileLogger struct {
	path string

	mu      sync.Mutex
	file    *os.File
	written int64
	events  int
}

// NewFileLogger opens path for appending, creating it if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{path: path, file: f}, nil
}

// Path returns the log file path.
func (l *FileLogger) Path() string {
	return l.path
}

// Log appends the event. Encoding and write errors are dropped: the event log
// must never disturb a running countdown.
func (l *FileLogger) Log(event Event) {
	data, err := EncodeEvent(event)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	n, err := l.file.Write(data)
	l.written += int64(n)
	if err == nil {
		l.events++
	}
}

// Stats returns how many events and bytes this logger has written.
func (l *FileLogger) Stats() (events int, bytes int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events, l.written
}

// Sync flushes the file to stable storage.
func (l *FileLogger) Sync() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return os.ErrClosed
	}
	return l.file.Sync()
}

// Close closes the file. Later Log calls are ignored and later Close calls
// return nil.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

var _ Logger = (*FileLogger)(nil)
