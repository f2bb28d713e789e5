package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/offerkit/countdown-go/pkg/deadline"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// State is the on-disk content of a FileBackend.
type State struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Deadlines maps persistence keys to stored deadline values.
	Deadlines map[string]string `json:"deadlines,omitempty"`
}

// FileBackend persists deadlines to a JSON file.
// Every write rewrites the whole file through a temp file and rename, so a
// crash never leaves a partially written state behind.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

// NewFileBackend creates a file backend. The file is created on first write.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the state file path.
func (f *FileBackend) Path() string {
	return f.path
}

// Load returns the value stored under key.
func (f *FileBackend) Load(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := state.Deadlines[key]
	return v, ok, nil
}

// Save stores value under key.
func (f *FileBackend) Save(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.read()
	if err != nil {
		return err
	}
	state.Deadlines[key] = value
	return f.write(state)
}

// Delete removes key.
func (f *FileBackend) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := state.Deadlines[key]; !ok {
		return nil
	}
	delete(state.Deadlines, key)
	return f.write(state)
}

// Clear removes the state file.
func (f *FileBackend) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// read loads the state file. A missing file is an empty state.
func (f *FileBackend) read() (*State, error) {
	state := &State{Deadlines: make(map[string]string)}

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	if state.Deadlines == nil {
		state.Deadlines = make(map[string]string)
	}
	return state, nil
}

func (f *FileBackend) write(state *State) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	state.SavedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

// Compile-time interface satisfaction check.
var _ deadline.Backend = (*FileBackend)(nil)
