package deadline

import (
	"context"
	"sync"
)

// Backend is a raw key/value facility that deadlines are persisted in.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Load returns the stored value for key. found is false when no entry exists.
	Load(ctx context.Context, key string) (value string, found bool, err error)

	// Save stores value under key, replacing any previous value.
	Save(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// MemoryBackend keeps values in process memory only.
// It is a valid Backend for environments without durable storage; values are
// lost when the process exits.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

// Load returns the value stored under key.
func (m *MemoryBackend) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Save stores value under key.
func (m *MemoryBackend) Save(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete removes key.
func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len returns the number of stored entries.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Compile-time interface satisfaction check.
var _ Backend = (*MemoryBackend)(nil)
