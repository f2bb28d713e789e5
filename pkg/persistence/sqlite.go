package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/offerkit/countdown-go/pkg/deadline"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS deadlines (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteBackend persists deadlines in a SQLite table.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens the database at dsn and creates the schema.
// Use ":memory:" for a private in-memory database.
func NewSQLiteBackend(dsn string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	b := &SQLiteBackend{db: db}
	if err := b.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// Migrate creates the deadlines table if it does not exist.
func (b *SQLiteBackend) Migrate() error {
	if _, err := b.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Load returns the value stored under key.
func (b *SQLiteBackend) Load(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := b.db.QueryRowContext(ctx, `SELECT value FROM deadlines WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load deadline: %w", err)
	}
	return value, true, nil
}

// Save stores value under key.
func (b *SQLiteBackend) Save(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO deadlines (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := b.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save deadline: %w", err)
	}
	return nil
}

// Delete removes key.
func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM deadlines WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete deadline: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// Compile-time interface satisfaction check.
var _ deadline.Backend = (*SQLiteBackend)(nil)
