// Package persistence provides durable deadline.Backend implementations.
//
// FileBackend keeps all deadlines in a single JSON state file, SQLiteBackend
// uses an embedded SQLite database, and RedisBackend shares a Redis instance.
// Open selects one of them (or the in-memory backend) from a Config.
package persistence
