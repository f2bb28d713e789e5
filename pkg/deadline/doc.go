// Package deadline implements durable countdown deadlines.
//
// A Deadline is an absolute instant in epoch milliseconds. Deadlines are
// persisted under an opaque key so a countdown survives restarts: a caller
// that finds a live deadline resumes it instead of starting over.
//
// # Backends
//
// A Backend is the raw key/value facility (memory, file, SQLite, Redis; see
// the persistence package). Backends may fail. Values are stored in their
// decimal string form so a corrupted or foreign value is detectable.
//
// # Store
//
// Store layers the deadline rules on top of a Backend:
//   - Get treats missing, unparsable and expired (at or before now) entries
//     as absent. It never deletes.
//   - Set overwrites unconditionally (last write wins).
//   - Remove is a no-op for a missing key.
//
// Backend errors are logged and swallowed. A failed Set leaves the caller
// running on its in-memory deadline for the rest of its lifetime.
package deadline
