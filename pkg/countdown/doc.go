// Package countdown implements persistent countdown sessions.
//
// A session counts down to a deadline that is kept in a DeadlineStore under a
// persistence key. Activating a key that already has a live deadline resumes
// it, so a restarted process shows the same remaining time instead of
// starting over.
//
// # Session Lifecycle
//
//	IDLE -> RUNNING -> EXPIRED      (deadline reached)
//	IDLE -> RUNNING -> DEACTIVATED  (consumer lost interest)
//
// EXPIRED and DEACTIVATED are terminal. Activating the same key again starts
// a new, independent session.
//
// # Timing
//
// The remaining time is always recomputed from the deadline and the current
// clock reading, never accumulated from ticks. The tick interval (1s by
// default) only controls how often observers are refreshed; late or skipped
// ticks cannot introduce drift.
//
// # Expiry
//
// When the remaining time reaches zero the session emits a final zero update,
// runs OnExpire exactly once, removes the stored deadline and stops ticking.
//
// # Deactivation
//
// Deactivate stops ticking without touching the stored deadline and without
// running OnExpire. It is safe to call at any time and any number of times.
package countdown
