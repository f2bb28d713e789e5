// Package clock abstracts wall-clock reads and one-shot timers.
//
// Components that schedule work take a Clock instead of calling time.Now or
// time.AfterFunc directly. Production code uses Real; tests use Fake, which
// only moves when told to and fires due timers synchronously from Advance.
package clock
