package deadline

import (
	"errors"
	"strconv"
	"time"
)

// ErrInvalidValue is returned by Parse for values that are not a positive
// base-10 millisecond timestamp.
var ErrInvalidValue = errors.New("invalid deadline value")

// Deadline is an absolute point in time in milliseconds since the Unix epoch.
type Deadline int64

// FromTime converts t to a Deadline, truncating to the millisecond.
func FromTime(t time.Time) Deadline {
	return Deadline(t.UnixMilli())
}

// After returns the deadline d from now.
func After(now time.Time, d time.Duration) Deadline {
	return FromTime(now.Add(d))
}

// Time returns the deadline as a time.Time.
func (d Deadline) Time() time.Time {
	return time.UnixMilli(int64(d))
}

// Remaining returns max(0, d-now).
func (d Deadline) Remaining(now time.Time) time.Duration {
	ms := int64(d) - now.UnixMilli()
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// Expired reports whether the deadline is at or before now.
func (d Deadline) Expired(now time.Time) bool {
	return int64(d) <= now.UnixMilli()
}

// String returns the storage encoding (decimal milliseconds).
func (d Deadline) String() string {
	return strconv.FormatInt(int64(d), 10)
}

// Parse decodes a stored deadline value.
func Parse(s string) (Deadline, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, ErrInvalidValue
	}
	return Deadline(v), nil
}
