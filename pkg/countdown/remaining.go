package countdown

import (
	"fmt"
	"time"
)

// Remaining is the time left until a deadline, split for display.
type Remaining struct {
	// Minutes is floor(RemainingMs / 60000). It is not capped at 59.
	Minutes int

	// Seconds is floor((RemainingMs mod 60000) / 1000).
	Seconds int

	// RemainingMs is the non-negative remaining time in milliseconds.
	RemainingMs int64
}

// NewRemaining splits d into minutes and seconds. Negative values clamp to zero.
func NewRemaining(d time.Duration) Remaining {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return Remaining{
		Minutes:     int(ms / 60000),
		Seconds:     int((ms % 60000) / 1000),
		RemainingMs: ms,
	}
}

// Expired reports whether no time remains.
func (r Remaining) Expired() bool {
	return r.RemainingMs == 0
}

// Duration returns the remaining time as a time.Duration.
func (r Remaining) Duration() time.Duration {
	return time.Duration(r.RemainingMs) * time.Millisecond
}

// MinutesText returns the minutes zero-padded to two digits.
func (r Remaining) MinutesText() string {
	return fmt.Sprintf("%02d", r.Minutes)
}

// SecondsText returns the seconds zero-padded to two digits.
func (r Remaining) SecondsText() string {
	return fmt.Sprintf("%02d", r.Seconds)
}

// String returns the compact "MM:SS" form.
func (r Remaining) String() string {
	return r.MinutesText() + ":" + r.SecondsText()
}

// Labeled returns the captioned form, e.g. "02 Minutes : 05 Seconds".
func (r Remaining) Labeled() string {
	return r.MinutesText() + " Minutes : " + r.SecondsText() + " Seconds"
}
