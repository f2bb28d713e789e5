package deadline

import (
	"testing"
	"time"
)

func TestDeadlineRemaining(t *testing.T) {
	now := time.UnixMilli(1_000_000)

	tests := []struct {
		name string
		d    Deadline
		want time.Duration
	}{
		{"Future", 1_030_000, 30 * time.Second},
		{"Now", 1_000_000, 0},
		{"Past", 999_000, 0},
		{"OneMillisecond", 1_000_001, time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Remaining(now); got != tt.want {
				t.Errorf("Remaining() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeadlineExpired(t *testing.T) {
	now := time.UnixMilli(5000)

	if Deadline(5001).Expired(now) {
		t.Error("deadline 1ms in the future reported expired")
	}
	if !Deadline(5000).Expired(now) {
		t.Error("deadline equal to now must be expired")
	}
	if !Deadline(1).Expired(now) {
		t.Error("past deadline must be expired")
	}
}

func TestDeadlineRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 123_456_789, time.UTC)
	d := FromTime(ts)

	if d.Time().UnixMilli() != ts.UnixMilli() {
		t.Errorf("Time() = %v, want %v", d.Time(), ts.Truncate(time.Millisecond))
	}

	got, err := Parse(d.String())
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", d.String(), err)
	}
	if got != d {
		t.Errorf("Parse(String()) = %d, want %d", got, d)
	}
}

func TestAfter(t *testing.T) {
	now := time.UnixMilli(10_000)
	if got := After(now, 900*time.Second); got != Deadline(910_000) {
		t.Errorf("After() = %d, want 910000", got)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "12.5", "-100", "0", "1e9", " 123"} {
		t.Run(in, func(t *testing.T) {
			if _, err := Parse(in); err != ErrInvalidValue {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidValue", in, err)
			}
		})
	}
}
