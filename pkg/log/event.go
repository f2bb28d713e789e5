package log

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a countdown lifecycle event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID uniquely identifies the countdown session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Key is the persistence key of the countdown.
	Key string `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (one of these will be set).
	StateChange *StateChangeEvent `cbor:"5,keyasint,omitempty"`
	Tick        *TickEvent        `cbor:"6,keyasint,omitempty"`
	Store       *StoreEvent       `cbor:"7,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"8,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryState indicates a session state transition.
	CategoryState Category = 0
	// CategoryTick indicates a remaining-time recomputation.
	CategoryTick Category = 1
	// CategoryStore indicates deadline store traffic.
	CategoryStore Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategoryTick:
		return "TICK"
	case CategoryStore:
		return "STORE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory converts a case-insensitive name to a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(s) {
	case "state":
		return CategoryState, nil
	case "tick":
		return CategoryTick, nil
	case "store":
		return CategoryStore, nil
	case "error":
		return CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category %q (valid: state, tick, store, error)", s)
	}
}

// StateChangeEvent captures a session state transition.
type StateChangeEvent struct {
	// OldState is the previous state.
	OldState string `cbor:"1,keyasint"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// TickEvent captures one remaining-time computation.
type TickEvent struct {
	// RemainingMs is the remaining time in milliseconds.
	RemainingMs int64 `cbor:"1,keyasint"`

	// Deadline is the absolute deadline in epoch milliseconds.
	Deadline int64 `cbor:"2,keyasint"`

	// Initial marks the synchronous update emitted on activation.
	Initial bool `cbor:"3,keyasint,omitempty"`
}

// StoreOp identifies a deadline store operation.
type StoreOp uint8

const (
	// StoreOpGet is a deadline lookup.
	StoreOpGet StoreOp = 0
	// StoreOpSet is a deadline write.
	StoreOpSet StoreOp = 1
	// StoreOpRemove is a deadline deletion.
	StoreOpRemove StoreOp = 2
)

// String returns the operation name.
func (o StoreOp) String() string {
	switch o {
	case StoreOpGet:
		return "GET"
	case StoreOpSet:
		return "SET"
	case StoreOpRemove:
		return "REMOVE"
	default:
		return "UNKNOWN"
	}
}

// StoreEvent captures a deadline store operation.
type StoreEvent struct {
	// Op is the store operation.
	Op StoreOp `cbor:"1,keyasint"`

	// Deadline is the deadline read or written (0 if none).
	Deadline int64 `cbor:"2,keyasint,omitempty"`

	// Found reports whether a Get returned a live deadline.
	Found bool `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures errors.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
