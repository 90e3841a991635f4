package store

import (
	"errors"
	"time"
)

// ChangeHook is told about committed mutations. Address is the address the
// mutation was requested on; an empty address means the whole collection.
type ChangeHook interface {
	Notify(address string)
}

// ChangeHookFunc adapts a function to ChangeHook.
type ChangeHookFunc func(address string)

// Notify calls f(address).
func (f ChangeHookFunc) Notify(address string) { f(address) }

type nopHook struct{}

func (nopHook) Notify(string) {}

// Clock supplies update_time values.
type Clock interface {
	Now() int64
}

// SystemClock stamps wall-clock time in epoch milliseconds.
type SystemClock struct{}

// Now returns the current time in epoch milliseconds.
func (SystemClock) Now() int64 {
	return time.Now().UnixMilli()
}

// Store errors. Callers match them with errors.Is.
var (
	// ErrNoMatch: the address resolved to no known pattern.
	ErrNoMatch = errors.New("address matches no known pattern")

	// ErrUnsupported: the operation is not allowed for the resolved pattern
	// or parameter combination. Indicates caller misuse.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrInvalidValues: the value set is empty or malformed.
	ErrInvalidValues = errors.New("invalid values")

	// ErrInvalidFilter: the caller filter or sort references unknown fields.
	ErrInvalidFilter = errors.New("invalid filter")
)
