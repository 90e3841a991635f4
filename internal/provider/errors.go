package provider

import (
	"errors"
	"fmt"

	"github.com/roach88/phoneloc/internal/store"
)

// ErrQueryFailed is reported for reads that failed in storage. The cause is
// logged, not returned.
var ErrQueryFailed = errors.New("query failed")

// FaultKind categorizes a Fault.
type FaultKind string

const (
	// KindRouting: the address matched no known pattern.
	KindRouting FaultKind = "ROUTING"

	// KindStorage: the underlying database failed.
	KindStorage FaultKind = "STORAGE"

	// KindMisuse: the caller combined parameters the pattern does not allow,
	// such as a filter on a number upsert. Always surfaced as-is.
	KindMisuse FaultKind = "MISUSE"

	// KindValidation: values, filter or sort were malformed.
	KindValidation FaultKind = "VALIDATION"
)

// Fault is the error type returned by every Provider operation.
type Fault struct {
	Kind FaultKind

	// Op is the operation name: query, insert, update.
	Op string

	// Address is the address as presented by the caller.
	Address string

	Err error
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", f.Kind, f.Op, f.Address, f.Err)
}

// Unwrap returns the underlying error.
func (f *Fault) Unwrap() error {
	return f.Err
}

// IsRouting returns true if err is a routing fault.
// Uses errors.As to handle wrapped errors.
func IsRouting(err error) bool { return hasKind(err, KindRouting) }

// IsStorage returns true if err is a storage fault.
func IsStorage(err error) bool { return hasKind(err, KindStorage) }

// IsMisuse returns true if err is a misuse fault.
func IsMisuse(err error) bool { return hasKind(err, KindMisuse) }

// IsValidation returns true if err is a validation fault.
func IsValidation(err error) bool { return hasKind(err, KindValidation) }

func hasKind(err error, kind FaultKind) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind == kind
	}
	return false
}

// classify maps a store error to a Fault.
func classify(op, address string, err error) *Fault {
	kind := KindStorage
	switch {
	case errors.Is(err, store.ErrNoMatch):
		kind = KindRouting
	case errors.Is(err, store.ErrUnsupported):
		kind = KindMisuse
	case errors.Is(err, store.ErrInvalidValues), errors.Is(err, store.ErrInvalidFilter):
		kind = KindValidation
	}
	return &Fault{Kind: kind, Op: op, Address: address, Err: err}
}
