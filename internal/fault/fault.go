// Package fault carries tagged errors between the storage controllers and the
// web boundary. Controllers return a *fault.Error with a Kind; the boundary
// maps the Kind to an HTTP status and a stable machine-readable string.
package fault

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind classifies an error for the API boundary.
type Kind string

const (
	// Validation marks malformed or out-of-range input.
	Validation Kind = "validation"
	// Unauthorized marks a missing or invalid credential.
	Unauthorized Kind = "unauthorized"
	// Forbidden marks an authenticated caller lacking permission.
	Forbidden Kind = "forbidden"
	// NotFound marks an unknown identifier.
	NotFound Kind = "not_found"
	// Unavailable marks a storage or identity-verifier timeout; safe to retry.
	Unavailable Kind = "unavailable"
	// Internal marks an unexpected server-side failure.
	Internal Kind = "internal"
)

// Error is a kind-tagged error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}

	return e.Msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a tagged error with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error with a kind and message.
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the Kind from err, defaulting to Internal.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}

	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// FromDB translates a gorm/storage error into a tagged error.
// Already tagged errors pass through unchanged. Record-not-found becomes
// NotFound, context expiry becomes Unavailable so callers can retry with
// backoff, anything else stays Internal.
func FromDB(err error, msg string) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Wrap(err, NotFound, msg)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return Wrap(err, Unavailable, msg)
	default:
		return Wrap(err, Internal, msg)
	}
}
