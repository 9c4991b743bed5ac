// Package arcerr defines the error kinds surfaced by the request preparation
// pipeline. Every public failure matches exactly one kind via errors.Is, and
// unwraps to the underlying cause when there is one.
package arcerr

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrConfig indicates a missing or invalid environment value.
	ErrConfig = errors.New("config error")

	// ErrEncoding indicates a wrong-length fixed field or an out-of-range
	// numeric input.
	ErrEncoding = errors.New("encoding error")

	// ErrCrypto indicates malformed key material or a failed key agreement.
	ErrCrypto = errors.New("crypto error")

	// ErrNetwork indicates a failure reading on-chain state.
	ErrNetwork = errors.New("network error")

	// ErrVerification indicates a computation output failed, or could not
	// complete, verification.
	ErrVerification = errors.New("verification error")
)

// Error is an error of a specific kind, optionally caused by another error.
type Error struct {
	kind  error
	also  []error
	msg   string
	cause error
}

// New returns an error of the provided kind.
func New(kind error, format string, args ...interface{}) error {
	return &Error{
		kind: kind,
		msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap returns an error of the provided kind caused by err.
func Wrap(kind, err error, format string, args ...interface{}) error {
	return &Error{
		kind:  kind,
		msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// WithSentinel returns a copy of err that additionally matches sentinel via
// errors.Is. It's used to give a kind a more specific, distinguishable case.
func WithSentinel(err error, sentinel error) error {
	e, ok := err.(*Error)
	if !ok {
		return &Error{kind: sentinel, msg: sentinel.Error(), cause: err}
	}

	copied := *e
	copied.also = append(append([]error(nil), e.also...), sentinel)
	return &copied
}

// Kind returns the kind of the error.
func (e *Error) Kind() error {
	return e.kind
}

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.kind, e.msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.kind, e.msg, e.cause)
}

// Is implements the errors.Is interface.
func (e *Error) Is(target error) bool {
	if target == e.kind {
		return true
	}
	for _, s := range e.also {
		if target == s {
			return true
		}
	}
	return false
}

// Unwrap implements the errors.Unwrap interface.
func (e *Error) Unwrap() error {
	return e.cause
}

// Cause implements the github.com/pkg/errors causer interface.
func (e *Error) Cause() error {
	return e.cause
}

// InvalidLength returns an ErrEncoding for a fixed-size field of the wrong
// length.
func InvalidLength(field string, expected, actual int) error {
	return New(ErrEncoding, "%s: expected %d bytes, got %d", field, expected, actual)
}
