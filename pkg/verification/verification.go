// Package verification checks computation results before callers trust them.
package verification

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/arcium-client/pkg/arcerr"
)

// ErrNotVerified is the cause of a VerificationError for a result whose check
// ran and returned false.
var ErrNotVerified = errors.New("result failed verification")

// Verifiable is a result that can check its own output, typically a signature
// by the computation cluster.
type Verifiable interface {
	VerifyOutput() (bool, error)
}

// VerifierFunc adapts a function to Verifiable.
type VerifierFunc func() (bool, error)

// VerifyOutput implements Verifiable.
func (f VerifierFunc) VerifyOutput() (bool, error) {
	return f()
}

// VerificationError is returned when verification fails or can't run. It
// matches arcerr.ErrVerification.
type VerificationError struct {
	Cause error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("%s: %s", arcerr.ErrVerification, e.Cause)
}

// Is implements the errors.Is interface.
func (e *VerificationError) Is(target error) bool {
	return target == arcerr.ErrVerification
}

// Unwrap implements the errors.Unwrap interface.
func (e *VerificationError) Unwrap() error {
	return e.Cause
}

// Verify runs the result's check. A check that ran and failed returns
// (false, nil). A check that returns an error or panics returns a
// *VerificationError carrying the cause.
func Verify(result Verifiable) (ok bool, err error) {
	log := logrus.StandardLogger().WithField("type", "verification/verify")

	if result == nil {
		return false, &VerificationError{Cause: errors.New("no result to verify")}
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", fmt.Sprint(r)).Warn("verification check panicked")

			cause, isErr := r.(error)
			if !isErr {
				cause = errors.Errorf("panic: %v", r)
			}
			ok, err = false, &VerificationError{Cause: cause}
		}
	}()

	ok, err = result.VerifyOutput()
	if err != nil {
		log.WithError(err).Debug("verification check failed to run")
		return false, &VerificationError{Cause: err}
	}
	return ok, nil
}

// AssertVerified returns result unchanged if it verifies, and a
// *VerificationError otherwise.
func AssertVerified[T Verifiable](result T) (T, error) {
	ok, err := Verify(result)
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		var zero T
		return zero, &VerificationError{Cause: ErrNotVerified}
	}
	return result, nil
}
