package verifyerr

import (
	"errors"
	"fmt"
)

// InputError reports a problem with the supplied inputs: a missing file, an
// unreadable path, a malformed command-line argument. The run cannot
// proceed at all.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return fmt.Sprintf("input error: %v", e.Err) }
func (e *InputError) Unwrap() error { return e.Err }

// Input formats its arguments with fmt.Errorf and wraps the result as an
// InputError.
func Input(format string, args ...interface{}) error {
	return &InputError{Err: fmt.Errorf(format, args...)}
}

// StructuralError reports a violation of the data model's own invariants:
// a table row referencing a partition that does not exist, a permutation
// field with the wrong number of elements, an election id that does not
// match across documents. The data is self-inconsistent, independent of
// any verification outcome.
type StructuralError struct {
	Err error
}

func (e *StructuralError) Error() string { return fmt.Sprintf("structural violation: %v", e.Err) }
func (e *StructuralError) Unwrap() error { return e.Err }

// Structural formats its arguments with fmt.Errorf and wraps the result as a
// StructuralError.
func Structural(format string, args ...interface{}) error {
	return &StructuralError{Err: fmt.Errorf(format, args...)}
}

// VerificationError reports a negative verdict: the evidence was well
// formed and internally consistent, but some commitment, reveal, or
// challenge check failed. This is an expected, non-fatal outcome — the
// whole point of running the verifier is that this can happen.
type VerificationError struct {
	Err error
}

func (e *VerificationError) Error() string { return fmt.Sprintf("verification failed: %v", e.Err) }
func (e *VerificationError) Unwrap() error { return e.Err }

// Verification formats its arguments with fmt.Errorf and wraps the result as
// a VerificationError.
func Verification(format string, args ...interface{}) error {
	return &VerificationError{Err: fmt.Errorf(format, args...)}
}

// IsInput reports whether err is (or wraps) an InputError.
func IsInput(err error) bool {
	var e *InputError
	return errors.As(err, &e)
}

// IsStructural reports whether err is (or wraps) a StructuralError.
func IsStructural(err error) bool {
	var e *StructuralError
	return errors.As(err, &e)
}

// IsVerification reports whether err is (or wraps) a VerificationError.
func IsVerification(err error) bool {
	var e *VerificationError
	return errors.As(err, &e)
}
