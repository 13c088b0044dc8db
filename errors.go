package stm

import "github.com/pkg/errors"

// AssertionError reports a contract violation: misaligned address, a
// nested transaction, or committing without an active transaction. These
// are never part of the conflict-and-retry protocol; they indicate a bug
// in the calling code and are fatal.
type AssertionError struct {
	Invariant string
	cause     error
}

func (e *AssertionError) Error() string {
	return "stm: invariant violated: " + e.Invariant
}

func (e *AssertionError) Unwrap() error { return e.cause }

func newAssertionError(invariant string) *AssertionError {
	return &AssertionError{Invariant: invariant, cause: errors.New(invariant)}
}

func assertf(cond bool, invariant string) {
	if !cond {
		panic(newAssertionError(invariant))
	}
}
