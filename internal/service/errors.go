package service

import "fmt"

// ValidationError reports malformed input to a review operation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError is returned when the backing store fails during a review
// operation, so callers can distinguish "the repository broke" from "the
// input was bad". The answer-submission flow swallows these; the dedicated
// review flow propagates them.
type PersistenceError struct {
	Op      string
	Wrapped error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("review persistence failed: %s: %v", e.Op, e.Wrapped)
}

func (e *PersistenceError) Unwrap() error {
	return e.Wrapped
}
