package errors

import "errors"

var (
	// ErrCounterUnavailable means the sequence store could not perform the
	// increment. Record creation must abort: a record is never persisted
	// without its identifier.
	ErrCounterUnavailable = errors.New("sequence counter unavailable")

	// ErrCodeExhausted means every candidate random code collided within
	// the attempt budget.
	ErrCodeExhausted = errors.New("unique code generation exhausted")
)
