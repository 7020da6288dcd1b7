package errors

import "errors"

var (
	ErrNotFound        = errors.New("reservation not found")
	ErrInvalidID       = errors.New("invalid reservation ID format")
	ErrSlotTaken       = errors.New("visiting slot already booked")
	ErrDuplicateCode   = errors.New("public identifier already in use")
	ErrUpdateConflict  = errors.New("reservation update conflict")
	ErrNothingToUpdate = errors.New("no fields to update")
)
