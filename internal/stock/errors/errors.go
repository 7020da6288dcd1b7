package errors

import "errors"

var (
	ErrBatchNotFound = errors.New("stock batch not found")

	ErrInvalidID = errors.New("invalid stock batch ID format")

	ErrDuplicateCategory = errors.New("an active stock batch already exists for this category")

	// ErrInsufficientStock means the batch counter itself is below the
	// requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock for requested quantity")

	// ErrInsufficientAvailable means fewer unsold codes exist than
	// requested. This can diverge from the batch counter when codes stay
	// sold across a prior allocation; it is a reachable state, not a bug.
	ErrInsufficientAvailable = errors.New("insufficient available ticket codes")

	// ErrClaimConflict means a concurrent allocation claimed one of the
	// selected codes between selection and claim.
	ErrClaimConflict = errors.New("ticket codes were claimed concurrently")
)
