package errors

import "errors"

var (
	ErrPriceNotFound = errors.New("ticket price not found")
)
