package errors

import "errors"

var (
	ErrRecapNotFound = errors.New("sales recap not found")
)
