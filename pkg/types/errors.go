package types

import "errors"

var (
	// ErrNotFound is returned when a requested component doesn't exist
	ErrNotFound = errors.New("not found")
)
