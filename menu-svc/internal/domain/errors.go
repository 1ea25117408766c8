package domain

import "errors"

// Storage-level outcomes the services translate into their own errors.
var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("record version changed")
)
