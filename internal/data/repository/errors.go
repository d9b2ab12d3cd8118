package repository

import "errors"

var (
	// ErrModifiedConcurrently means a version-checked write found a newer row version.
	ErrModifiedConcurrently = errors.New("row modified concurrently")

	ErrDuplicateEmail      = errors.New("email already registered")
	ErrDuplicateIdentifier = errors.New("ticket or transaction identifier already issued")
)
