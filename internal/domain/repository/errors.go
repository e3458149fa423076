package repository

import "errors"

var (
	// ErrNotFound is returned by lookups that miss.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a uniqueness constraint is violated.
	ErrConflict = errors.New("constraint violation")
	// ErrInvalidReference is returned when a write names a related row that
	// does not exist (foreign key violation).
	ErrInvalidReference = errors.New("referenced row not found")
)
