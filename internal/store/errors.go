package store

import "errors"

var (
	// ErrNotFound is returned when a lookup by id, nickname or email matches
	// no record.
	ErrNotFound = errors.New("store: record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint
	// (email, nickname, or a concurrent duplicate follow edge).
	ErrConflict = errors.New("store: unique constraint violated")
	// ErrOutOfRange is returned by strict pagination when the requested page
	// lies beyond the last page.
	ErrOutOfRange = errors.New("store: page out of range")
)
