package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict is returned when an optimistic update lost the
	// race: the stored version no longer matches the one read.
	ErrVersionConflict = errors.New("record modified concurrently")
)
