package service

import "errors"

var (
	// ErrAccessDenied is returned when the caller may not see or act on
	// the requested expense.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidCategory is returned for categories outside the accepted set.
	ErrInvalidCategory = errors.New("invalid expense category")

	// ErrInvalidInput wraps payload validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
