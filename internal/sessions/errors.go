package sessions

import "errors"

var (
	// ErrConflict is returned when the user already has an active session.
	ErrConflict = errors.New("active session already exists")
	// ErrInvalidState is returned when the target is already terminal.
	// It is expected under concurrent retries, callers should refetch.
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
)
