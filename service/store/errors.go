package store

import "errors"

var (
	// ErrNotFound is returned when the key does not exist or has expired.
	ErrNotFound = errors.New("store: not found")

	// ErrInvalidKey is returned for empty keys.
	ErrInvalidKey = errors.New("store: invalid key")

	// ErrNotHeld is returned when renewing or releasing a lease that no longer holds its lock.
	ErrNotHeld = errors.New("store: lock not held")
)
