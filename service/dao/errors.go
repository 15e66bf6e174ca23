package dao

import "errors"

// Sentinel errors returned by registries, detect them with errors.Is
var (
	// ErrNotFound is returned when no live entity has the requested ID
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID is returned for an empty ID
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity is returned when saving a nil entity
	ErrNilEntity = errors.New("dao: nil entity")

	// ErrAlreadyExists is returned when creating an entity whose ID is taken
	ErrAlreadyExists = errors.New("dao: already exists")
)
