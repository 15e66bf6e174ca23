package dao

import (
	"context"
)

// Service represents a registry of entities keyed by K, shared by every
// process using the same store
type Service[K comparable, T any] interface {
	// Create stores a new entity or fails with ErrAlreadyExists
	Create(ctx context.Context, t *T) error

	// Save overwrites the entity
	Save(ctx context.Context, t *T) error

	// Load returns the entity or ErrNotFound
	Load(ctx context.Context, id K) (*T, error)

	// Delete removes the entity or fails with ErrNotFound
	Delete(ctx context.Context, id K) error

	// List returns entities matching every parameter
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
