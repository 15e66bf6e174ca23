package store

import (
	"context"
	"time"
)

// Map represents a shared key-value map with per-entry TTL
type Map interface {
	// Get returns the value stored under key or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores the value; zero ttl means no expiry
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// PutIfAbsent stores the value only when key is absent, it returns true if stored
	PutIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	Remove(ctx context.Context, key string) error

	ContainsKey(ctx context.Context, key string) (bool, error)

	// Keys returns live keys in ascending order
	Keys(ctx context.Context) ([]string, error)
}

// Locker represents per-key exclusive locks
type Locker interface {
	// TryLock waits up to wait for the lock on key and returns the acquired
	// lease, or nil when the lock is held elsewhere. A positive hold bounds how
	// long the lock survives a holder that stops renewing it.
	TryLock(ctx context.Context, key string, wait, hold time.Duration) (Lease, error)

	IsLocked(ctx context.Context, key string) (bool, error)
}

// Lease represents a single acquisition of a lock
type Lease interface {
	Key() string

	// Renew extends the lease by hold; it fails with ErrNotHeld once the lock was lost
	Renew(ctx context.Context, hold time.Duration) error

	// Lost is closed when the lock is lost before Release
	Lost() <-chan struct{}

	// Release unlocks this acquisition only; a lock since taken by another
	// holder is left untouched
	Release(ctx context.Context) error
}

// Counter represents named atomic integer counters
type Counter interface {
	Increment(ctx context.Context, key string) (int64, error)

	Decrement(ctx context.Context, key string) (int64, error)

	// Get returns the counter value, absent counters are zero
	Get(ctx context.Context, key string) (int64, error)
}

// Store bundles the substrate primitives under named namespaces
type Store interface {
	Map(name string) Map

	Locker(name string) Locker

	Counter(name string) Counter
}
