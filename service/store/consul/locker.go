package consul

import (
	"context"
	"errors"
	"fmt"
	"github.com/hashicorp/consul/api"
	"github.com/viant/tooring/service/store"
	"time"
)

const (
	// minSessionTTL is the smallest session TTL accepted by consul
	minSessionTTL = 10 * time.Second
	// minWaitTime keeps a zero wait from falling back to the api default
	minWaitTime = time.Millisecond
)

// Locker implements store.Locker with consul sessions. A held lock is renewed
// in the background; hold is used as the session TTL so the lock is released
// once a crashed holder stops renewing it.
type Locker struct {
	store  *Store
	prefix string
}

var _ store.Locker = (*Locker)(nil)

// Lease implements store.Lease on a consul lock. The session is renewed by
// the consul client; Renew only reports whether the lock is still held.
type Lease struct {
	locker *Locker
	key    string
	lock   *api.Lock
	lost   <-chan struct{}
}

var _ store.Lease = (*Lease)(nil)

func (l *Lease) Key() string {
	return l.key
}

func (l *Lease) Renew(_ context.Context, _ time.Duration) error {
	select {
	case <-l.lost:
		return store.ErrNotHeld
	default:
		return nil
	}
}

func (l *Lease) Lost() <-chan struct{} {
	return l.lost
}

func (l *Lease) Release(_ context.Context) error {
	fullKey := l.locker.prefix + l.key
	s := l.locker.store
	s.mux.Lock()
	if s.locks[fullKey] == l {
		delete(s.locks, fullKey)
	}
	s.mux.Unlock()
	if err := l.lock.Unlock(); err != nil {
		if errors.Is(err, api.ErrLockNotHeld) {
			return store.ErrNotHeld
		}
		return fmt.Errorf("failed to release lock %v: %w", l.key, err)
	}
	return nil
}

func (l *Locker) TryLock(ctx context.Context, key string, wait, hold time.Duration) (store.Lease, error) {
	if key == "" {
		return nil, store.ErrInvalidKey
	}
	fullKey := l.prefix + key
	l.store.mux.Lock()
	_, held := l.store.locks[fullKey]
	l.store.mux.Unlock()
	if held {
		return nil, nil
	}
	if hold < minSessionTTL {
		hold = minSessionTTL
	}
	if wait < minWaitTime {
		wait = minWaitTime
	}
	lock, err := l.store.client.LockOpts(&api.LockOptions{
		Key:          fullKey,
		SessionName:  "tooring-" + key,
		SessionTTL:   hold.String(),
		LockWaitTime: wait,
		LockTryOnce:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lock %v: %w", key, err)
	}
	lost, err := lock.Lock(ctx.Done())
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %v: %w", key, err)
	}
	if lost == nil {
		return nil, ctx.Err()
	}
	lease := &Lease{locker: l, key: key, lock: lock, lost: lost}
	l.store.mux.Lock()
	defer l.store.mux.Unlock()
	if _, held = l.store.locks[fullKey]; held {
		_ = lock.Unlock()
		return nil, nil
	}
	l.store.locks[fullKey] = lease
	return lease, nil
}

func (l *Locker) IsLocked(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, store.ErrInvalidKey
	}
	pair, _, err := l.store.kv.Get(l.prefix+key, queryOptions(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to inspect lock %v: %w", key, err)
	}
	return pair != nil && pair.Session != "", nil
}
