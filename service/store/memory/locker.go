package memory

import (
	"context"
	"github.com/viant/tooring/internal/clock"
	"github.com/viant/tooring/service/store"
	"sync"
	"time"
)

// pollInterval is how often a waiting TryLock retries
const pollInterval = 2 * time.Millisecond

// Locker implements store.Locker. A positive hold acts as a lease: once it
// lapses without a Renew the lock is treated as released, which is how a
// crashed holder is modelled in process.
type Locker struct {
	leases map[string]*Lease
	token  uint64
	mux    sync.Mutex
}

var _ store.Locker = (*Locker)(nil)

// Lease implements store.Lease
type Lease struct {
	locker    *Locker
	key       string
	token     uint64
	expiresAt time.Time
	lost      chan struct{}
	lostOnce  sync.Once
}

var _ store.Lease = (*Lease)(nil)

func (l *Lease) Key() string {
	return l.key
}

// Token identifies the acquisition
func (l *Lease) Token() uint64 {
	return l.token
}

func (l *Lease) Renew(_ context.Context, hold time.Duration) error {
	l.locker.mux.Lock()
	defer l.locker.mux.Unlock()
	if !l.locker.owns(l) {
		return store.ErrNotHeld
	}
	if hold > 0 {
		l.expiresAt = clock.Now().Add(hold)
	} else {
		l.expiresAt = time.Time{}
	}
	return nil
}

func (l *Lease) Lost() <-chan struct{} {
	return l.lost
}

func (l *Lease) Release(_ context.Context) error {
	l.locker.mux.Lock()
	defer l.locker.mux.Unlock()
	if !l.locker.owns(l) {
		return store.ErrNotHeld
	}
	delete(l.locker.leases, l.key)
	return nil
}

func (l *Lease) expire() {
	l.lostOnce.Do(func() { close(l.lost) })
}

func (l *Locker) TryLock(ctx context.Context, key string, wait, hold time.Duration) (store.Lease, error) {
	if key == "" {
		return nil, store.ErrInvalidKey
	}
	deadline := time.Now().Add(wait)
	for {
		if lease := l.acquire(key, hold); lease != nil {
			return lease, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, nil
		}
		if remaining > pollInterval {
			remaining = pollInterval
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(remaining):
		}
	}
}

func (l *Locker) IsLocked(_ context.Context, key string) (bool, error) {
	l.mux.Lock()
	defer l.mux.Unlock()
	return l.held(key) != nil, nil
}

func (l *Locker) acquire(key string, hold time.Duration) *Lease {
	l.mux.Lock()
	defer l.mux.Unlock()
	if l.held(key) != nil {
		return nil
	}
	l.token++
	lease := &Lease{locker: l, key: key, token: l.token, lost: make(chan struct{})}
	if hold > 0 {
		lease.expiresAt = clock.Now().Add(hold)
	}
	l.leases[key] = lease
	return lease
}

// owns reports whether lease is the live acquisition of its key; caller holds mux
func (l *Locker) owns(lease *Lease) bool {
	current := l.held(lease.key)
	return current != nil && current.token == lease.token
}

// held returns the unexpired lease of key, evicting a lapsed one; caller holds mux
func (l *Locker) held(key string) *Lease {
	lease, ok := l.leases[key]
	if !ok {
		return nil
	}
	if !lease.expiresAt.IsZero() && !clock.Now().Before(lease.expiresAt) {
		delete(l.leases, key)
		lease.expire()
		return nil
	}
	return lease
}

// NewLocker creates an empty locker
func NewLocker() *Locker {
	return &Locker{leases: make(map[string]*Lease)}
}
