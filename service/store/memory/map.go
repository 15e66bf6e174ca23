package memory

import (
	"context"
	"github.com/viant/tooring/internal/clock"
	"github.com/viant/tooring/service/store"
	"sort"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Map implements store.Map; expired entries are evicted lazily
type Map struct {
	entries map[string]*entry
	mux     sync.RWMutex
}

var _ store.Map = (*Map)(nil)

func (m *Map) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, store.ErrInvalidKey
	}
	m.mux.Lock()
	defer m.mux.Unlock()
	e, ok := m.live(key)
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (m *Map) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return store.ErrInvalidKey
	}
	m.mux.Lock()
	defer m.mux.Unlock()
	m.entries[key] = newEntry(value, ttl)
	return nil
}

func (m *Map) PutIfAbsent(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, store.ErrInvalidKey
	}
	m.mux.Lock()
	defer m.mux.Unlock()
	if _, ok := m.live(key); ok {
		return false, nil
	}
	m.entries[key] = newEntry(value, ttl)
	return true, nil
}

func (m *Map) Remove(_ context.Context, key string) error {
	if key == "" {
		return store.ErrInvalidKey
	}
	m.mux.Lock()
	defer m.mux.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Map) ContainsKey(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, store.ErrInvalidKey
	}
	m.mux.Lock()
	defer m.mux.Unlock()
	_, ok := m.live(key)
	return ok, nil
}

func (m *Map) Keys(_ context.Context) ([]string, error) {
	now := clock.Now()
	m.mux.RLock()
	defer m.mux.RUnlock()
	ret := make([]string, 0, len(m.entries))
	for key, e := range m.entries {
		if e.expired(now) {
			continue
		}
		ret = append(ret, key)
	}
	sort.Strings(ret)
	return ret, nil
}

// live returns a non expired entry, evicting it otherwise; caller holds the write lock
func (m *Map) live(key string) (*entry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if e.expired(clock.Now()) {
		delete(m.entries, key)
		return nil, false
	}
	return e, true
}

func newEntry(value []byte, ttl time.Duration) *entry {
	ret := &entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		ret.expiresAt = clock.Now().Add(ttl)
	}
	return ret
}

// NewMap creates an empty map
func NewMap() *Map {
	return &Map{entries: make(map[string]*entry)}
}
