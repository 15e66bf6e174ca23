package memory

import (
	"github.com/viant/tooring/service/store"
	"sync"
)

// Store implements an in-process store.Store. It is safe for concurrent use
// by any number of workers sharing the instance.
type Store struct {
	mux      sync.Mutex
	maps     map[string]*Map
	lockers  map[string]*Locker
	counters map[string]*Counter
}

var _ store.Store = (*Store)(nil)

// Map returns the named map, creating it on first use
func (s *Store) Map(name string) store.Map {
	s.mux.Lock()
	defer s.mux.Unlock()
	ret, ok := s.maps[name]
	if !ok {
		ret = NewMap()
		s.maps[name] = ret
	}
	return ret
}

// Locker returns the named locker, creating it on first use
func (s *Store) Locker(name string) store.Locker {
	s.mux.Lock()
	defer s.mux.Unlock()
	ret, ok := s.lockers[name]
	if !ok {
		ret = NewLocker()
		s.lockers[name] = ret
	}
	return ret
}

// Counter returns the named counter set, creating it on first use
func (s *Store) Counter(name string) store.Counter {
	s.mux.Lock()
	defer s.mux.Unlock()
	ret, ok := s.counters[name]
	if !ok {
		ret = NewCounter()
		s.counters[name] = ret
	}
	return ret
}

// New creates an empty memory store
func New() *Store {
	return &Store{
		maps:     make(map[string]*Map),
		lockers:  make(map[string]*Locker),
		counters: make(map[string]*Counter),
	}
}
