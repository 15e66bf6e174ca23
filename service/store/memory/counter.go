package memory

import (
	"context"
	"github.com/viant/tooring/service/store"
	"sync"
)

// Counter implements store.Counter
type Counter struct {
	values map[string]int64
	mux    sync.Mutex
}

var _ store.Counter = (*Counter)(nil)

func (c *Counter) Increment(ctx context.Context, key string) (int64, error) {
	return c.add(key, 1)
}

func (c *Counter) Decrement(ctx context.Context, key string) (int64, error) {
	return c.add(key, -1)
}

func (c *Counter) Get(_ context.Context, key string) (int64, error) {
	if key == "" {
		return 0, store.ErrInvalidKey
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.values[key], nil
}

func (c *Counter) add(key string, delta int64) (int64, error) {
	if key == "" {
		return 0, store.ErrInvalidKey
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	c.values[key] += delta
	return c.values[key], nil
}

// NewCounter creates an empty counter set
func NewCounter() *Counter {
	return &Counter{values: make(map[string]int64)}
}
