package consul

import (
	"context"
	"fmt"
	"github.com/hashicorp/consul/api"
	"github.com/viant/tooring/internal/clock"
	"github.com/viant/tooring/service/store"
	"sort"
	"strings"
	"time"
)

// Map implements store.Map; expired entries are removed lazily on read
type Map struct {
	kv     *api.KV
	prefix string
}

var _ store.Map = (*Map)(nil)

func (m *Map) Get(ctx context.Context, key string) ([]byte, error) {
	e, _, err := m.get(ctx, key)
	if err != nil {
		return nil, err
	}
	return e.Value, nil
}

func (m *Map) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return store.ErrInvalidKey
	}
	data, err := encode(value, ttl, clock.Now())
	if err != nil {
		return err
	}
	if _, err = m.kv.Put(&api.KVPair{Key: m.prefix + key, Value: data}, writeOptions(ctx)); err != nil {
		return fmt.Errorf("failed to put %v: %w", key, err)
	}
	return nil
}

func (m *Map) PutIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, store.ErrInvalidKey
	}
	pair, _, err := m.kv.Get(m.prefix+key, queryOptions(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to get %v: %w", key, err)
	}
	var index uint64
	if pair != nil {
		if e, err := decode(pair.Value); err == nil && !e.expired(clock.Now()) {
			return false, nil
		}
		index = pair.ModifyIndex
	}
	data, err := encode(value, ttl, clock.Now())
	if err != nil {
		return false, err
	}
	// ModifyIndex 0 only creates the key when absent
	ok, _, err := m.kv.CAS(&api.KVPair{Key: m.prefix + key, Value: data, ModifyIndex: index}, writeOptions(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to put %v: %w", key, err)
	}
	return ok, nil
}

func (m *Map) Remove(ctx context.Context, key string) error {
	if key == "" {
		return store.ErrInvalidKey
	}
	if _, err := m.kv.Delete(m.prefix+key, writeOptions(ctx)); err != nil {
		return fmt.Errorf("failed to remove %v: %w", key, err)
	}
	return nil
}

func (m *Map) ContainsKey(ctx context.Context, key string) (bool, error) {
	_, _, err := m.get(ctx, key)
	if err == nil {
		return true, nil
	}
	if err == store.ErrNotFound {
		return false, nil
	}
	return false, err
}

func (m *Map) Keys(ctx context.Context) ([]string, error) {
	pairs, _, err := m.kv.List(m.prefix, queryOptions(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list %v: %w", m.prefix, err)
	}
	now := clock.Now()
	ret := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		e, err := decode(pair.Value)
		if err != nil || e.expired(now) {
			continue
		}
		ret = append(ret, strings.TrimPrefix(pair.Key, m.prefix))
	}
	sort.Strings(ret)
	return ret, nil
}

func (m *Map) get(ctx context.Context, key string) (*envelope, *api.KVPair, error) {
	if key == "" {
		return nil, nil, store.ErrInvalidKey
	}
	pair, _, err := m.kv.Get(m.prefix+key, queryOptions(ctx))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get %v: %w", key, err)
	}
	if pair == nil {
		return nil, nil, store.ErrNotFound
	}
	e, err := decode(pair.Value)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode %v: %w", key, err)
	}
	if e.expired(clock.Now()) {
		// only removes the entry if nobody rewrote it meanwhile
		_, _, _ = m.kv.DeleteCAS(pair, writeOptions(ctx))
		return nil, nil, store.ErrNotFound
	}
	return e, pair, nil
}

func queryOptions(ctx context.Context) *api.QueryOptions {
	return (&api.QueryOptions{RequireConsistent: true}).WithContext(ctx)
}

func writeOptions(ctx context.Context) *api.WriteOptions {
	return (&api.WriteOptions{}).WithContext(ctx)
}
