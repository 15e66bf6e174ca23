package consul

import (
	"context"
	"fmt"
	"github.com/hashicorp/consul/api"
	"github.com/viant/tooring/service/store"
	"strconv"
)

// Counter implements store.Counter as check-and-set updates of decimal values
type Counter struct {
	kv     *api.KV
	prefix string
}

var _ store.Counter = (*Counter)(nil)

func (c *Counter) Increment(ctx context.Context, key string) (int64, error) {
	return c.add(ctx, key, 1)
}

func (c *Counter) Decrement(ctx context.Context, key string) (int64, error) {
	return c.add(ctx, key, -1)
}

func (c *Counter) Get(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, store.ErrInvalidKey
	}
	pair, _, err := c.kv.Get(c.prefix+key, queryOptions(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to get counter %v: %w", key, err)
	}
	return parseCounter(key, pair)
}

func (c *Counter) add(ctx context.Context, key string, delta int64) (int64, error) {
	if key == "" {
		return 0, store.ErrInvalidKey
	}
	for {
		pair, _, err := c.kv.Get(c.prefix+key, queryOptions(ctx))
		if err != nil {
			return 0, fmt.Errorf("failed to get counter %v: %w", key, err)
		}
		value, err := parseCounter(key, pair)
		if err != nil {
			return 0, err
		}
		var index uint64
		if pair != nil {
			index = pair.ModifyIndex
		}
		value += delta
		next := &api.KVPair{Key: c.prefix + key, Value: []byte(strconv.FormatInt(value, 10)), ModifyIndex: index}
		ok, _, err := c.kv.CAS(next, writeOptions(ctx))
		if err != nil {
			return 0, fmt.Errorf("failed to update counter %v: %w", key, err)
		}
		if ok {
			return value, nil
		}
		if err = ctx.Err(); err != nil {
			return 0, err
		}
	}
}

func parseCounter(key string, pair *api.KVPair) (int64, error) {
	if pair == nil || len(pair.Value) == 0 {
		return 0, nil
	}
	value, err := strconv.ParseInt(string(pair.Value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid counter %v value %q: %w", key, pair.Value, err)
	}
	return value, nil
}
