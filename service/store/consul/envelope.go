package consul

import (
	"encoding/json"
	"time"
)

// envelope carries the value with its expiry since consul KV has no per key TTL
type envelope struct {
	Value     []byte     `json:"value"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (e *envelope) expired(now time.Time) bool {
	return e.ExpiresAt != nil && !now.Before(*e.ExpiresAt)
}

func encode(value []byte, ttl time.Duration, now time.Time) ([]byte, error) {
	e := &envelope{Value: value}
	if ttl > 0 {
		expiresAt := now.Add(ttl)
		e.ExpiresAt = &expiresAt
	}
	return json.Marshal(e)
}

func decode(data []byte) (*envelope, error) {
	ret := &envelope{}
	if err := json.Unmarshal(data, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
