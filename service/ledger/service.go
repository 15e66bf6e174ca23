package ledger

import (
	"context"
	"fmt"
	"github.com/viant/tooring/service/store"
)

// Service keeps a signed credit score per identity. Requesters are debited
// when they schedule work and workers are credited when they execute it.
type Service struct {
	counter store.Counter
}

// Debit decrements identity score by one
func (s *Service) Debit(ctx context.Context, identity string) (int64, error) {
	ret, err := s.counter.Decrement(ctx, identity)
	if err != nil {
		return 0, fmt.Errorf("failed to debit %v: %w", identity, err)
	}
	return ret, nil
}

// Credit increments identity score by one
func (s *Service) Credit(ctx context.Context, identity string) (int64, error) {
	ret, err := s.counter.Increment(ctx, identity)
	if err != nil {
		return 0, fmt.Errorf("failed to credit %v: %w", identity, err)
	}
	return ret, nil
}

// Score returns identity score, zero for unknown identities
func (s *Service) Score(ctx context.Context, identity string) (int64, error) {
	ret, err := s.counter.Get(ctx, identity)
	if err != nil {
		return 0, fmt.Errorf("failed to get %v score: %w", identity, err)
	}
	return ret, nil
}

// New creates a ledger on the supplied counter set
func New(counter store.Counter) *Service {
	return &Service{counter: counter}
}
