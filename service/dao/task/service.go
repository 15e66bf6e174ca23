package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/viant/tooring/model/task"
	"github.com/viant/tooring/service/dao"
	"github.com/viant/tooring/service/dao/criteria"
	"github.com/viant/tooring/service/store"
	"time"
)

// DefaultTTL is how long a submitted task survives without being scheduled
const DefaultTTL = 12 * time.Hour

// Service implements the task registry on a shared store map. Records are
// JSON encoded so that every worker process sees the same representation.
type Service struct {
	entries store.Map
	ttl     time.Duration
}

var _ dao.Service[string, task.Task] = (*Service)(nil)

// Create stores a new task with the registry TTL; it fails with
// dao.ErrAlreadyExists when the ID is taken
func (s *Service) Create(ctx context.Context, aTask *task.Task) error {
	data, err := s.encode(aTask)
	if err != nil {
		return err
	}
	ok, err := s.entries.PutIfAbsent(ctx, aTask.ID, data, s.ttl)
	if err != nil {
		return fmt.Errorf("failed to create task %v: %w", aTask.ID, err)
	}
	if !ok {
		return fmt.Errorf("task %v: %w", aTask.ID, dao.ErrAlreadyExists)
	}
	return nil
}

// Save persists the task without expiry
func (s *Service) Save(ctx context.Context, aTask *task.Task) error {
	data, err := s.encode(aTask)
	if err != nil {
		return err
	}
	if err = s.entries.Put(ctx, aTask.ID, data, 0); err != nil {
		return fmt.Errorf("failed to save task %v: %w", aTask.ID, err)
	}
	return nil
}

func (s *Service) Load(ctx context.Context, id string) (*task.Task, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	data, err := s.entries.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dao.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load task %v: %w", id, err)
	}
	ret := &task.Task{}
	if err = json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode task %v: %w", id, err)
	}
	return ret, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	has, err := s.entries.ContainsKey(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %v: %w", id, err)
	}
	if !has {
		return dao.ErrNotFound
	}
	if err = s.entries.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task %v: %w", id, err)
	}
	return nil
}

// List returns live tasks in key order matching the criteria parameters
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*task.Task, error) {
	keys, err := s.entries.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	ret := make([]*task.Task, 0, len(keys))
	for _, key := range keys {
		aTask, err := s.Load(ctx, key)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				continue // expired or consumed since Keys
			}
			return nil, err
		}
		if !criteria.FilterTask(aTask, parameters) {
			continue
		}
		ret = append(ret, aTask)
	}
	return ret, nil
}

// Keys returns live task IDs
func (s *Service) Keys(ctx context.Context) ([]string, error) {
	return s.entries.Keys(ctx)
}

func (s *Service) encode(aTask *task.Task) ([]byte, error) {
	if aTask == nil {
		return nil, dao.ErrNilEntity
	}
	if aTask.ID == "" {
		return nil, dao.ErrInvalidID
	}
	data, err := json.Marshal(aTask)
	if err != nil {
		return nil, fmt.Errorf("failed to encode task %v: %w", aTask.ID, err)
	}
	return data, nil
}

// New creates a task registry
func New(entries store.Map, options ...Option) *Service {
	ret := &Service{entries: entries, ttl: DefaultTTL}
	for _, option := range options {
		option(ret)
	}
	return ret
}
