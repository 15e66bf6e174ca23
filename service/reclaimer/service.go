package reclaimer

import (
	"context"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"github.com/viant/tooring/internal/logging"
	"github.com/viant/tooring/service/claim"
	"github.com/viant/tooring/service/dao"
	"github.com/viant/tooring/service/dao/criteria"
	taskdao "github.com/viant/tooring/service/dao/task"
	"github.com/viant/tooring/service/event"
	"github.com/viant/tooring/service/metrics"
	"github.com/viant/tooring/tracing"
	"sync"
	"time"
)

// Config represents reclaimer configuration
type Config struct {
	// Interval is how often busy tasks are inspected
	Interval time.Duration `json:"interval,omitempty" yaml:"interval,omitempty"`
}

// DefaultConfig returns the default reclaimer configuration
func DefaultConfig() Config {
	return Config{
		Interval: 10 * time.Second,
	}
}

// Service clears the busy flag of tasks whose executor no longer holds the
// task lock, so that a crashed worker does not strand its task. Partial tape
// changes are kept; the next executor resumes from the last persisted state.
type Service struct {
	config       Config
	tasks        *taskdao.Service
	claim        *claim.Service
	logger       logrus.FieldLogger
	metrics      *metrics.Metrics
	events       *event.Service
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// Start sweeps every Interval until ctx is cancelled or Shutdown is called
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.shutdownCh:
			return nil
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.WithError(err).Warn("sweep failed")
				s.metrics.ObserveFailure("reclaimer")
			}
		}
	}
}

// Shutdown stops Start
func (s *Service) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownCh)
	})
}

// Sweep clears busy on every task whose lock is free and returns how many were cleared
func (s *Service) Sweep(ctx context.Context) (cleared int, err error) {
	ctx, span := tracing.StartSpan(ctx, "reclaimer.sweep", tracing.KindInternal)
	defer func() {
		span.WithAttributes(map[string]string{"cleared": fmt.Sprint(cleared)})
		tracing.EndSpan(span, err)
		s.metrics.ObserveReclaimed(cleared)
	}()

	busy, err := s.tasks.List(ctx, dao.NewFlag(criteria.Busy, true))
	if err != nil {
		return 0, fmt.Errorf("failed to list busy tasks: %w", err)
	}
	for _, candidate := range busy {
		locked, err := s.claim.IsLocked(ctx, candidate.ID)
		if err != nil {
			return cleared, fmt.Errorf("failed to inspect task %v lock: %w", candidate.ID, err)
		}
		if locked {
			continue
		}
		ok, err := s.reclaim(ctx, candidate.ID)
		if err != nil {
			return cleared, err
		}
		if ok {
			cleared++
		}
	}
	return cleared, nil
}

func (s *Service) reclaim(ctx context.Context, taskID string) (bool, error) {
	reclaimed := false
	_, err := s.claim.WithLockWait(ctx, taskID, 0, func(ctx context.Context) error {
		aTask, err := s.tasks.Load(ctx, taskID)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return nil
			}
			return err
		}
		if !aTask.Busy {
			return nil
		}
		aTask.Reclaim()
		if err = s.tasks.Save(ctx, aTask); err != nil {
			return fmt.Errorf("failed to reclaim task %v: %w", taskID, err)
		}
		reclaimed = true
		s.events.Publish(event.Reclaimed, "reclaimer", "", aTask)
		s.logger.WithFields(logrus.Fields{"taskID": taskID, "steps": aTask.Steps}).Info("reclaimed stale task")
		return nil
	})
	return reclaimed, err
}

// New creates a reclaimer
func New(tasks *taskdao.Service, claim *claim.Service, options ...Option) *Service {
	ret := &Service{
		config:     DefaultConfig(),
		tasks:      tasks,
		claim:      claim,
		logger:     logging.Discard(),
		shutdownCh: make(chan struct{}),
	}
	for _, option := range options {
		option(ret)
	}
	if ret.config.Interval <= 0 {
		ret.config.Interval = DefaultConfig().Interval
	}
	return ret
}
