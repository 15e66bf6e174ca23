package processor

import (
	"context"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"github.com/viant/tooring/internal/clock"
	"github.com/viant/tooring/internal/logging"
	"github.com/viant/tooring/model/machine"
	"github.com/viant/tooring/runtime/engine"
	"github.com/viant/tooring/service/claim"
	"github.com/viant/tooring/service/dao"
	taskdao "github.com/viant/tooring/service/dao/task"
	"github.com/viant/tooring/service/event"
	"github.com/viant/tooring/service/ledger"
	"github.com/viant/tooring/service/metrics"
	"github.com/viant/tooring/service/selector"
	"github.com/viant/tooring/tracing"
	"sync"
	"time"
)

// Config represents worker loop configuration
type Config struct {
	// WorkerCount is the number of loops started when no worker IDs are given to Start
	WorkerCount int `json:"workerCount,omitempty" yaml:"workerCount,omitempty"`

	// IdleInterval is the pause after an iteration that executed nothing
	IdleInterval time.Duration `json:"idleInterval,omitempty" yaml:"idleInterval,omitempty"`

	// CheckpointSteps persists partial progress every N transitions, 0 disables checkpoints
	CheckpointSteps int `json:"checkpointSteps,omitempty" yaml:"checkpointSteps,omitempty"`

	// Verbose logs every transition at debug level
	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// DefaultConfig returns the default worker configuration
func DefaultConfig() Config {
	return Config{
		WorkerCount:  1,
		IdleInterval: 10 * time.Millisecond,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.WorkerCount < 1 {
		return fmt.Errorf("workerCount must be positive: %v", c.WorkerCount)
	}
	if c.IdleInterval <= 0 {
		return fmt.Errorf("idleInterval must be positive: %v", c.IdleInterval)
	}
	if c.CheckpointSteps < 0 {
		return fmt.Errorf("checkpointSteps must not be negative: %v", c.CheckpointSteps)
	}
	return nil
}

// Service runs worker loops: select a task, claim it, execute it, persist
// the outcome and credit the worker.
type Service struct {
	config   Config
	tasks    *taskdao.Service
	ledger   *ledger.Service
	claim    *claim.Service
	selector *selector.Service
	logger   logrus.FieldLogger
	metrics  *metrics.Metrics
	events   *event.Service

	mux      sync.Mutex
	workers  []*worker
	workerWg sync.WaitGroup
}

type worker struct {
	id       string
	index    int
	service  *Service
	ctx      context.Context
	cancelFn context.CancelFunc
}

// New creates a worker loop service
func New(options ...Option) (*Service, error) {
	s := &Service{
		config: DefaultConfig(),
		logger: logging.Discard(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.tasks == nil {
		return nil, fmt.Errorf("task registry is required")
	}
	if s.ledger == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if s.claim == nil {
		return nil, fmt.Errorf("claim service is required")
	}
	if s.selector == nil {
		s.selector = selector.New(s.tasks, s.ledger)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches one loop per worker ID; every loop credits its own ID
func (s *Service) Start(ctx context.Context, workerIDs ...string) error {
	if len(workerIDs) == 0 {
		return fmt.Errorf("at least one worker id is required")
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	for _, workerID := range workerIDs {
		if workerID == "" {
			return claim.ErrInvalidIdentity
		}
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{
			id:       workerID,
			index:    len(s.workers),
			service:  s,
			ctx:      workerCtx,
			cancelFn: cancel,
		}
		s.workers = append(s.workers, w)
		s.workerWg.Add(1)
		go w.run()
	}
	return nil
}

// StartPool launches WorkerCount loops all crediting workerID
func (s *Service) StartPool(ctx context.Context, workerID string) error {
	workerIDs := make([]string, s.config.WorkerCount)
	for i := range workerIDs {
		workerIDs[i] = workerID
	}
	return s.Start(ctx, workerIDs...)
}

func (w *worker) run() {
	defer w.service.workerWg.Done()
	if err := w.service.Run(w.ctx, w.id); err != nil {
		w.service.logger.WithError(err).WithField("worker", w.index).Error("worker stopped")
	}
}

// Shutdown stops all loops started with Start and waits for running tasks to finish
func (s *Service) Shutdown() {
	s.mux.Lock()
	workers := s.workers
	s.workers = nil
	s.mux.Unlock()
	for _, w := range workers {
		w.cancelFn()
	}
	s.workerWg.Wait()
}

// Run loops until ctx is cancelled. Errors are logged and followed by the
// idle pause; a running task is always completed before Run returns.
func (s *Service) Run(ctx context.Context, workerID string) error {
	if workerID == "" {
		return claim.ErrInvalidIdentity
	}
	logger := s.logger.WithField("worker", workerID)
	for {
		if ctx.Err() != nil {
			return nil
		}
		processed, err := s.RunOnce(ctx, workerID)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.WithError(err).Warn("iteration failed")
			s.metrics.ObserveFailure("processor")
		}
		if processed {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.config.IdleInterval):
		}
	}
}

// RunOnce executes at most one task. processed is false when nothing was
// eligible, the lock was taken by someone else or the task changed meanwhile.
func (s *Service) RunOnce(ctx context.Context, workerID string) (processed bool, err error) {
	taskID, ok, err := s.selector.SelectNext(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to select task: %w", err)
	}
	if !ok {
		s.metrics.ObserveIdle(workerID)
		return false, nil
	}
	ctx, span := tracing.StartSpan(ctx, "processor.runOnce", tracing.KindInternal)
	span.WithAttributes(map[string]string{"taskID": taskID, "worker": workerID})
	defer func() { tracing.EndSpan(span, err) }()

	acquired, err := s.claim.WithLock(ctx, taskID, func(ctx context.Context) error {
		var err error
		processed, err = s.execute(ctx, workerID, taskID)
		return err
	})
	if !acquired && err == nil {
		s.logger.WithFields(logrus.Fields{"worker": workerID, "taskID": taskID}).Debug("lost task lock race")
	}
	return processed, err
}

// execute runs the task; the caller holds the task lock
func (s *Service) execute(ctx context.Context, workerID, taskID string) (bool, error) {
	aTask, err := s.tasks.Load(ctx, taskID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !aTask.IsEligible() {
		return false, nil
	}
	aTask.Start()
	if err = s.tasks.Save(ctx, aTask); err != nil {
		return false, fmt.Errorf("failed to mark task %v busy: %w", taskID, err)
	}

	logger := s.logger.WithFields(logrus.Fields{"worker": workerID, "taskID": taskID, "owner": aTask.Owner})
	logger.WithField("resumed", aTask.Machine.IsStarted()).Info("executing task")
	baseSteps := aTask.Steps
	var options []engine.Option
	if s.config.Verbose {
		options = append(options, engine.WithListener(func(step *engine.Step) error {
			logger.Debug(step.Snapshot())
			return nil
		}))
	}
	if every := s.config.CheckpointSteps; every > 0 {
		options = append(options, engine.WithListener(func(step *engine.Step) error {
			if step.Number%every != 0 {
				return nil
			}
			if claim.LockLost(ctx) {
				return claim.ErrLockLost
			}
			aTask.Machine.Tape, aTask.Machine.Head, aTask.Machine.CurrentState = step.Tape(), step.Head, step.State
			aTask.Checkpoint(baseSteps + step.Number)
			return s.tasks.Save(ctx, aTask)
		}))
	}

	started := clock.Now()
	outcome := engine.Run(aTask.Machine.Clone(), options...)
	if outcome.Halt == machine.HaltInterrupted {
		return false, fmt.Errorf("failed to checkpoint task %v: %w", taskID, outcome.Err)
	}
	if claim.LockLost(ctx) {
		logger.Warn("discarding outcome, task lock lost")
		return false, claim.ErrLockLost
	}
	outcome.Apply(aTask.Machine)
	aTask.Finish(outcome.Halt, baseSteps+outcome.Steps)
	if err = s.tasks.Save(ctx, aTask); err != nil {
		return false, fmt.Errorf("failed to save task %v outcome: %w", taskID, err)
	}
	if _, err = s.ledger.Credit(ctx, workerID); err != nil {
		return true, err
	}
	s.metrics.ObserveRun(workerID, string(outcome.Halt), outcome.Steps, clock.Since(started))
	s.events.Publish(event.Executed, "processor", workerID, aTask)
	logger.WithFields(logrus.Fields{"halt": outcome.Halt, "steps": outcome.Steps}).Info(outcome.String())
	return true, nil
}
