package tooring

import (
	"context"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/tooring/internal/idgen"
	"github.com/viant/tooring/internal/logging"
	"github.com/viant/tooring/model/machine"
	"github.com/viant/tooring/model/task"
	"github.com/viant/tooring/service/claim"
	"github.com/viant/tooring/service/dao"
	taskdao "github.com/viant/tooring/service/dao/task"
	"github.com/viant/tooring/service/document"
	"github.com/viant/tooring/service/event"
	"github.com/viant/tooring/service/ledger"
	"github.com/viant/tooring/service/metrics"
	"github.com/viant/tooring/service/processor"
	"github.com/viant/tooring/service/reclaimer"
	"github.com/viant/tooring/service/store"
	"github.com/viant/tooring/service/store/consul"
	"github.com/viant/tooring/service/store/memory"
	"net/http"
)

// Store entry names shared by every process of a cluster
const (
	TasksName  = "tasks"
	LocksName  = "tasks"
	ScoresName = "scores"
)

// Service wires the registry, ledger, claim protocol, worker loops and
// reclaimer on top of a shared store.
type Service struct {
	config    *Config
	store     store.Store
	logger    logrus.FieldLogger
	metrics   *metrics.Metrics
	fs        afs.Service
	workers   int
	initErr   error
	documents *document.Service
	events    *event.Service
	tasks     *taskdao.Service
	ledger    *ledger.Service
	claim     *claim.Service
	processor *processor.Service
	reclaimer *reclaimer.Service
}

func (s *Service) init() error {
	if s.initErr != nil {
		return s.initErr
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.store == nil {
		var err error
		if s.store, err = newStore(&s.config.Store); err != nil {
			return err
		}
	}
	if s.metrics == nil {
		s.metrics = metrics.New(s.config.MetricsNamespace)
	}
	var docOptions []document.Option
	if s.fs != nil {
		docOptions = append(docOptions, document.WithFS(s.fs))
	}
	s.documents = document.New(docOptions...)
	s.events = event.New(event.WithMetrics(s.metrics))
	s.tasks = taskdao.New(s.store.Map(TasksName), taskdao.WithTTL(s.config.TaskTTL))
	s.ledger = ledger.New(s.store.Counter(ScoresName))
	claimConfig := s.config.Claim
	s.claim = claim.New(s.tasks, s.ledger, s.store.Locker(LocksName),
		claim.WithConfig(&claimConfig),
		claim.WithLogger(s.logger.WithField("component", "claim")),
		claim.WithMetrics(s.metrics),
		claim.WithEvents(s.events))

	processorConfig := s.config.Processor
	if s.workers > 0 {
		processorConfig.WorkerCount = s.workers
	}
	var err error
	s.processor, err = processor.New(
		processor.WithConfig(processorConfig),
		processor.WithTaskDAO(s.tasks),
		processor.WithLedger(s.ledger),
		processor.WithClaim(s.claim),
		processor.WithLogger(s.logger.WithField("component", "processor")),
		processor.WithMetrics(s.metrics),
		processor.WithEvents(s.events))
	if err != nil {
		return fmt.Errorf("failed to create processor: %w", err)
	}
	s.reclaimer = reclaimer.New(s.tasks, s.claim,
		reclaimer.WithConfig(s.config.Reclaimer),
		reclaimer.WithLogger(s.logger.WithField("component", "reclaimer")),
		reclaimer.WithMetrics(s.metrics),
		reclaimer.WithEvents(s.events))
	return nil
}

func newStore(config *StoreConfig) (store.Store, error) {
	switch config.Backend {
	case StoreConsul:
		ret, err := consul.New(config.Consul)
		if err != nil {
			return nil, err
		}
		return ret, nil
	default:
		return memory.New(), nil
	}
}

// Submit registers a copy of the machine as a new task and returns its ID
func (s *Service) Submit(ctx context.Context, m *machine.Machine) (string, error) {
	if m == nil {
		return "", ErrInvalidMachine
	}
	m = m.Clone()
	if err := m.Validate(); err != nil {
		return "", err
	}
	aTask := task.NewTask(idgen.New(), m)
	if err := s.tasks.Create(ctx, aTask); err != nil {
		return "", fmt.Errorf("failed to submit task: %w", err)
	}
	s.logger.WithField("taskID", aTask.ID).Info("task submitted")
	s.events.Publish(event.Submitted, "service", "", aTask)
	return aTask.ID, nil
}

// SubmitURL loads a machine document and submits it
func (s *Service) SubmitURL(ctx context.Context, URL string) (string, error) {
	m, err := s.documents.LoadMachine(ctx, URL)
	if err != nil {
		return "", err
	}
	return s.Submit(ctx, m)
}

// Schedule queues the task on behalf of requesterID, see claim.Service.Schedule
func (s *Service) Schedule(ctx context.Context, requesterID, taskID string) (claim.Result, error) {
	return s.claim.Schedule(ctx, requesterID, taskID)
}

// Fetch returns the current task document; Done reports whether the tape is final
func (s *Service) Fetch(ctx context.Context, taskID string) (*document.Result, error) {
	aTask, err := s.tasks.Load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return document.NewResult(aTask), nil
}

// Export fetches the task document and writes it to URL
func (s *Service) Export(ctx context.Context, taskID, URL string) (*document.Result, error) {
	result, err := s.Fetch(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return result, s.documents.SaveResult(ctx, URL, result)
}

// Consume fetches the task document and removes the task from the registry.
// It fails with ErrTaskLocked while another process holds the task.
func (s *Service) Consume(ctx context.Context, taskID string) (*document.Result, error) {
	var result *document.Result
	acquired, err := s.claim.WithLock(ctx, taskID, func(ctx context.Context) error {
		aTask, err := s.tasks.Load(ctx, taskID)
		if err != nil {
			return err
		}
		if err = s.tasks.Delete(ctx, taskID); err != nil {
			return fmt.Errorf("failed to remove task %v: %w", taskID, err)
		}
		result = document.NewResult(aTask)
		s.events.Publish(event.Consumed, "service", "", aTask)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, fmt.Errorf("failed to consume %v: %w", taskID, ErrTaskLocked)
	}
	s.logger.WithFields(logrus.Fields{"taskID": taskID, "done": result.Done}).Info("task consumed")
	return result, nil
}

// Score returns the identity credit score
func (s *Service) Score(ctx context.Context, identity string) (int64, error) {
	return s.ledger.Score(ctx, identity)
}

// StartWorkers launches the configured number of worker loops crediting workerID
func (s *Service) StartWorkers(ctx context.Context, workerID string) error {
	return s.processor.StartPool(ctx, workerID)
}

// RunWorker runs a single worker loop until ctx is cancelled
func (s *Service) RunWorker(ctx context.Context, workerID string) error {
	return s.processor.Run(ctx, workerID)
}

// RunOnce executes at most one task on behalf of workerID
func (s *Service) RunOnce(ctx context.Context, workerID string) (bool, error) {
	return s.processor.RunOnce(ctx, workerID)
}

// StartReclaimer runs the stale lock reclaimer in the background until ctx is
// cancelled or Shutdown is called
func (s *Service) StartReclaimer(ctx context.Context) {
	go func() {
		if err := s.reclaimer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.WithError(err).Error("reclaimer stopped")
		}
	}()
}

// Reclaim runs a single reclaimer sweep
func (s *Service) Reclaim(ctx context.Context) (int, error) {
	return s.reclaimer.Sweep(ctx)
}

// Shutdown stops background loops, waiting for running tasks to finish
func (s *Service) Shutdown() {
	s.reclaimer.Shutdown()
	s.processor.Shutdown()
	s.events.Stop()
}

// OnEvent delivers lifecycle events of tasks handled by this process to
// handler, on a dedicated goroutine; a nil handler stops delivery. Events
// are dropped when the handler falls behind; an event the handler fails is
// redelivered a bounded number of times.
func (s *Service) OnEvent(handler event.Handler[event.Task]) {
	s.events.SetListener(handler)
}

// Tasks lists registered tasks matching the parameters, see criteria
func (s *Service) Tasks(ctx context.Context, parameters ...*dao.Parameter) ([]*task.Task, error) {
	return s.tasks.List(ctx, parameters...)
}

// Documents returns the document service
func (s *Service) Documents() *document.Service {
	return s.documents
}

// Metrics returns the prometheus collectors
func (s *Service) Metrics() *metrics.Metrics {
	return s.metrics
}

// MetricsHandler returns the /metrics endpoint handler
func (s *Service) MetricsHandler() http.Handler {
	return s.metrics.Handler()
}

// New creates a service
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if err := ret.init(); err != nil {
		return nil, err
	}
	return ret, nil
}
