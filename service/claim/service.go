package claim

import (
	"context"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"github.com/viant/tooring/internal/logging"
	"github.com/viant/tooring/service/dao"
	taskdao "github.com/viant/tooring/service/dao/task"
	"github.com/viant/tooring/service/event"
	"github.com/viant/tooring/service/ledger"
	"github.com/viant/tooring/service/metrics"
	"github.com/viant/tooring/service/store"
	"github.com/viant/tooring/tracing"
	"sync"
	"time"
)

var (
	// ErrInvalidIdentity is returned when scheduling without a requester
	ErrInvalidIdentity = errors.New("claim: invalid identity")

	// ErrLockLost is returned when the task lock lapsed while its holder was running
	ErrLockLost = errors.New("claim: task lock lost")
)

// Service guards every task mutation with the per task lock
type Service struct {
	tasks   *taskdao.Service
	ledger  *ledger.Service
	locker  store.Locker
	config  *Config
	logger  logrus.FieldLogger
	metrics *metrics.Metrics
	events  *event.Service
}

// Schedule queues taskID on behalf of requesterID and debits the requester.
// Store failures are returned with Contended when the lock was never taken.
func (s *Service) Schedule(ctx context.Context, requesterID, taskID string) (ret Result, err error) {
	if requesterID == "" {
		return NotFound, ErrInvalidIdentity
	}
	ctx, span := tracing.StartSpan(ctx, "claim.schedule", tracing.KindInternal)
	span.WithAttributes(map[string]string{"taskID": taskID, "requester": requesterID})
	defer func() {
		tracing.EndSpan(span, err)
		s.metrics.ObserveClaim(ret.String())
	}()

	ret = Contended
	acquired, err := s.WithLock(ctx, taskID, func(ctx context.Context) error {
		aTask, err := s.tasks.Load(ctx, taskID)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				ret = NotFound
				return nil
			}
			return err
		}
		switch {
		case aTask.Done:
			ret = AlreadyDone
		case aTask.Scheduled:
			ret = AlreadyScheduled
		default:
			aTask.Schedule(requesterID)
			if err = s.tasks.Save(ctx, aTask); err != nil {
				return err
			}
			if _, err = s.ledger.Debit(ctx, requesterID); err != nil {
				return err
			}
			ret = Scheduled
			s.events.Publish(event.Scheduled, "claim", requesterID, aTask)
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveFailure("claim")
		return ret, err
	}
	if !acquired {
		s.logger.WithField("taskID", taskID).Debug("task lock contended")
	}
	s.logger.WithFields(logrus.Fields{"taskID": taskID, "requester": requesterID, "result": ret}).Debug("schedule")
	return ret, nil
}

// WithLock runs fn while holding the task lock, waiting at most the
// configured LockWait. It returns false without calling fn when the lock was
// not acquired; the lock is released on every path once taken.
func (s *Service) WithLock(ctx context.Context, taskID string, fn func(ctx context.Context) error) (bool, error) {
	return s.WithLockWait(ctx, taskID, s.config.LockWait, fn)
}

// WithLockWait is WithLock with an explicit wait budget. The lease is renewed
// every RenewInterval while fn runs; if it is lost anyway, the context passed
// to fn is cancelled with ErrLockLost as its cause and ErrLockLost is returned.
func (s *Service) WithLockWait(ctx context.Context, taskID string, wait time.Duration, fn func(ctx context.Context) error) (acquired bool, err error) {
	if taskID == "" {
		return false, dao.ErrInvalidID
	}
	lease, err := s.locker.TryLock(ctx, taskID, wait, s.config.LockHold)
	if err != nil {
		return false, fmt.Errorf("failed to lock task %v: %w", taskID, err)
	}
	if lease == nil {
		return false, nil
	}
	fnCtx, cancel := context.WithCancelCause(ctx)
	done := make(chan struct{})
	lost := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if !s.keepAlive(fnCtx, lease, done) {
			close(lost)
			cancel(ErrLockLost)
		}
	}()
	defer func() {
		close(done)
		wg.Wait()
		cancel(nil)
		// released even when ctx is already cancelled
		if rErr := lease.Release(context.Background()); rErr != nil && !errors.Is(rErr, store.ErrNotHeld) {
			s.logger.WithError(rErr).WithField("taskID", taskID).Warn("failed to release task lock")
		}
		select {
		case <-lost:
			if err == nil {
				err = fmt.Errorf("failed to hold task %v: %w", taskID, ErrLockLost)
			}
		default:
		}
	}()
	return true, fn(fnCtx)
}

// keepAlive renews lease until done is closed; it returns false once the lease is lost
func (s *Service) keepAlive(ctx context.Context, lease store.Lease, done <-chan struct{}) bool {
	var tick <-chan time.Time
	if interval := s.config.RenewInterval(); interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	logger := s.logger.WithField("taskID", lease.Key())
	for {
		select {
		case <-done:
			return true
		case <-lease.Lost():
			logger.Error("task lock lost while running")
			s.metrics.ObserveFailure("lock")
			return false
		case <-tick:
			if err := lease.Renew(ctx, s.config.LockHold); err != nil {
				logger.WithError(err).Error("failed to renew task lock")
				s.metrics.ObserveFailure("lock")
				return false
			}
		}
	}
}

// LockLost reports whether ctx, as passed to a WithLock function, was
// cancelled because the task lock was lost
func LockLost(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrLockLost)
}

// IsLocked returns true when any process holds the task lock
func (s *Service) IsLocked(ctx context.Context, taskID string) (bool, error) {
	return s.locker.IsLocked(ctx, taskID)
}

// New creates a claim service
func New(tasks *taskdao.Service, ledger *ledger.Service, locker store.Locker, options ...Option) *Service {
	ret := &Service{
		tasks:  tasks,
		ledger: ledger,
		locker: locker,
		config: DefaultConfig(),
		logger: logging.Discard(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}
