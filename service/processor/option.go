package processor

import (
	"github.com/sirupsen/logrus"
	"github.com/viant/tooring/service/claim"
	taskdao "github.com/viant/tooring/service/dao/task"
	"github.com/viant/tooring/service/event"
	"github.com/viant/tooring/service/ledger"
	"github.com/viant/tooring/service/metrics"
	"github.com/viant/tooring/service/selector"
)

type Option func(*Service)

// WithTaskDAO sets the task registry
func WithTaskDAO(tasks *taskdao.Service) Option {
	return func(s *Service) {
		s.tasks = tasks
	}
}

// WithLedger sets the credit ledger
func WithLedger(ledger *ledger.Service) Option {
	return func(s *Service) {
		s.ledger = ledger
	}
}

// WithClaim sets the claim service guarding task mutations
func WithClaim(claim *claim.Service) Option {
	return func(s *Service) {
		s.claim = claim
	}
}

// WithSelector overrides the default fair share selector
func WithSelector(selector *selector.Service) Option {
	return func(s *Service) {
		s.selector = selector
	}
}

// WithWorkers sets the number of loops the façade starts
func WithWorkers(count int) Option {
	return func(s *Service) {
		s.config.WorkerCount = count
	}
}

// WithConfig sets the configuration for the service
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithEvents sets the lifecycle event publisher
func WithEvents(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}
