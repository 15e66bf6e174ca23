package claim

import (
	"github.com/sirupsen/logrus"
	"github.com/viant/tooring/service/event"
	"github.com/viant/tooring/service/metrics"
)

type Option func(s *Service)

func WithConfig(config *Config) Option {
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
