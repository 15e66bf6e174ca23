package event

import (
	"github.com/viant/tooring/service/messaging"
	"github.com/viant/tooring/service/metrics"
)

type Option func(s *Service)

// WithQueue sets the queue carrying events to the listener
func WithQueue(queue messaging.Queue[Event[Task]]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}
