package tooring

import (
	"github.com/sirupsen/logrus"
	"github.com/viant/afs"
	"github.com/viant/tooring/service/metrics"
	"github.com/viant/tooring/service/store"
	"github.com/viant/tooring/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option represents a service option
type Option func(s *Service)

// WithConfig sets the service configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithStore sets the shared store; it takes precedence over Config.Store
func WithStore(aStore store.Store) Option {
	return func(s *Service) {
		s.store = aStore
	}
}

// WithLogger sets the logger shared by all components
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the prometheus collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithFS sets the storage service used for documents
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithWorkers sets the number of worker loops started by StartWorkers
func WithWorkers(count int) Option {
	return func(s *Service) {
		s.workers = count
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			s.initErr = err
		}
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom SpanExporter (OTLP, Jaeger, ...)
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if err := tracing.InitWithExporter(serviceName, serviceVersion, exporter); err != nil {
			s.initErr = err
		}
	}
}
