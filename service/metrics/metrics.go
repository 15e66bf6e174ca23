package metrics

import (
	"errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"time"
)

// DefaultNamespace prefixes every collector name
const DefaultNamespace = "tooring"

// Metrics groups the collectors updated by the claim protocol, the worker
// loop and the reclaimer. A nil *Metrics is valid and records nothing.
type Metrics struct {
	namespace string
	registry  *prometheus.Registry
	claims    *prometheus.CounterVec
	runs      *prometheus.CounterVec
	steps     prometheus.Counter
	duration  prometheus.Histogram
	idle      *prometheus.CounterVec
	reclaimed prometheus.Counter
	failures  *prometheus.CounterVec
}

// ObserveClaim counts a Schedule outcome
func (m *Metrics) ObserveClaim(result string) {
	if m == nil {
		return
	}
	m.claims.WithLabelValues(result).Inc()
}

// ObserveRun records an executed task
func (m *Metrics) ObserveRun(workerID, halt string, steps int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(workerID, halt).Inc()
	m.steps.Add(float64(steps))
	m.duration.Observe(elapsed.Seconds())
}

// ObserveIdle counts a worker iteration that found nothing to run
func (m *Metrics) ObserveIdle(workerID string) {
	if m == nil {
		return
	}
	m.idle.WithLabelValues(workerID).Inc()
}

// ObserveReclaimed counts busy flags cleared by a sweep
func (m *Metrics) ObserveReclaimed(count int) {
	if m == nil || count == 0 {
		return
	}
	m.reclaimed.Add(float64(count))
}

// ObserveFailure counts a store or engine error per component
func (m *Metrics) ObserveFailure(component string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(component).Inc()
}

// RegisterQueue exposes the depth and the dropped message count of an
// in-process queue as <name>_pending and <name>_dropped_total. Registering
// the same name twice is a no-op.
func (m *Metrics) RegisterQueue(name string, pending func() int, dropped func() int64) error {
	if m == nil {
		return nil
	}
	collectors := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: m.namespace,
			Name:      name + "_pending",
			Help:      "Messages waiting in the " + name + " queue",
		}, func() float64 { return float64(pending()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: m.namespace,
			Name:      name + "_dropped_total",
			Help:      "Messages discarded by the " + name + " queue, full or out of retries",
		}, func() float64 { return float64(dropped()) }),
	}
	for _, collector := range collectors {
		if err := m.registry.Register(collector); err != nil {
			var registered prometheus.AlreadyRegisteredError
			if errors.As(err, &registered) {
				continue
			}
			return err
		}
	}
	return nil
}

// Registry returns the registry holding all collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the /metrics HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// New creates collectors registered on a dedicated registry
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	ret := &Metrics{
		namespace: namespace,
		registry:  prometheus.NewRegistry(),
		claims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_total",
			Help:      "Schedule requests by result",
		}, []string{"result"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Executed tasks by worker and halt reason",
		}, []string{"worker", "halt"}),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Transitions applied by all runs",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Task execution time",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		idle: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idle_total",
			Help:      "Worker iterations without an eligible task",
		}, []string{"worker"}),
		reclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reclaimed_total",
			Help:      "Busy flags cleared after their executor lost the lock",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Errors by component",
		}, []string{"component"}),
	}
	ret.registry.MustRegister(ret.claims, ret.runs, ret.steps, ret.duration, ret.idle, ret.reclaimed, ret.failures)
	return ret
}
