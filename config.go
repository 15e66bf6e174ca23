package tooring

import (
	"context"
	"fmt"
	"github.com/viant/tooring/service/claim"
	"github.com/viant/tooring/service/dao/task"
	"github.com/viant/tooring/service/document"
	"github.com/viant/tooring/service/processor"
	"github.com/viant/tooring/service/reclaimer"
	"github.com/viant/tooring/service/store/consul"
	"time"
)

const (
	// StoreMemory keeps all state in process
	StoreMemory = "memory"
	// StoreConsul shares state through a consul agent
	StoreConsul = "consul"
)

// Config is a serialisable representation of the service configuration. It
// is usually loaded from YAML, where durations are written as "100ms" or "12h".
// Zero nested values fall back to package defaults.
type Config struct {
	Store     StoreConfig      `json:"store" yaml:"store"`
	Claim     claim.Config     `json:"claim" yaml:"claim"`
	Processor processor.Config `json:"processor" yaml:"processor"`
	Reclaimer reclaimer.Config `json:"reclaimer" yaml:"reclaimer"`
	// TaskTTL is how long a submitted task survives without being scheduled
	TaskTTL time.Duration `json:"taskTTL,omitempty" yaml:"taskTTL,omitempty"`
	Log     LogConfig     `json:"log" yaml:"log"`
	// MetricsNamespace prefixes every exported prometheus metric
	MetricsNamespace string `json:"metricsNamespace,omitempty" yaml:"metricsNamespace,omitempty"`
}

// StoreConfig selects the shared store backend
type StoreConfig struct {
	Backend string         `json:"backend,omitempty" yaml:"backend,omitempty"`
	Consul  *consul.Config `json:"consul,omitempty" yaml:"consul,omitempty"`
}

// LogConfig represents logger settings, see NewLogger
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify the returned struct before passing it to WithConfig.
func DefaultConfig() *Config {
	return &Config{
		Store:            StoreConfig{Backend: StoreMemory},
		Claim:            *claim.DefaultConfig(),
		Processor:        processor.DefaultConfig(),
		Reclaimer:        reclaimer.DefaultConfig(),
		TaskTTL:          task.DefaultTTL,
		Log:              LogConfig{Level: "info", Format: LogFormatText},
		MetricsNamespace: "tooring",
	}
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Store.Backend {
	case "", StoreMemory, StoreConsul:
	default:
		return fmt.Errorf("unsupported store backend: %v", c.Store.Backend)
	}
	if err := c.Claim.Validate(); err != nil {
		return fmt.Errorf("invalid claim config: %w", err)
	}
	if err := c.Processor.Validate(); err != nil {
		return fmt.Errorf("invalid processor config: %w", err)
	}
	if c.Reclaimer.Interval <= 0 {
		return fmt.Errorf("reclaimer.interval must be positive: %v", c.Reclaimer.Interval)
	}
	if c.TaskTTL < 0 {
		return fmt.Errorf("taskTTL must not be negative: %v", c.TaskTTL)
	}
	return nil
}

// LoadConfig loads a YAML or JSON config document from any afs supported URL
// on top of DefaultConfig. ${env.KEY} expressions are expanded before decoding.
func LoadConfig(ctx context.Context, URL string, options ...document.Option) (*Config, error) {
	ret := DefaultConfig()
	if err := document.New(options...).Load(ctx, URL, ret); err != nil {
		return nil, err
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}
