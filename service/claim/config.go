package claim

import (
	"fmt"
	"time"
)

// Config represents task lock settings
type Config struct {
	// LockWait bounds how long a claim waits for a task lock
	LockWait time.Duration `json:"lockWait,omitempty" yaml:"lockWait,omitempty"`
	// LockHold bounds how long a lock survives its crashed holder; a live
	// holder renews it every third of LockHold
	LockHold time.Duration `json:"lockHold,omitempty" yaml:"lockHold,omitempty"`
}

// DefaultConfig returns the default lock settings
func DefaultConfig() *Config {
	return &Config{
		LockWait: 100 * time.Millisecond,
		LockHold: 30 * time.Second,
	}
}

// RenewInterval returns how often a live holder renews its lock, zero when locks never lapse
func (c *Config) RenewInterval() time.Duration {
	return c.LockHold / 3
}

// Validate checks the settings
func (c *Config) Validate() error {
	if c.LockWait < 0 {
		return fmt.Errorf("lockWait must not be negative: %v", c.LockWait)
	}
	if c.LockHold < 0 {
		return fmt.Errorf("lockHold must not be negative: %v", c.LockHold)
	}
	return nil
}
