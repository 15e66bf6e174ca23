package task

import "time"

type Option func(s *Service)

// WithTTL sets the expiry of unscheduled tasks; zero disables expiry
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}
