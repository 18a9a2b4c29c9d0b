package services

import "time"

// ServiceOption is a functional option applied to the shared BaseService of any service.
type ServiceOption func(*BaseService)

// WithClock overrides the time source, mainly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

func applyOptions(base *BaseService, options []ServiceOption) {
	for _, option := range options {
		option(base)
	}
}
