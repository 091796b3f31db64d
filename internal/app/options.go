package service

import (
	"github.com/okian/songsim/internal/adapters/catalog"
	"github.com/okian/songsim/internal/domain/normalize"
	"github.com/okian/songsim/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the catalog source read by Load.
func WithSource(src catalog.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReferenceYear sets the year song age is measured against.
func WithReferenceYear(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.referenceYear = year
		}
	}
}

// WithZeroVariancePolicy sets how constant feature columns are handled.
func WithZeroVariancePolicy(p normalize.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithMaxK caps the number of recommendations per query.
func WithMaxK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.maxK = k
		}
	}
}

// WithDefaultK sets the count used by callers that do not ask for one.
func WithDefaultK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.defaultK = k
		}
	}
}

// WithResultCacheSize bounds the result cache. Zero disables it.
func WithResultCacheSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.cacheSize = size
		}
	}
}
