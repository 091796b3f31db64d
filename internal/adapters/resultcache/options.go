package resultcache

// DefaultSize is the capacity used when WithSize is not given.
const DefaultSize = 1024

type settings struct {
	size int
}

// Option configures a Cache.
type Option func(*settings)

// WithSize sets the maximum number of cached results. Zero disables caching.
func WithSize(size int) Option {
	return func(s *settings) {
		s.size = size
	}
}
