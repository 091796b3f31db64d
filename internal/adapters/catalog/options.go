package catalog

import "github.com/okian/songsim/pkg/logger"

const defaultTable = "songs"

type settings struct {
	table  string
	logger logger.Logger
}

func newSettings(opts []Option) settings {
	s := settings{table: defaultTable}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a Source.
type Option func(*settings)

// WithTable sets the table read by SQLite sources. Empty names are ignored.
func WithTable(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.table = name
		}
	}
}

// WithLogger sets the logger used to report load progress.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}
