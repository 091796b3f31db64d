// Package config defines process configuration and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and the environment on top of the defaults.
// - Failures are wrapped with this package's sentinel errors.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPath points at the song catalog (.csv, .db, .sqlite, .sqlite3).
	CatalogPath string `koanf:"catalog_path"`

	// CatalogTable names the table read from SQLite catalogs.
	CatalogTable string `koanf:"catalog_table"`

	// ReferenceYear is the year song age is measured against.
	ReferenceYear int `koanf:"reference_year"`

	// ZeroVariancePolicy is "zero" or "fail".
	ZeroVariancePolicy string `koanf:"zero_variance_policy"`

	// DefaultK is used when a query does not ask for a count.
	DefaultK int `koanf:"default_k"`

	// MaxK caps the number of recommendations per query.
	MaxK int `koanf:"max_k"`

	// ResultCacheSize bounds the recommendation LRU. Zero disables it.
	ResultCacheSize int `koanf:"result_cache_size"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLabels are attached to every metric as constant labels.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsLatencyBuckets are the recommend and HTTP latency histogram
	// bounds in milliseconds. Empty keeps the Prometheus defaults.
	MetricsLatencyBuckets []float64 `koanf:"metrics_latency_buckets"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		CatalogPath:        "song_data.csv",
		CatalogTable:       "songs",
		ReferenceYear:      2025,
		ZeroVariancePolicy: "zero",
		DefaultK:           5,
		MaxK:               20,
		ResultCacheSize:    1024,
		MetricsNamespace:   "songsim",
		MetricsSubsystem:   "recommender",
	}
}
