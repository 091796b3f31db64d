package testcatalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/songsim/pkg/logger"
)

// Run generates a catalog, writes it, and optionally exercises a running
// server with recommendation queries.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting catalog run",
		logger.Int("songs", config.NumSongs),
		logger.Any("seed", config.Seed),
		logger.String("output", config.Output),
		logger.String("baseURL", config.BaseURL),
		logger.Int("queries", config.NumQueries),
		logger.Int("workers", config.Workers))

	songs := Generate(config.NumSongs, config.Seed)
	stats.SongsGenerated = len(songs)

	if config.Output != "" {
		if err := WriteCatalog(ctx, config.Output, config.Table, songs); err != nil {
			return fmt.Errorf("catalog write failed: %w", err)
		}
	}

	if config.BaseURL != "" && config.NumQueries > 0 {
		if err := checkServiceHealth(ctx, config); err != nil {
			return fmt.Errorf("service health check failed: %w", err)
		}
		queries := buildQueries(songs, config.NumQueries, config.K, config.Seed)
		if err := issueQueries(ctx, config, queries, stats); err != nil {
			return fmt.Errorf("query run failed: %w", err)
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.VerificationErrs > 0 {
		return fmt.Errorf("%w: %d responses failed verification", ErrInvalidResponse, stats.VerificationErrs)
	}
	return nil
}

// checkServiceHealth verifies the server is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats logs the run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, queriesPerSecond float64

	if stats.QueriesIssued > 0 {
		successRate = float64(stats.QueriesOK+stats.QueriesEmpty) / float64(stats.QueriesIssued) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		queriesPerSecond = float64(stats.QueriesIssued) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("songsGenerated", stats.SongsGenerated),
		logger.Int("queriesIssued", stats.QueriesIssued),
		logger.Int("queriesOK", stats.QueriesOK),
		logger.Int("queriesEmpty", stats.QueriesEmpty),
		logger.Int("queriesFailed", stats.QueriesFailed),
		logger.Int("verificationErrors", stats.VerificationErrs),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("queriesPerSecond", queriesPerSecond))
}
