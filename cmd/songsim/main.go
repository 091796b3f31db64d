package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/songsim/internal/adapters/catalog"
	"github.com/okian/songsim/internal/adapters/cli"
	service "github.com/okian/songsim/internal/app"
	"github.com/okian/songsim/internal/config"
	"github.com/okian/songsim/internal/domain/normalize"
	"github.com/okian/songsim/pkg/logger"
	"github.com/okian/songsim/pkg/metrics"
)

var (
	// version is set at build time with -ldflags.
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	catalog    string
	table      string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		cli.ShowError(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var gf globalFlags

	rootCmd := &cobra.Command{
		Use:           "songsim",
		Short:         "Content-based song recommendations",
		Long:          "songsim recommends songs with audio features close to a chosen song.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&gf.configFile, "config", "", "YAML config file (overrides "+config.EnvFile+")")
	rootCmd.PersistentFlags().StringVar(&gf.catalog, "catalog", "", "Catalog file (.csv, .db, .sqlite, .sqlite3)")
	rootCmd.PersistentFlags().StringVar(&gf.table, "table", "", "Table name for SQLite catalogs")
	rootCmd.PersistentFlags().StringVar(&gf.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newRecommendCmd(&gf))
	rootCmd.AddCommand(newServeCmd(&gf))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "songsim %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// loadConfig layers command-line flags over the file and environment.
func loadConfig(ctx context.Context, gf *globalFlags) (*config.Config, error) {
	if gf.configFile != "" {
		if err := os.Setenv(config.EnvFile, gf.configFile); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	if gf.catalog != "" {
		cfg.CatalogPath = gf.catalog
	}
	if gf.table != "" {
		cfg.CatalogTable = gf.table
	}
	if gf.logLevel != "" {
		cfg.LogLevel = gf.logLevel
	}
	return cfg, cfg.Validate()
}

// setupLogging sends logs to stderr so stdout carries only results.
func setupLogging(ctx context.Context, cfg *config.Config) error {
	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

// setupMetrics rebuilds the metrics registry with the configured names and
// labels. It must run before the HTTP handlers are created.
func setupMetrics(cfg *config.Config) {
	metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithCustomLabels(cfg.MetricsLabels),
		metrics.WithHistogramBuckets(cfg.MetricsLatencyBuckets),
	)
}

// newService builds a recommender over the configured catalog. The catalog
// is not loaded yet.
func newService(cfg *config.Config) (*service.Service, error) {
	policy, err := normalize.ParsePolicy(cfg.ZeroVariancePolicy)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	src, err := catalog.NewSource(cfg.CatalogPath,
		catalog.WithTable(cfg.CatalogTable),
		catalog.WithLogger(log.Named("catalog")),
	)
	if err != nil {
		return nil, err
	}

	return service.New(
		service.WithSource(src),
		service.WithLogger(log.Named("recommender")),
		service.WithReferenceYear(cfg.ReferenceYear),
		service.WithZeroVariancePolicy(policy),
		service.WithMaxK(cfg.MaxK),
		service.WithDefaultK(cfg.DefaultK),
		service.WithResultCacheSize(cfg.ResultCacheSize),
	), nil
}

// bootstrap runs the shared startup sequence of every catalog-backed command.
func bootstrap(ctx context.Context, gf *globalFlags) (*config.Config, *service.Service, error) {
	cfg, err := loadConfig(ctx, gf)
	if err != nil {
		return nil, nil, err
	}
	if err := setupLogging(ctx, cfg); err != nil {
		return nil, nil, err
	}
	setupMetrics(cfg)
	svc, err := newService(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := svc.Load(ctx); err != nil {
		return nil, nil, fmt.Errorf("load catalog %s: %w", cfg.CatalogPath, err)
	}
	return cfg, svc, nil
}
