package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/songsim/internal/testcatalog"
)

// Default configuration constants.
const (
	defaultNumSongs   = 5000
	defaultNumQueries = 1000
	defaultK          = 5
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		numSongs   = flag.Int("songs", defaultNumSongs, "Number of songs to generate")
		seed       = flag.Int64("seed", 1, "Generator seed")
		output     = flag.String("output", "song_data.csv", "Catalog file (.csv, .db, .sqlite, .sqlite3)")
		table      = flag.String("table", "songs", "Table name for SQLite output")
		baseURL    = flag.String("url", "", "Base URL of a running server; empty skips the query run")
		numQueries = flag.Int("queries", defaultNumQueries, "Number of recommendation queries to issue")
		k          = flag.Int("k", defaultK, "Results per query")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent query workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile    = flag.String("log", "", "Also write logs to this file")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testcatalog.ShowHelp()
		return
	}

	if err := testcatalog.SetupLogging(*logFile, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &testcatalog.Config{
		NumSongs:   *numSongs,
		Seed:       *seed,
		Output:     *output,
		Table:      *table,
		BaseURL:    *baseURL,
		NumQueries: *numQueries,
		K:          *k,
		Workers:    max(*workers, 1),
		Timeout:    *timeout,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if err := testcatalog.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Run failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // cancel already called
	}
}
