package testcatalog

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/songsim/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging initializes the logger, writing to stdout and, when logFile
// is set, to that file as well.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}

	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the catalog generator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`songsim catalog generator
=========================

Writes a synthetic song catalog and, optionally, checks a running
"songsim serve" by issuing recommendation queries against it.

Usage:
  go run ./cmd/gen-catalog [options]

Options:
  -songs int       Number of songs to generate (default 5000)
  -seed int        Generator seed (default 1)
  -output string   Catalog file, .csv or .db/.sqlite/.sqlite3 (default "song_data.csv")
  -table string    Table name for SQLite output (default "songs")
  -url string      Base URL of a running server; empty skips the query run
  -queries int     Number of queries to issue (default 1000)
  -k int           Results per query (default 5)
  -workers int     Concurrent query workers (default CPU cores * 2)
  -timeout dur     HTTP request timeout (default 30s)
  -log string      Also write logs to this file
  -verbose         Enable debug logging
  -help            Show this help message

Examples:
  go run ./cmd/gen-catalog -songs 20000 -output data/songs.sqlite
  go run ./cmd/gen-catalog -url http://localhost:9080 -queries 5000
`)
}
