package testcatalog

import "time"

// Config holds configuration for catalog generation and the optional query
// run against a live server.
type Config struct {
	NumSongs int    // Number of songs to generate
	Seed     int64  // Seed for the feature generator
	Output   string // Catalog file; .csv, .db, .sqlite or .sqlite3
	Table    string // Table name for SQLite output

	BaseURL    string        // Base URL of a running server; empty skips the query run
	NumQueries int           // Number of recommendation queries to issue
	K          int           // Results requested per query
	Workers    int           // Number of concurrent query workers
	Timeout    time.Duration // HTTP request timeout
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// Stats holds run statistics.
type Stats struct {
	SongsGenerated   int
	QueriesIssued    int
	QueriesOK        int
	QueriesEmpty     int
	QueriesFailed    int
	VerificationErrs int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
