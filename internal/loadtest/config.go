// Package loadtest submits random runs to a running leaderboard service and
// verifies that reads come back complete and in leaderboard order.
package loadtest

import (
	"errors"
	"time"
)

// Verification failures.
var (
	ErrUnhealthy     = errors.New("service unhealthy")
	ErrNotOrdered    = errors.New("leaderboard not ordered")
	ErrMissingEntry  = errors.New("submitted entry missing")
	ErrPageMismatch  = errors.New("paged read differs from full read")
	ErrFilterLeak    = errors.New("hardmode filter returned a non-hardmode entry")
	ErrNoSubmissions = errors.New("no submissions accepted")
)

// Config holds configuration for a load test run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumEntries int           // Number of entries to generate
	PageSize   int           // Page size used for the paged read check
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	MaxTime    int64         // Upper bound for generated run times
	MaxItems   int           // Upper bound for generated item counts
	OutputFile string        // Output file for generated entries; empty skips saving
	Verbose    bool          // Enable verbose logging
}

// Stats holds run statistics.
type Stats struct {
	EntriesGenerated   int
	EntriesSubmitted   int
	EntriesSuccessful  int
	EntriesFailed      int
	LeaderboardEntries int
	PagesRead          int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
