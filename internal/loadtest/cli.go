package loadtest

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/runboard/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initializes the global logger, writing to stdout and, when
// logFile is set, to that file as well.
func SetupLogging(logFile string, verbose bool) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	if err := logger.Init(logger.WithWriter(out)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the load test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Runboard Load Test
==================

Submits random runs concurrently, then checks that the leaderboard returns
every accepted entry in order, that the hardmode filter holds, and that a
paged walk matches a full read.

Usage:
  go run ./cmd/loadtest [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -entries int
        Number of entries to generate and submit (default 1000)
  -page int
        Page size for the paged read check, 0 disables it (default 100)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -max-time int
        Upper bound for generated run times (default 3600)
  -max-items int
        Upper bound for generated item counts (default 100)
  -output string
        Output file for generated entries
  -log string
        Log file for test output
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/loadtest -entries 5000 -workers 16 -url http://localhost:8080
  go run ./cmd/loadtest -verbose -max-time 60
`)
}
