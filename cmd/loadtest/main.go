package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/runboard/internal/loadtest"
)

// Default configuration constants.
const (
	defaultNumEntries  = 1000
	defaultPageSize    = 100
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultMaxTime     = 3600
	defaultMaxItems    = 100
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numEntries = flag.Int("entries", defaultNumEntries, "Number of entries to generate and submit")
		pageSize   = flag.Int("page", defaultPageSize, "Page size for the paged read check; 0 disables it")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		maxTime    = flag.Int64("max-time", defaultMaxTime, "Upper bound for generated run times")
		maxItems   = flag.Int("max-items", defaultMaxItems, "Upper bound for generated item counts")
		outputFile = flag.String("output", "", "Output file for generated entries")
		logFile    = flag.String("log", "", "Log file for test output")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return
	}

	if err := loadtest.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &loadtest.Config{
		BaseURL:    *baseURL,
		NumEntries: *numEntries,
		PageSize:   *pageSize,
		Workers:    max(*workers, 1),
		Timeout:    *timeout,
		MaxTime:    *maxTime,
		MaxItems:   *maxItems,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if _, err := loadtest.Run(ctx, config); err != nil {
		cancel()
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
