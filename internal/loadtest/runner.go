package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/runboard/internal/domain/model"
	"github.com/okian/runboard/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

const percentageMultiplier = 100

// Run executes the complete load test and returns the collected statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting runboard load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("entries", config.NumEntries),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Int("pageSize", config.PageSize))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, err
	}

	// Step 2: Generate entries
	subs, err := generateEntries(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("entry generation failed: %w", err)
	}

	// Step 3: Submit entries concurrently
	accepted := submitEntries(ctx, config, client, subs, stats)
	if len(subs) > 0 && len(accepted) == 0 {
		return stats, ErrNoSubmissions
	}

	// Step 4: Read back and verify
	if err := verifyResults(ctx, config, client, accepted, stats); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	// Step 5: Save entries to file
	if config.OutputFile != "" {
		if err := saveEntriesToFile(ctx, config.OutputFile, subs); err != nil {
			log.Warn(ctx, "failed to save entries to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	log.Info(ctx, "load test completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service and its store are up.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	status, body, err := client.get(ctx, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrUnhealthy, status, body)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveEntriesToFile writes the generated submissions as a JSON array.
func saveEntriesToFile(ctx context.Context, filename string, subs []model.Submission) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "entries saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, entriesPerSecond float64

	if stats.EntriesSubmitted > 0 {
		successRate = float64(stats.EntriesSuccessful) / float64(stats.EntriesSubmitted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		entriesPerSecond = float64(stats.EntriesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("entriesGenerated", stats.EntriesGenerated),
		logger.Int("entriesSubmitted", stats.EntriesSubmitted),
		logger.Int("entriesSuccessful", stats.EntriesSuccessful),
		logger.Int("entriesFailed", stats.EntriesFailed),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.Int("pagesRead", stats.PagesRead),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("entriesPerSecond", entriesPerSecond))
}
