package loadtest

import (
	"context"
	"fmt"

	"github.com/okian/runboard/internal/domain/types"
	"github.com/okian/runboard/pkg/logger"
)

// verifyOrdered checks that entries never step backwards in leaderboard order.
func verifyOrdered(entries []types.Entry) error {
	for i := 1; i < len(entries); i++ {
		if entries[i].RanksBefore(entries[i-1]) {
			return fmt.Errorf("%w: entry %d (%s time=%d items=%d) ranks before entry %d (%s time=%d items=%d)",
				ErrNotOrdered,
				i, entries[i].Name, entries[i].Time, entries[i].Items,
				i-1, entries[i-1].Name, entries[i-1].Time, entries[i-1].Items)
		}
	}
	return nil
}

// verifyPresent checks that every accepted name appears in entries.
func verifyPresent(accepted []string, entries []types.Entry) error {
	seen := make(map[string]int, len(entries))
	for _, e := range entries {
		seen[e.Name]++
	}
	for _, name := range accepted {
		if seen[name] == 0 {
			return fmt.Errorf("%w: %s", ErrMissingEntry, name)
		}
	}
	return nil
}

// verifyHardmode checks that a filtered read only holds hardmode entries.
func verifyHardmode(entries []types.Entry) error {
	for i, e := range entries {
		if !e.Hardmode {
			return fmt.Errorf("%w: entry %d (%s)", ErrFilterLeak, i, e.Name)
		}
	}
	return verifyOrdered(entries)
}

// verifyPages walks the leaderboard page by page and compares the result
// with a full read. Pages must neither overlap nor skip rows.
func verifyPages(ctx context.Context, client *HTTPClient, pageSize int, all []types.Entry, stats *Stats) error {
	if pageSize <= 0 {
		return nil
	}

	var paged []types.Entry
	for offset := 0; ; offset += pageSize {
		page, err := client.readPage(ctx, pageSize, offset)
		if err != nil {
			return err
		}
		stats.PagesRead++
		paged = append(paged, page...)
		if len(page) < pageSize {
			break
		}
	}

	if len(paged) != len(all) {
		return fmt.Errorf("%w: %d paged entries, %d in full read", ErrPageMismatch, len(paged), len(all))
	}
	for i := range all {
		if paged[i].ID != all[i].ID {
			return fmt.Errorf("%w: position %d has id %d, full read has id %d",
				ErrPageMismatch, i, paged[i].ID, all[i].ID)
		}
	}
	return nil
}

// verifyResults runs every check against the live service.
func verifyResults(ctx context.Context, config *Config, client *HTTPClient, accepted []string, stats *Stats) error {
	log := logger.Get()
	log.Info(ctx, "verifying results")

	all, err := client.readAll(ctx, false)
	if err != nil {
		return err
	}
	stats.LeaderboardEntries = len(all)

	if err := verifyOrdered(all); err != nil {
		return err
	}
	if err := verifyPresent(accepted, all); err != nil {
		return err
	}

	hard, err := client.readAll(ctx, true)
	if err != nil {
		return err
	}
	if err := verifyHardmode(hard); err != nil {
		return err
	}

	if err := verifyPages(ctx, client, config.PageSize, all, stats); err != nil {
		return err
	}

	if config.Verbose {
		displayTop(ctx, all)
	}
	log.Info(ctx, "verification passed",
		logger.Int("entries", len(all)),
		logger.Int("hardmodeEntries", len(hard)),
		logger.Int("pages", stats.PagesRead))
	return nil
}

func displayTop(ctx context.Context, entries []types.Entry) {
	const topN = 10
	n := min(topN, len(entries))
	for i := 0; i < n; i++ {
		e := entries[i]
		logger.Get().Info(ctx, "top entry",
			logger.Int("rank", i+1),
			logger.String("name", e.Name),
			logger.Int64("time", e.Time),
			logger.Int("items", e.Items),
			logger.Bool("hardmode", e.Hardmode))
	}
}
