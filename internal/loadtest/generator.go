package loadtest

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/runboard/internal/domain/model"
	"github.com/okian/runboard/pkg/logger"
)

const (
	namePrefix      = "lt-"
	hardmodeOneInN  = 4
	linkOneInN      = 3
	defaultMaxTime  = 3600
	defaultMaxItems = 100
)

// generateEntries creates n submissions with unique names.
func generateEntries(ctx context.Context, config *Config, stats *Stats) ([]model.Submission, error) {
	logger.Get().Info(ctx, "generating entries", logger.Int("count", config.NumEntries))

	maxTime := config.MaxTime
	if maxTime <= 0 {
		maxTime = defaultMaxTime
	}
	maxItems := config.MaxItems
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}

	subs := make([]model.Submission, config.NumEntries)
	for i := range subs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		subs[i] = generateSingleEntry(maxTime, maxItems)
	}

	stats.EntriesGenerated = len(subs)
	return subs, nil
}

// generateSingleEntry builds one random run. Times are drawn from a small
// range on purpose so that ties on time are frequent.
func generateSingleEntry(maxTime int64, maxItems int) model.Submission {
	name := namePrefix + uuid.NewString()
	t := 1 + rand.Int64N(maxTime)
	items := rand.IntN(maxItems + 1)

	sub := model.Submission{
		Name:     name,
		Time:     &t,
		Items:    &items,
		Hardmode: rand.IntN(hardmodeOneInN) == 0,
	}
	if rand.IntN(linkOneInN) == 0 {
		link := "https://runs.example.com/" + name
		sub.Link = &link
	}
	return sub
}
