package repository

import (
	"time"

	"github.com/okian/runboard/internal/domain/types"
	"github.com/okian/runboard/pkg/logger"
)

// Option applies a configuration option to the SQLStore.
type Option func(*SQLStore)

// WithLogger sets the logger used by the store and its SQL tracing.
func WithLogger(l logger.Logger) Option {
	return func(s *SQLStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed sets the dataset loaded by Initialize into an empty table.
func WithSeed(entries []types.Entry) Option {
	return func(s *SQLStore) {
		s.seed = entries
	}
}

// WithSeedBatchSize sets how many seed rows go into one INSERT.
func WithSeedBatchSize(n int) Option {
	return func(s *SQLStore) {
		if n > 0 {
			s.seedBatchSize = n
		}
	}
}

// WithMaxOpenConns caps the connection pool. Ignored for sqlite, which
// always uses a single connection.
func WithMaxOpenConns(n int) Option {
	return func(s *SQLStore) {
		if n > 0 {
			s.maxOpenConns = n
		}
	}
}

// WithSlowQueryThreshold sets the duration above which statements are
// logged as slow. Zero disables slow query logging.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(s *SQLStore) {
		if d >= 0 {
			s.slowThreshold = d
		}
	}
}
