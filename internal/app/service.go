// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"

	repository "github.com/okian/runboard/internal/adapters/repository"
	"github.com/okian/runboard/internal/domain/types"
	"github.com/okian/runboard/pkg/logger"
	"github.com/okian/runboard/pkg/metrics"
)

// ErrNotStarted is returned by operations invoked before Start.
var ErrNotStarted = errors.New("service not started")

// Query describes a leaderboard read.
type Query struct {
	// All bypasses Limit and Offset and returns every matching entry.
	All bool
	// Hardmode restricts the result to hardmode entries.
	Hardmode bool
	Limit    int
	Offset   int
}

// Service translates submissions and queries into store calls.
// It holds no state besides the injected store; requests are independent.
type Service struct {
	mu      sync.RWMutex
	store   repository.Store
	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the store schema and seed. A failure here is fatal for
// the process: there is no degraded mode.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting leaderboard service...")
	if err := s.store.Initialize(ctx); err != nil {
		s.logger.Error(ctx, "store initialization failed", logger.Error(err))
		return err
	}

	s.started = true
	s.logger.Info(ctx, "leaderboard service started")
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping leaderboard service...")
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "store close failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "leaderboard service stopped")
}

func (s *Service) ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Submit stores one entry. The store is called exactly once; failures are
// returned to the caller unchanged.
func (s *Service) Submit(ctx context.Context, e types.Entry) error {
	if !s.ready() {
		return ErrNotStarted
	}
	if err := s.store.AddEntry(ctx, e); err != nil {
		metrics.RecordSubmissionError()
		s.logger.Error(ctx, "entry submission failed",
			logger.String("name", e.Name),
			logger.Int64("time", e.Time),
			logger.Error(err))
		return err
	}
	metrics.RecordEntrySubmitted()
	s.logger.Debug(ctx, "entry submitted",
		logger.String("name", e.Name),
		logger.Int64("time", e.Time),
		logger.Int("items", e.Items),
		logger.Bool("hardmode", e.Hardmode))
	return nil
}

// List returns entries in leaderboard order.
func (s *Service) List(ctx context.Context, q Query) ([]types.Entry, error) {
	if !s.ready() {
		return nil, ErrNotStarted
	}
	f := types.Filter{HardmodeOnly: q.Hardmode}
	if q.All {
		return s.store.GetAllEntries(ctx, f)
	}
	return s.store.GetEntries(ctx, types.Page{Filter: f, Limit: q.Limit, Offset: q.Offset})
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if !s.ready() {
		return ErrNotStarted
	}
	return s.store.Ping(ctx)
}

// GetStats returns service statistics for monitoring and refreshes the
// entry gauges as a side effect.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	started := s.ready()
	stats := map[string]interface{}{
		"started": started,
	}
	if d, ok := s.store.(interface{ Driver() string }); ok {
		stats["driver"] = d.Driver()
	}
	if !started {
		return stats
	}

	total, err := s.store.Count(ctx, types.Filter{})
	if err != nil {
		s.logger.Warn(ctx, "count entries failed", logger.Error(err))
		return stats
	}
	hard, err := s.store.Count(ctx, types.Filter{HardmodeOnly: true})
	if err != nil {
		s.logger.Warn(ctx, "count hardmode entries failed", logger.Error(err))
		return stats
	}

	stats["entries"] = total
	stats["hardmodeEntries"] = hard
	metrics.UpdateEntriesTotal(total)
	metrics.UpdateHardmodeEntries(hard)
	return stats
}
