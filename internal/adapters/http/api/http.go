// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/runboard/internal/app"
	"github.com/okian/runboard/internal/domain/types"
	"github.com/okian/runboard/pkg/logger"
)

// Response envelope field names.
const (
	FieldEntries = "entries"
	FieldResults = "results"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Submit(ctx context.Context, e types.Entry) error
	List(ctx context.Context, q service.Query) ([]types.Entry, error)
	Ping(ctx context.Context) error
	GetStats(ctx context.Context) map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	defaultLimit int
	maxLimit     int
	entriesField string
	logger       logger.Logger

	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	metricsHandler     http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithDefaultLimit sets the page size used when a request has no limit.
func WithDefaultLimit(n int) Option {
	return func(s *Server) {
		if n >= 0 {
			s.defaultLimit = n
		}
	}
}

// WithMaxLimit sets the largest accepted limit.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithEntriesField selects the name of the list field in read responses.
func WithEntriesField(field string) Option {
	return func(s *Server) {
		if field == FieldEntries || field == FieldResults {
			s.entriesField = field
		}
	}
}

// WithLogger sets the logger used by the handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		entriesField: FieldEntries,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.defaultLimit > s.maxLimit {
		s.defaultLimit = s.maxLimit
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}

	s.healthHandler = NewHealthHandler(deps)
	s.statsHandler = NewStatsHandler(deps)
	s.leaderboardHandler = NewLeaderboardHandler(deps, s.defaultLimit, s.maxLimit, s.entriesField, s.logger)
	s.metricsHandler = NewMetricsHandler()
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.Handle("/healthz", s.wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", s.wrap(s.metricsHandler.ServeHTTP, "metrics"))
	mux.Handle("/stats", s.wrap(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/leaderboard", s.wrap(s.leaderboardHandler.HandleLeaderboard, "leaderboard"))
}

func (s *Server) wrap(h http.HandlerFunc, endpoint string) http.Handler {
	return RequestIDMiddleware(MetricsMiddleware(h, endpoint))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func methodNotAllowed(w http.ResponseWriter, op string, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
}
