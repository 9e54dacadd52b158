package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	service "github.com/okian/runboard/internal/app"
	"github.com/okian/runboard/internal/domain/model"
	"github.com/okian/runboard/internal/domain/types"
	"github.com/okian/runboard/pkg/logger"
)

// maxBodyBytes bounds a submission body.
const maxBodyBytes = 1 << 20

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Submit(ctx context.Context, e types.Entry) error
	List(ctx context.Context, q service.Query) ([]types.Entry, error)
}

// LeaderboardHandler handles leaderboard reads and submissions.
type LeaderboardHandler struct {
	deps         LeaderboardDependencies
	defaultLimit int
	maxLimit     int
	entriesField string
	logger       logger.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, defaultLimit, maxLimit int, entriesField string, l logger.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:         deps,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		entriesField: entriesField,
		logger:       l,
	}
}

// HandleLeaderboard dispatches /leaderboard by method.
func (h *LeaderboardHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.HandleGetLeaderboard(w, r)
	case http.MethodPost:
		h.HandlePostEntry(w, r)
	default:
		methodNotAllowed(w, "api.leaderboard", "GET, POST")
	}
}

// HandleGetLeaderboard handles GET /leaderboard?limit&offset&all&hardmode.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"

	q, err := h.parseQuery(r.URL.Query())
	if err != nil {
		code := "bad_request"
		if errors.Is(err, ErrLimitExceeded) {
			code = "limit_exceeded"
		}
		writeError(w, http.StatusBadRequest, code, WrapKind(op, ErrBadRequest, err))
		return
	}

	entries, err := h.deps.List(r.Context(), q)
	if err != nil {
		h.logger.Error(r.Context(), "list entries failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if entries == nil {
		entries = []types.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string][]types.Entry{h.entriesField: entries})
}

// HandlePostEntry handles POST /leaderboard.
func (h *LeaderboardHandler) HandlePostEntry(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_entry"

	var sub model.Submission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := sub.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if err := h.deps.Submit(r.Context(), sub.Entry()); err != nil {
		h.logger.Error(r.Context(), "submit entry failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "Entry added successfully"})
}

func (h *LeaderboardHandler) parseQuery(v url.Values) (service.Query, error) {
	q := service.Query{Limit: h.defaultLimit}

	var err error
	if q.All, err = parseBool(v, "all"); err != nil {
		return q, err
	}
	if q.Hardmode, err = parseBool(v, "hardmode"); err != nil {
		return q, err
	}
	if q.All {
		return q, nil
	}

	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, errInvalidParam("limit")
		}
		if n > h.maxLimit {
			return q, ErrLimitExceeded
		}
		q.Limit = n
	}
	if s := v.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, errInvalidParam("offset")
		}
		q.Offset = n
	}
	return q, nil
}

func parseBool(v url.Values, key string) (bool, error) {
	s := v.Get(key)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errInvalidParam(key)
	}
	return b, nil
}
func errInvalidParam(name string) error {
	return fmt.Errorf("invalid %s", name)
}
