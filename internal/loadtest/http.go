package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/runboard/internal/domain/model"
	"github.com/okian/runboard/internal/domain/types"
	"github.com/okian/runboard/pkg/logger"
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
	progressInterval        = time.Second
)

// Response envelope fields accepted by readEntries.
var envelopeFields = []string{"entries", "results"}

// HTTPClient wraps http.Client with the service base URL.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// get performs a GET request and returns status and body.
func (c *HTTPClient) get(ctx context.Context, path string, query url.Values) (int, []byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

// post performs a POST request with JSON body.
func (c *HTTPClient) post(ctx context.Context, path string, body any) (int, []byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) (int, []byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// readEntries issues GET /leaderboard and decodes either envelope.
func (c *HTTPClient) readEntries(ctx context.Context, query url.Values) ([]types.Entry, error) {
	status, body, err := c.get(ctx, "/leaderboard", query)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("leaderboard read failed with status %d: %s", status, body)
	}

	var envelope map[string][]types.Entry
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	for _, field := range envelopeFields {
		if entries, ok := envelope[field]; ok {
			return entries, nil
		}
	}
	return nil, fmt.Errorf("leaderboard response has no entries field")
}

// readAll returns every entry, optionally hardmode only.
func (c *HTTPClient) readAll(ctx context.Context, hardmode bool) ([]types.Entry, error) {
	q := url.Values{"all": {"true"}}
	if hardmode {
		q.Set("hardmode", "true")
	}
	return c.readEntries(ctx, q)
}

// readPage returns one window of the ordered leaderboard.
func (c *HTTPClient) readPage(ctx context.Context, limit, offset int) ([]types.Entry, error) {
	return c.readEntries(ctx, url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	})
}

// submitEntries posts submissions concurrently using a worker pool and
// returns the names the service accepted.
func submitEntries(ctx context.Context, config *Config, client *HTTPClient, subs []model.Submission, stats *Stats) []string {
	log := logger.Get()
	log.Info(ctx, "submitting entries",
		logger.Int("count", len(subs)),
		logger.Int("workers", config.Workers))

	var (
		submitted  int64
		successful int64
		failed     int64
		mu         sync.Mutex
		accepted   = make([]string, 0, len(subs))
	)

	subChan := make(chan model.Submission, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range subChan {
				status, body, err := client.post(ctx, "/leaderboard", sub)
				atomic.AddInt64(&submitted, 1)
				if err != nil || status != http.StatusCreated {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Warn(ctx, "submission failed",
							logger.String("name", sub.Name),
							logger.Int("status", status),
							logger.String("body", string(body)),
							logger.Error(err))
					}
					continue
				}
				atomic.AddInt64(&successful, 1)
				mu.Lock()
				accepted = append(accepted, sub.Name)
				mu.Unlock()
			}
		}()
	}

	done := make(chan struct{})
	go reportProgress(ctx, done, len(subs), &submitted, &failed)

	func() {
		defer close(subChan)
		for _, sub := range subs {
			select {
			case <-ctx.Done():
				return
			case subChan <- sub:
			}
		}
	}()

	wg.Wait()
	close(done)

	stats.EntriesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.EntriesSuccessful = int(atomic.LoadInt64(&successful))
	stats.EntriesFailed = int(atomic.LoadInt64(&failed))

	log.Info(ctx, "submission completed",
		logger.Int("successful", stats.EntriesSuccessful),
		logger.Int("failed", stats.EntriesFailed))
	return accepted
}

func reportProgress(ctx context.Context, done <-chan struct{}, total int, submitted, failed *int64) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Get().Info(ctx, "progress",
				logger.Int64("submitted", atomic.LoadInt64(submitted)),
				logger.Int("total", total),
				logger.Int64("failed", atomic.LoadInt64(failed)))
		}
	}
}
