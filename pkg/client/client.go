// Package client is a Go client for the tunegrab API, including the polling
// loop a front-end uses to follow a download job to completion.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tunegrab/tunegrab-api/internal/domain"
	"golang.org/x/time/rate"
)

// DefaultPollInterval is the fixed polling cadence.
const DefaultPollInterval = time.Second

// Client talks to a tunegrab API server.
type Client struct {
	baseURL  string
	hc       *http.Client
	interval time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithPollInterval overrides the polling cadence.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.interval = d }
}

// New creates a Client for the given base URL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		hc:       &http.Client{Timeout: 10 * time.Second},
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateDownload submits a download request and returns the pending job.
func (c *Client) CreateDownload(ctx context.Context, req *domain.DownloadRequest) (*domain.Job, error) {
	var job domain.Job
	if err := c.post(ctx, "/api/download", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetDownload fetches the current snapshot of a job.
func (c *Client) GetDownload(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	if err := c.get(ctx, "/api/download/"+id, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Search runs a search query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	var results []domain.SearchResult
	if err := c.post(ctx, "/api/search", &domain.SearchRequest{Query: query}, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// RecentSearches fetches the recent search queries.
func (c *Client) RecentSearches(ctx context.Context) ([]string, error) {
	var queries []string
	if err := c.get(ctx, "/api/search/recent", &queries); err != nil {
		return nil, err
	}
	return queries, nil
}

// PollUntilDone polls the job at the fixed cadence until it reaches a
// terminal state or ctx is done. Requests are strictly sequential: the next
// tick is only scheduled after the previous response arrives, so exactly one
// request is ever in flight and snapshots are delivered in completion order.
// Transient fetch failures are retried on the next tick. Each snapshot is
// passed to onUpdate (may be nil) as it arrives; the terminal snapshot is
// returned.
func (c *Client) PollUntilDone(ctx context.Context, id string, onUpdate func(*domain.Job)) (*domain.Job, error) {
	limiter := rate.NewLimiter(rate.Every(c.interval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		job, err := c.GetDownload(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Transient failure: retry on the next tick.
			continue
		}

		if onUpdate != nil {
			onUpdate(job)
		}

		if job.Status.IsTerminal() {
			return job, nil
		}
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr domain.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: apiErr.Error, Code: apiErr.Code, Details: apiErr.Details}
		}
		return &APIError{Status: resp.StatusCode, Message: resp.Status}
	}

	if out == nil {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// APIError is an error response from the server.
type APIError struct {
	Status  int
	Message string
	Code    string
	Details map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}
