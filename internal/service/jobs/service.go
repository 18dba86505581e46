// Package jobs implements the transport-agnostic job API: creation, point
// reads, history, and search.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tunegrab/tunegrab-api/internal/domain"
	"github.com/tunegrab/tunegrab-api/internal/platform"
	"github.com/tunegrab/tunegrab-api/internal/resolver"
	"github.com/tunegrab/tunegrab-api/internal/search"
	"github.com/tunegrab/tunegrab-api/internal/service/queue"
	"github.com/tunegrab/tunegrab-api/internal/store"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ErrBusy is returned when the processing queue is at capacity.
var ErrBusy = errors.New("server is busy, please try again later")

// Service wires the store, resolver, search provider and dispatcher into
// the job API.
type Service struct {
	store      store.JobStore
	resolver   resolver.Resolver
	search     search.Provider
	dispatcher *queue.Dispatcher
}

// NewService creates a Service.
func NewService(st store.JobStore, res resolver.Resolver, sp search.Provider, d *queue.Dispatcher) *Service {
	return &Service{
		store:      st,
		resolver:   res,
		search:     sp,
		dispatcher: d,
	}
}

// CreateJob validates the request, resolves metadata, persists a pending job
// and hands it to the dispatcher exactly once. It returns immediately with
// the pending record; the pipeline runs in the background. Processing is
// never re-launched for an existing id.
func (s *Service) CreateJob(ctx context.Context, req *domain.DownloadRequest) (*domain.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	plat := platform.Detect(req.URL)

	// Resolve synchronously so the creation response already carries
	// display metadata. A failure here is not fatal: the pipeline retries
	// once and converts a second failure into a terminal error state.
	meta, err := s.resolver.Resolve(ctx, req.URL, plat)
	if err != nil {
		slog.Warn("Metadata resolution failed at creation",
			"url", req.URL,
			"error", err,
		)
		meta = nil
	}

	job := domain.NewJob(
		uuid.New().String(),
		req.URL,
		plat,
		domain.Format(req.Format),
		domain.Quality(req.Quality),
		meta,
	)

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	if err := s.dispatcher.Enqueue(job); err != nil {
		// The record exists but will never be processed; close it out so
		// it cannot sit in pending forever.
		if _, uerr := s.store.UpdateJob(ctx, job.ID, store.JobUpdate{
			Status: store.StatusPtr(domain.JobStatusError),
			Error:  store.StringPtr("processing queue is full"),
		}); uerr != nil {
			slog.Error("Failed to mark unqueued job", "job_id", job.ID, "error", uerr)
		}
		return nil, ErrBusy
	}

	slog.Info("Download job created",
		"job_id", job.ID,
		"url", job.URL,
		"platform", job.Platform,
		"format", job.Format,
		"quality", job.Quality,
	)

	return job, nil
}

// GetJob returns the job with the given id or domain.ErrJobNotFound.
func (s *Service) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	return s.store.GetJob(ctx, id)
}

// ListHistory returns jobs ordered by creation time descending. The limit is
// clamped to [1, 100]; non-positive values fall back to the default of 20.
func (s *Service) ListHistory(ctx context.Context, limit int) ([]*domain.Job, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.store.ListRecentJobs(ctx, limit)
}

// Search records the query and delegates to the search provider. An empty
// result set is a success, not an error.
func (s *Service) Search(ctx context.Context, req *domain.SearchRequest) ([]domain.SearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.AddRecentSearch(ctx, req.Query); err != nil {
		return nil, fmt.Errorf("failed to record search: %w", err)
	}

	results, err := s.search.Search(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	return results, nil
}

// RecentSearches returns up to 10 recent queries, most recent first.
func (s *Service) RecentSearches(ctx context.Context) ([]string, error) {
	queries, err := s.store.RecentSearches(ctx)
	if err != nil {
		return nil, err
	}
	if queries == nil {
		queries = []string{}
	}
	return queries, nil
}
