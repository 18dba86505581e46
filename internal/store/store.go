// Package store persists download jobs and recent searches.
//
// Two implementations share the JobStore interface: Memory for tests and
// development, SQLite for durable single-node deployments.
package store

import (
	"context"

	"github.com/tunegrab/tunegrab-api/internal/domain"
)

// MaxRecentSearches is the retention cap for the recent-search list.
const MaxRecentSearches = 10

// JobUpdate is a partial update merged into an existing job record.
// Nil fields are left untouched; updatedAt is always refreshed.
type JobUpdate struct {
	Status        *domain.JobStatus
	Progress      *int
	ResultFileURL *string
	Metadata      *domain.Metadata
	Error         *string
}

// JobStore is the durable record of download jobs and recent searches.
// Implementations must support concurrent access across different jobs;
// per-record updates are atomic merges.
type JobStore interface {
	// CreateJob persists a freshly created job.
	CreateJob(ctx context.Context, job *domain.Job) error

	// GetJob returns the job with the given id, or domain.ErrJobNotFound.
	GetJob(ctx context.Context, id string) (*domain.Job, error)

	// UpdateJob merges upd into the stored record and returns the result,
	// or domain.ErrJobNotFound for an unknown id.
	UpdateJob(ctx context.Context, id string, upd JobUpdate) (*domain.Job, error)

	// ListRecentJobs returns up to limit jobs ordered by createdAt descending.
	ListRecentJobs(ctx context.Context, limit int) ([]*domain.Job, error)

	// AddRecentSearch records a query, deduplicated by exact match: an
	// existing query moves to the front instead of creating a duplicate.
	// The list is pruned to MaxRecentSearches on every insert.
	AddRecentSearch(ctx context.Context, query string) error

	// RecentSearches returns the retained queries, most recent first.
	RecentSearches(ctx context.Context) ([]string, error)

	Close() error
}

// Helpers for building JobUpdate values without intermediate variables.

func StatusPtr(s domain.JobStatus) *domain.JobStatus { return &s }
func IntPtr(i int) *int                              { return &i }
func StringPtr(s string) *string                     { return &s }
