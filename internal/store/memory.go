package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tunegrab/tunegrab-api/internal/domain"
)

// Memory is an in-memory JobStore backed by a map. It is the storage used in
// tests and when STORE=memory is configured; records do not survive restarts.
type Memory struct {
	mu       sync.RWMutex
	jobs     map[string]*domain.Job
	searches []string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]*domain.Job)}
}

func (m *Memory) CreateJob(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *Memory) GetJob(_ context.Context, id string) (*domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

func (m *Memory) UpdateJob(_ context.Context, id string, upd JobUpdate) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}

	if upd.Status != nil {
		job.Status = *upd.Status
	}
	if upd.Progress != nil {
		job.Progress = *upd.Progress
	}
	if upd.ResultFileURL != nil {
		job.ResultFileURL = *upd.ResultFileURL
	}
	if upd.Metadata != nil {
		meta := *upd.Metadata
		job.Metadata = &meta
	}
	if upd.Error != nil {
		job.Error = *upd.Error
	}
	job.UpdatedAt = time.Now().UTC()

	cp := *job
	return &cp, nil
}

func (m *Memory) ListRecentJobs(_ context.Context, limit int) ([]*domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	jobs := make([]*domain.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		cp := *job
		jobs = append(jobs, &cp)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (m *Memory) AddRecentSearch(_ context.Context, query string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := m.searches[:0]
	for _, q := range m.searches {
		if q != query {
			filtered = append(filtered, q)
		}
	}
	m.searches = append([]string{query}, filtered...)
	if len(m.searches) > MaxRecentSearches {
		m.searches = m.searches[:MaxRecentSearches]
	}
	return nil
}

func (m *Memory) RecentSearches(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.searches))
	copy(out, m.searches)
	return out, nil
}

func (m *Memory) Close() error { return nil }
