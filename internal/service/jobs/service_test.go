package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/tunegrab/tunegrab-api/internal/domain"
	"github.com/tunegrab/tunegrab-api/internal/resolver"
	"github.com/tunegrab/tunegrab-api/internal/search"
	"github.com/tunegrab/tunegrab-api/internal/service/queue"
	"github.com/tunegrab/tunegrab-api/internal/store"
)

func newTestService(queueSize int) (*Service, *store.Memory, *queue.Dispatcher) {
	st := store.NewMemory()
	d := queue.NewDispatcher(1, queueSize, func(ctx context.Context, job *domain.Job) {})
	svc := NewService(st, resolver.NewMock(), search.NewMock(), d)
	return svc, st, d
}

func TestCreateJob(t *testing.T) {
	svc, st, _ := newTestService(10)
	ctx := context.Background()

	req := &domain.DownloadRequest{
		URL:     "https://youtube.com/watch?v=abc",
		Format:  "mp3",
		Quality: "320",
	}

	job, err := svc.CreateJob(ctx, req)
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	if job.ID == "" {
		t.Error("job id not assigned")
	}
	if job.Status != domain.JobStatusPending {
		t.Errorf("expected pending status, got %s", job.Status)
	}
	if job.Progress != 0 {
		t.Errorf("expected progress 0, got %d", job.Progress)
	}
	if job.Platform != domain.PlatformYouTube {
		t.Errorf("expected youtube platform, got %s", job.Platform)
	}
	if job.Metadata == nil {
		t.Error("metadata not resolved at creation")
	}

	// The record is persisted.
	stored, err := st.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("job not persisted: %v", err)
	}
	if stored.URL != req.URL {
		t.Errorf("expected url %q, got %q", req.URL, stored.URL)
	}

	// Ids are unique per request.
	job2, err := svc.CreateJob(ctx, req)
	if err != nil {
		t.Fatalf("second CreateJob failed: %v", err)
	}
	if job2.ID == job.ID {
		t.Error("two jobs share an id")
	}
}

func TestCreateJobInvalidRequest(t *testing.T) {
	svc, st, _ := newTestService(10)
	ctx := context.Background()

	req := &domain.DownloadRequest{URL: "not-a-url", Format: "mp3", Quality: "320"}

	_, err := svc.CreateJob(ctx, req)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := verr.Fields["url"]; !ok {
		t.Errorf("expected url field error, got %v", verr.Fields)
	}

	// No record is created for a rejected request.
	jobs, err := st.ListRecentJobs(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentJobs failed: %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("expected no jobs, got %d", len(jobs))
	}
}

func TestCreateJobQueueFull(t *testing.T) {
	// One queue slot, no workers started, so the second job cannot be
	// enqueued.
	svc, st, _ := newTestService(1)
	ctx := context.Background()

	req := &domain.DownloadRequest{
		URL:     "https://soundcloud.com/a/b",
		Format:  "wav",
		Quality: "lossless",
	}

	if _, err := svc.CreateJob(ctx, req); err != nil {
		t.Fatalf("first CreateJob failed: %v", err)
	}

	_, err := svc.CreateJob(ctx, req)
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	// The rejected job is closed out as an error, not left pending.
	jobs, err := st.ListRecentJobs(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentJobs failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	var errored int
	for _, j := range jobs {
		if j.Status == domain.JobStatusError {
			errored++
		}
	}
	if errored != 1 {
		t.Errorf("expected exactly one errored job, got %d", errored)
	}
}

func TestListHistoryClamp(t *testing.T) {
	svc, _, _ := newTestService(64)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		req := &domain.DownloadRequest{
			URL:     "https://youtube.com/watch?v=abc",
			Format:  "mp3",
			Quality: "128",
		}
		if _, err := svc.CreateJob(ctx, req); err != nil {
			t.Fatalf("CreateJob failed: %v", err)
		}
	}

	jobs, err := svc.ListHistory(ctx, 0)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(jobs) != 20 {
		t.Errorf("expected default limit of 20, got %d", len(jobs))
	}

	jobs, err = svc.ListHistory(ctx, 5)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(jobs) != 5 {
		t.Errorf("expected 5 jobs, got %d", len(jobs))
	}

	jobs, err = svc.ListHistory(ctx, 500)
	if err != nil {
		t.Fatalf("ListHistory failed: %v", err)
	}
	if len(jobs) != 30 {
		t.Errorf("expected all 30 jobs under the 100 cap, got %d", len(jobs))
	}
}

func TestSearchRecordsQuery(t *testing.T) {
	svc, _, _ := newTestService(10)
	ctx := context.Background()

	results, err := svc.Search(ctx, &domain.SearchRequest{Query: "lofi beats"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Error("expected search results")
	}

	recent, err := svc.RecentSearches(ctx)
	if err != nil {
		t.Fatalf("RecentSearches failed: %v", err)
	}
	if len(recent) != 1 || recent[0] != "lofi beats" {
		t.Errorf("expected [lofi beats], got %v", recent)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	svc, _, _ := newTestService(10)

	_, err := svc.Search(context.Background(), &domain.SearchRequest{Query: "  "})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRecentSearchesEmpty(t *testing.T) {
	svc, _, _ := newTestService(10)

	recent, err := svc.RecentSearches(context.Background())
	if err != nil {
		t.Fatalf("RecentSearches failed: %v", err)
	}
	if recent == nil {
		t.Error("expected non-nil empty slice")
	}
	if len(recent) != 0 {
		t.Errorf("expected no recent searches, got %v", recent)
	}
}
