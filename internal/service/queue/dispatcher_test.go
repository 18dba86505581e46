package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tunegrab/tunegrab-api/internal/domain"
)

func TestDispatcherProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	processed := map[string]bool{}
	done := make(chan struct{}, 5)

	d := NewDispatcher(2, 10, func(ctx context.Context, job *domain.Job) {
		mu.Lock()
		processed[job.ID] = true
		mu.Unlock()
		done <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	defer d.Stop()

	ids := []string{"a", "b", "c", "d", "e"}
	for _, id := range ids {
		if err := d.Enqueue(&domain.Job{ID: id}); err != nil {
			t.Fatalf("Enqueue(%s) failed: %v", id, err)
		}
	}

	for range ids {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		if !processed[id] {
			t.Errorf("job %s not processed", id)
		}
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	// Workers never started, so the queue fills up.
	d := NewDispatcher(1, 2, func(ctx context.Context, job *domain.Job) {})

	if err := d.Enqueue(&domain.Job{ID: "1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Enqueue(&domain.Job{ID: "2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Enqueue(&domain.Job{ID: "3"}); err != ErrQueueFull {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	if !d.IsFull() {
		t.Error("expected IsFull")
	}
	if d.QueueSize() != 2 {
		t.Errorf("expected queue size 2, got %d", d.QueueSize())
	}
}

func TestDispatcherStop(t *testing.T) {
	d := NewDispatcher(1, 2, func(ctx context.Context, job *domain.Job) {})
	d.Start(context.Background())
	d.Stop()

	if err := d.Enqueue(&domain.Job{ID: "late"}); err != ErrDispatcherStopped {
		t.Errorf("expected ErrDispatcherStopped, got %v", err)
	}

	// Stop is idempotent.
	d.Stop()
}
