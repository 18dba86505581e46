// Package queue provides a bounded worker pool for processing download jobs.
package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tunegrab/tunegrab-api/internal/domain"
)

var (
	// ErrQueueFull is returned when the job queue is at capacity.
	ErrQueueFull = errors.New("job queue is full")
	// ErrDispatcherStopped is returned when enqueueing after Stop.
	ErrDispatcherStopped = errors.New("dispatcher has been stopped")
)

// Runner is the function each worker invokes to drive a job to a terminal
// state. It must not panic through; failures are written back to the store.
type Runner func(ctx context.Context, job *domain.Job)

// Dispatcher bounds the number of in-flight processing pipelines. Each job
// is enqueued exactly once, at creation, which keeps the single-writer
// guarantee: at most one pipeline run ever exists per job id.
type Dispatcher struct {
	jobChan    chan *domain.Job
	workerWg   sync.WaitGroup
	numWorkers int
	runner     Runner
	stopped    atomic.Bool
	stopCh     chan struct{}
}

// NewDispatcher creates a Dispatcher with the given pool and queue sizes.
func NewDispatcher(numWorkers, queueSize int, runner Runner) *Dispatcher {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if queueSize < 1 {
		queueSize = 10
	}

	return &Dispatcher{
		jobChan:    make(chan *domain.Job, queueSize),
		numWorkers: numWorkers,
		runner:     runner,
		stopCh:     make(chan struct{}),
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start(ctx context.Context) {
	slog.Info("Starting dispatcher",
		"workers", d.numWorkers,
		"queue_size", cap(d.jobChan),
	)

	for i := 0; i < d.numWorkers; i++ {
		d.workerWg.Add(1)
		go d.worker(ctx, i)
	}
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.workerWg.Done()

	for {
		select {
		case job, ok := <-d.jobChan:
			if !ok {
				return
			}
			slog.Debug("Worker picked up job",
				"worker_id", id,
				"job_id", job.ID,
			)
			d.runner(ctx, job)

		case <-ctx.Done():
			return

		case <-d.stopCh:
			return
		}
	}
}

// Enqueue adds a job to the queue without blocking.
// Returns ErrQueueFull when the queue is at capacity.
func (d *Dispatcher) Enqueue(job *domain.Job) error {
	if d.stopped.Load() {
		return ErrDispatcherStopped
	}

	select {
	case d.jobChan <- job:
		return nil
	default:
		slog.Warn("Queue is full", "job_id", job.ID, "queue_size", len(d.jobChan))
		return ErrQueueFull
	}
}

// Stop gracefully stops the dispatcher and waits for workers to drain.
func (d *Dispatcher) Stop() {
	if d.stopped.Swap(true) {
		return
	}

	slog.Info("Stopping dispatcher...")
	close(d.stopCh)
	close(d.jobChan)
	d.workerWg.Wait()
	slog.Info("Dispatcher stopped")
}

// QueueSize returns the number of jobs currently waiting.
func (d *Dispatcher) QueueSize() int {
	return len(d.jobChan)
}

// IsFull reports whether the queue is at capacity.
func (d *Dispatcher) IsFull() bool {
	return len(d.jobChan) >= cap(d.jobChan)
}

// WorkerCount returns the size of the worker pool.
func (d *Dispatcher) WorkerCount() int {
	return d.numWorkers
}
