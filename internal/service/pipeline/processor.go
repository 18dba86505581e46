// Package pipeline drives a download job through its state machine.
//
// States: pending -> fetching -> converting -> completed, with error
// reachable from any non-terminal state. Every state write is durable before
// the next step runs, so a concurrent reader never observes a progress
// regression or a state skip.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tunegrab/tunegrab-api/internal/domain"
	"github.com/tunegrab/tunegrab-api/internal/infra/artifacts"
	"github.com/tunegrab/tunegrab-api/internal/resolver"
	"github.com/tunegrab/tunegrab-api/internal/store"
)

// Processor is the sole mutator of a job after creation. It runs once per
// job, asynchronously, and always leaves the record in a terminal state.
type Processor struct {
	store     store.JobStore
	resolver  resolver.Resolver
	engine    Engine
	artifacts artifacts.Store
	timeout   time.Duration
}

// NewProcessor creates a Processor. timeout bounds a full pipeline run; a
// stalled step fails the job instead of hanging it forever.
func NewProcessor(st store.JobStore, res resolver.Resolver, engine Engine, art artifacts.Store, timeout time.Duration) *Processor {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Processor{
		store:     st,
		resolver:  res,
		engine:    engine,
		artifacts: art,
		timeout:   timeout,
	}
}

// Run drives the job to a terminal state. Failures of any step, including
// panics, are captured and written back to the job record; progress is left
// at its last written value on error.
func (p *Processor) Run(ctx context.Context, job *domain.Job) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in pipeline", "job_id", job.ID, "panic", r)
			p.fail(job.ID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	slog.Info("Processing job",
		"job_id", job.ID,
		"url", job.URL,
		"platform", job.Platform,
		"format", job.Format,
	)

	// Metadata is normally attached at creation; resolve here only when
	// that step was skipped or failed, and treat a second failure as fatal
	// for the job.
	if job.Metadata == nil {
		meta, err := p.resolver.Resolve(ctx, job.URL, job.Platform)
		if err != nil {
			p.fail(job.ID, err.Error())
			return
		}
		if _, err := p.store.UpdateJob(ctx, job.ID, store.JobUpdate{Metadata: meta}); err != nil {
			p.fail(job.ID, "failed to save metadata")
			return
		}
		job.Metadata = meta
	}

	if err := p.engine.Fetch(ctx, job, p.reporter(ctx, job.ID, domain.JobStatusFetching)); err != nil {
		perr := &domain.ProcessingError{Stage: "fetch", Err: err}
		slog.Error("Fetch failed", "job_id", job.ID, "error", err)
		p.fail(job.ID, perr.Error())
		return
	}

	scratchPath, err := p.engine.Convert(ctx, job, p.reporter(ctx, job.ID, domain.JobStatusConverting))
	if err != nil {
		perr := &domain.ProcessingError{Stage: "convert", Err: err}
		slog.Error("Convert failed", "job_id", job.ID, "error", err)
		p.fail(job.ID, perr.Error())
		return
	}

	key := filepath.Base(scratchPath)
	if err := p.publish(ctx, key, scratchPath); err != nil {
		slog.Error("Failed to store artifact", "job_id", job.ID, "error", err)
		p.fail(job.ID, "failed to store result file")
		return
	}

	if _, err := p.store.UpdateJob(ctx, job.ID, store.JobUpdate{
		Status:        store.StatusPtr(domain.JobStatusCompleted),
		Progress:      store.IntPtr(100),
		ResultFileURL: store.StringPtr("/api/files/" + key),
	}); err != nil {
		slog.Error("Failed to complete job", "job_id", job.ID, "error", err)
		p.fail(job.ID, "failed to save result")
		return
	}

	slog.Info("Job completed", "job_id", job.ID, "file", key)
}

// reporter returns a ProgressFunc that durably writes status + progress.
func (p *Processor) reporter(ctx context.Context, jobID string, status domain.JobStatus) ProgressFunc {
	return func(progress int) error {
		_, err := p.store.UpdateJob(ctx, jobID, store.JobUpdate{
			Status:   store.StatusPtr(status),
			Progress: store.IntPtr(progress),
		})
		return err
	}
}

// publish moves the scratch file into artifact storage.
func (p *Processor) publish(ctx context.Context, key, scratchPath string) error {
	f, err := os.Open(scratchPath)
	if err != nil {
		return fmt.Errorf("failed to open scratch file: %w", err)
	}
	defer f.Close()

	if err := p.artifacts.Save(ctx, key, f); err != nil {
		return err
	}

	if err := os.Remove(scratchPath); err != nil {
		slog.Warn("Failed to remove scratch file", "path", scratchPath, "error", err)
	}
	return nil
}

// fail writes the terminal error state. The store write uses a fresh
// context: the run context may already be canceled, and an unobserved
// failure would leave the job stuck in a non-terminal state forever.
func (p *Processor) fail(jobID, msg string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := p.store.UpdateJob(ctx, jobID, store.JobUpdate{
		Status: store.StatusPtr(domain.JobStatusError),
		Error:  store.StringPtr(msg),
	}); err != nil {
		slog.Error("Failed to record job error", "job_id", jobID, "error", err, "job_error", msg)
	}
}
