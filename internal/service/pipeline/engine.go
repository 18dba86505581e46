package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tunegrab/tunegrab-api/internal/domain"
)

// ProgressFunc persists a progress checkpoint. The write is durable before
// the call returns; the engine must stop on error.
type ProgressFunc func(progress int) error

// Engine is the fetch/convert collaborator driven by the Processor. A real
// implementation would retrieve source audio and transcode it; the Simulated
// engine stands in with fixed checkpoints and bounded delays.
type Engine interface {
	// Fetch retrieves the source audio, reporting progress as it goes.
	Fetch(ctx context.Context, job *domain.Job, report ProgressFunc) error

	// Convert transcodes to the requested format/quality and returns the
	// path of the produced scratch file.
	Convert(ctx context.Context, job *domain.Job, report ProgressFunc) (string, error)
}

var (
	fetchCheckpoints   = []int{10, 30, 50}
	convertCheckpoints = []int{60, 80, 95}
)

// Simulated is an Engine that emits the fixed checkpoint sequence with a
// bounded delay between steps and produces a placeholder artifact.
type Simulated struct {
	scratchDir string
	stepDelay  time.Duration
}

// NewSimulated creates a simulated engine writing scratch files to scratchDir.
func NewSimulated(scratchDir string, stepDelay time.Duration) *Simulated {
	os.MkdirAll(scratchDir, 0755)
	return &Simulated{
		scratchDir: scratchDir,
		stepDelay:  stepDelay,
	}
}

func (e *Simulated) Fetch(ctx context.Context, job *domain.Job, report ProgressFunc) error {
	for _, p := range fetchCheckpoints {
		if err := report(p); err != nil {
			return err
		}
		if err := wait(ctx, e.stepDelay); err != nil {
			return err
		}
	}
	return nil
}

func (e *Simulated) Convert(ctx context.Context, job *domain.Job, report ProgressFunc) (string, error) {
	for _, p := range convertCheckpoints {
		if err := report(p); err != nil {
			return "", err
		}
		if err := wait(ctx, e.stepDelay); err != nil {
			return "", err
		}
	}

	path := filepath.Join(e.scratchDir, fmt.Sprintf("%s.%s", job.ID, job.Format))
	// Placeholder payload standing in for transcoded audio bytes.
	if err := os.WriteFile(path, make([]byte, 1024), 0644); err != nil {
		return "", fmt.Errorf("failed to write scratch file: %w", err)
	}
	return path, nil
}

// wait sleeps for d or returns early with the context's error.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
