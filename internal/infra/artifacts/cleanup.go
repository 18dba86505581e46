package artifacts

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Cleaner removes leftover scratch files from failed or interrupted
// conversions. Published artifacts are retained indefinitely for the
// history view; only the scratch dir is swept.
type Cleaner struct {
	dir      string
	maxAge   time.Duration
	interval time.Duration
	stopCh   chan struct{}
}

// NewCleaner creates a Cleaner for dir.
func NewCleaner(dir string, maxAge, interval time.Duration) *Cleaner {
	return &Cleaner{
		dir:      dir,
		maxAge:   maxAge,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the periodic sweep until Stop or ctx cancellation.
func (c *Cleaner) Start(ctx context.Context) {
	if c.dir == "" || c.interval <= 0 {
		return
	}

	slog.Info("Starting scratch cleanup",
		"dir", c.dir,
		"max_age", c.maxAge,
		"interval", c.interval,
	)

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		c.sweep()

		for {
			select {
			case <-ticker.C:
				c.sweep()
			case <-ctx.Done():
				return
			case <-c.stopCh:
				return
			}
		}
	}()
}

// Stop stops the cleanup goroutine.
func (c *Cleaner) Stop() {
	close(c.stopCh)
}

func (c *Cleaner) sweep() {
	threshold := time.Now().Add(-c.maxAge)
	deleted := 0

	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.ModTime().Before(threshold) {
			if err := os.Remove(path); err != nil {
				slog.Warn("Failed to delete scratch file", "path", path, "error", err)
			} else {
				deleted++
			}
		}
		return nil
	})

	if err != nil {
		slog.Error("Scratch cleanup error", "dir", c.dir, "error", err)
	}

	if deleted > 0 {
		slog.Info("Scratch cleanup completed", "deleted", deleted, "max_age", c.maxAge)
	}
}
