// Package resolver fetches descriptive metadata for a source URL.
//
// The real implementation would call an external extraction service; this
// repo ships a deterministic mock plus a caching wrapper.
package resolver

import (
	"context"

	"github.com/tunegrab/tunegrab-api/internal/domain"
)

// Resolver resolves title/artist/thumbnail/duration for a source URL.
// Failures are reported as *domain.ResolutionError.
type Resolver interface {
	Resolve(ctx context.Context, url string, platform domain.Platform) (*domain.Metadata, error)
}
