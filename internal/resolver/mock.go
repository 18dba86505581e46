package resolver

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/tunegrab/tunegrab-api/internal/domain"
)

// mockCatalog is the pool of titles the mock resolver picks from.
var mockCatalog = []domain.Metadata{
	{Title: "Summer Vibes Mix 2024", Artist: "DJ Chill"},
	{Title: "Epic Movie Soundtrack", Artist: "Orchestra Masters"},
	{Title: "Lofi Hip Hop Beats", Artist: "Lofi Producer"},
	{Title: "Rock Legends Collection", Artist: "Classic Rock Band"},
	{Title: "Electronic Dance Mix", Artist: "EDM Artist"},
}

// Mock is a deterministic stand-in for the external metadata service:
// the same URL always resolves to the same metadata.
type Mock struct{}

// NewMock creates a mock resolver.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Resolve(ctx context.Context, url string, platform domain.Platform) (*domain.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.ResolutionError{URL: url, Err: err}
	}

	h := fnv.New32a()
	h.Write([]byte(url))
	seed := h.Sum32()

	meta := mockCatalog[seed%uint32(len(mockCatalog))]
	meta.Thumbnail = fmt.Sprintf("https://picsum.photos/seed/%d/300/300", seed)
	meta.Duration = 60 + int(seed%300) // 1-6 minutes
	return &meta, nil
}
