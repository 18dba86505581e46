package search

import (
	"context"
	"fmt"

	"github.com/tunegrab/tunegrab-api/internal/domain"
)

// Mock fabricates plausible results from the query text, standing in for
// the real catalog integrations.
type Mock struct{}

// NewMock creates a mock search provider.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return []domain.SearchResult{
		{
			ID:        "1",
			Title:     fmt.Sprintf("%s - Official Audio", query),
			Artist:    "Artist Name",
			Platform:  domain.PlatformYouTube,
			URL:       "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			Thumbnail: "https://picsum.photos/seed/1/300/300",
			Duration:  245,
		},
		{
			ID:        "2",
			Title:     fmt.Sprintf("%s (Live Performance)", query),
			Artist:    "Live Band",
			Platform:  domain.PlatformYouTube,
			URL:       "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			Thumbnail: "https://picsum.photos/seed/2/300/300",
			Duration:  312,
		},
		{
			ID:        "3",
			Title:     fmt.Sprintf("Best of %s", query),
			Artist:    "Compilation",
			Platform:  domain.PlatformSoundCloud,
			URL:       "https://soundcloud.com/example",
			Thumbnail: "https://picsum.photos/seed/3/300/300",
			Duration:  180,
		},
	}, nil
}
