// Package search defines the search provider contract.
package search

import (
	"context"

	"github.com/tunegrab/tunegrab-api/internal/domain"
)

// Provider searches external catalogs for media matching a query.
// An empty result slice is a successful search with no matches.
type Provider interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}
