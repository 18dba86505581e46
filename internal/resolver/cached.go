package resolver

import (
	"context"
	"time"

	"github.com/tunegrab/tunegrab-api/internal/domain"
	gocache "github.com/patrickmn/go-cache"
)

// Cached wraps a Resolver and memoizes results by URL so repeated requests
// for the same source skip the upstream call.
type Cached struct {
	inner Resolver
	cache *gocache.Cache
}

// NewCached creates a caching wrapper with the given TTL and sweep interval.
func NewCached(inner Resolver, ttl, cleanupInterval time.Duration) *Cached {
	return &Cached{
		inner: inner,
		cache: gocache.New(ttl, cleanupInterval),
	}
}

// DefaultCached wraps inner with a 1 hour TTL and 10 minute sweep.
func DefaultCached(inner Resolver) *Cached {
	return NewCached(inner, time.Hour, 10*time.Minute)
}

func (c *Cached) Resolve(ctx context.Context, url string, platform domain.Platform) (*domain.Metadata, error) {
	if item, found := c.cache.Get(url); found {
		if meta, ok := item.(*domain.Metadata); ok {
			cp := *meta
			return &cp, nil
		}
	}

	meta, err := c.inner.Resolve(ctx, url, platform)
	if err != nil {
		return nil, err
	}

	cp := *meta
	c.cache.Set(url, &cp, gocache.DefaultExpiration)
	return meta, nil
}

// ItemCount returns the number of cached entries.
func (c *Cached) ItemCount() int {
	return c.cache.ItemCount()
}
