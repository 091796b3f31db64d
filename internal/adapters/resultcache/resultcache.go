// Package resultcache memoizes recommendation results per query.
package resultcache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/songsim/internal/domain/filter"
	"github.com/okian/songsim/internal/domain/types"
)

// Key identifies one recommendation query against a loaded catalog.
type Key struct {
	Generation uint64 // catalog build the result belongs to
	Query      int
	K          int
	Popularity filter.Popularity
	Genre      filter.Genre
}

// Cache stores ranked results. Implementations are safe for concurrent use.
type Cache interface {
	// Get returns a copy of the cached result for key.
	Get(ctx context.Context, key Key) ([]types.Recommendation, bool)

	// Add stores a copy of recs under key, evicting the least recently used
	// entry when full.
	Add(ctx context.Context, key Key, recs []types.Recommendation)

	// Purge drops every entry.
	Purge(ctx context.Context)

	Len() int
}

// lruCache implements Cache on a fixed-size LRU.
type lruCache struct {
	entries *lru.Cache[Key, []types.Recommendation]
}

// nopCache is used when caching is disabled.
type nopCache struct{}

// New creates a Cache holding up to size results. A size of zero or less
// returns a cache that stores nothing.
func New(opts ...Option) (Cache, error) {
	s := settings{size: DefaultSize}
	for _, opt := range opts {
		opt(&s)
	}
	if s.size <= 0 {
		return nopCache{}, nil
	}

	entries, err := lru.New[Key, []types.Recommendation](s.size)
	if err != nil {
		return nil, err
	}
	return &lruCache{entries: entries}, nil
}

func (c *lruCache) Get(_ context.Context, key Key) ([]types.Recommendation, bool) {
	recs, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return clone(recs), true
}

func (c *lruCache) Add(_ context.Context, key Key, recs []types.Recommendation) {
	c.entries.Add(key, clone(recs))
}

func (c *lruCache) Purge(_ context.Context) {
	c.entries.Purge()
}

func (c *lruCache) Len() int {
	return c.entries.Len()
}

func (nopCache) Get(context.Context, Key) ([]types.Recommendation, bool) { return nil, false }
func (nopCache) Add(context.Context, Key, []types.Recommendation)       {}
func (nopCache) Purge(context.Context)                                  {}
func (nopCache) Len() int                                               { return 0 }

func clone(recs []types.Recommendation) []types.Recommendation {
	out := make([]types.Recommendation, len(recs))
	copy(out, recs)
	return out
}
