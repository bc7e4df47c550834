// Package reasoncache keeps recent Magic-Match justifications in memory.
package reasoncache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	dommm "github.com/momcircle/matchd/internal/domain/magicmatch"
	"github.com/momcircle/matchd/internal/metrics"
)

// DefaultSize is used when New gets a non-positive size.
const DefaultSize = 4096

// Cache is a bounded LRU of results keyed by (viewer, candidate).
// Safe for concurrent use.
type Cache struct {
	lru *lru.Cache[string, dommm.Result]
}

// New creates a cache holding at most size entries.
func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, dommm.Result](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &Cache{lru: c}, nil
}

// Get returns the cached result for the pair.
func (c *Cache) Get(viewerID, candidateID string) (dommm.Result, bool) {
	r, ok := c.lru.Get(key(viewerID, candidateID))
	if ok {
		metrics.ReasonCacheTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.ReasonCacheTotal.WithLabelValues("miss").Inc()
	}
	return r, ok
}

// Add stores r for the pair, evicting the least recently used entry when full.
func (c *Cache) Add(viewerID, candidateID string, r dommm.Result) {
	c.lru.Add(key(viewerID, candidateID), r)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return c.lru.Len() }

func key(viewerID, candidateID string) string {
	return viewerID + "\x00" + candidateID
}
