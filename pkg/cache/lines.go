// Package cache memoizes per-blob line counts across commits.
package cache

import (
	"github.com/Sumatoshi-tech/langtrends/pkg/gitlib"
)

// LineCache maps blob identities to their newline counts. Blobs are immutable,
// so an entry never goes stale for the lifetime of a run.
type LineCache interface {
	Get(hash gitlib.Hash) (int, bool)
	Put(hash gitlib.Hash, lines int)
	Stats() Stats
}

// NewLineCache returns an unbounded memo when enabled, otherwise a cache that
// stores nothing.
func NewLineCache(enabled bool) LineCache {
	if !enabled {
		return disabled{}
	}

	return NewMapCache()
}

// MapCache is an unbounded LineCache. It belongs to a single run and is not
// safe for concurrent use.
type MapCache struct {
	entries map[gitlib.Hash]int
	hits    int64
	misses  int64
}

// NewMapCache creates an empty MapCache.
func NewMapCache() *MapCache {
	return &MapCache{entries: make(map[gitlib.Hash]int)}
}

// Get returns the memoized count for hash.
func (c *MapCache) Get(hash gitlib.Hash) (int, bool) {
	lines, ok := c.entries[hash]
	if ok {
		c.hits++
	} else {
		c.misses++
	}

	return lines, ok
}

// Put stores the count for hash.
func (c *MapCache) Put(hash gitlib.Hash, lines int) {
	c.entries[hash] = lines
}

// Stats returns cache statistics.
func (c *MapCache) Stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

type disabled struct{}

func (disabled) Get(gitlib.Hash) (int, bool) { return 0, false }
func (disabled) Put(gitlib.Hash, int)        {}
func (disabled) Stats() Stats                { return Stats{} }

// Stats holds cache performance metrics.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
	// Evictions counts entries dropped by a bounded cache to make room.
	Evictions int64
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}

	return float64(s.Hits) / float64(total)
}
