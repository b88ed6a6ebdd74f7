package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Sumatoshi-tech/langtrends/pkg/gitlib"
)

// LRUCache is a LineCache holding at most a fixed number of entries, evicting
// the least recently used one first. Like MapCache it belongs to a single run.
type LRUCache struct {
	entries   *lru.Cache[gitlib.Hash, int]
	hits      int64
	misses    int64
	evictions int64
}

// NewLRUCache creates an LRUCache with room for size entries.
func NewLRUCache(size int) (*LRUCache, error) {
	entries, err := lru.New[gitlib.Hash, int](size)
	if err != nil {
		return nil, fmt.Errorf("create line cache of %d entries: %w", size, err)
	}

	return &LRUCache{entries: entries}, nil
}

// NewBoundedLineCache returns an LRUCache for a positive size and an
// unbounded MapCache otherwise.
func NewBoundedLineCache(size int) (LineCache, error) {
	if size <= 0 {
		return NewMapCache(), nil
	}

	return NewLRUCache(size)
}

// Get returns the memoized count for hash and marks it recently used.
func (c *LRUCache) Get(hash gitlib.Hash) (int, bool) {
	lines, ok := c.entries.Get(hash)
	if ok {
		c.hits++
	} else {
		c.misses++
	}

	return lines, ok
}

// Put stores the count for hash.
func (c *LRUCache) Put(hash gitlib.Hash, lines int) {
	if c.entries.Add(hash, lines) {
		c.evictions++
	}
}

// Stats returns cache statistics.
func (c *LRUCache) Stats() Stats {
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Entries:   c.entries.Len(),
		Evictions: c.evictions,
	}
}
