package trend

import (
	"bytes"
	"fmt"

	"github.com/Sumatoshi-tech/langtrends/pkg/cache"
	"github.com/Sumatoshi-tech/langtrends/pkg/gitlib"
)

var newline = []byte{'\n'}

// CountNewlines returns the number of line feed bytes in content. A final line
// without a trailing newline is not counted.
func CountNewlines(content []byte) int {
	return bytes.Count(content, newline)
}

// CounterStats describes the work done by a LineCounter.
type CounterStats struct {
	// Requests is the number of Count calls.
	Requests int64
	// BlobsScanned is the number of blobs actually read from the repository.
	BlobsScanned int64
	// BytesScanned is the total size of the scanned blobs.
	BytesScanned int64
	// LinesCounted is the sum of all counts handed out.
	LinesCounted int64
}

// LineCounter counts lines per blob and memoizes the result by blob hash.
// It is not safe for concurrent use.
type LineCounter struct {
	repo  Repository
	cache cache.LineCache
	stats CounterStats
}

// NewLineCounter creates a counter reading from repo. A nil cache disables
// memoization.
func NewLineCounter(repo Repository, lineCache cache.LineCache) *LineCounter {
	if lineCache == nil {
		lineCache = cache.NewLineCache(false)
	}

	return &LineCounter{repo: repo, cache: lineCache}
}

// Count returns the number of lines in the blob.
func (lc *LineCounter) Count(hash gitlib.Hash) (int, error) {
	lc.stats.Requests++

	if lines, ok := lc.cache.Get(hash); ok {
		lc.stats.LinesCounted += int64(lines)

		return lines, nil
	}

	var lines, size int

	err := lc.repo.ReadBlob(hash, func(content []byte) {
		lines = CountNewlines(content)
		size = len(content)
	})
	if err != nil {
		return 0, fmt.Errorf("count lines in blob %s: %w", hash.Short(), err)
	}

	lc.cache.Put(hash, lines)

	lc.stats.BlobsScanned++
	lc.stats.BytesScanned += int64(size)
	lc.stats.LinesCounted += int64(lines)

	return lines, nil
}

// Stats returns the counter statistics.
func (lc *LineCounter) Stats() CounterStats {
	return lc.stats
}

// CacheStats returns the statistics of the underlying cache.
func (lc *LineCounter) CacheStats() cache.Stats {
	return lc.cache.Stats()
}
