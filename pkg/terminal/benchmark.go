package terminal

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// BenchmarkData holds the figures printed by PrintBenchmark.
type BenchmarkData struct {
	LinesCounted int64
	// FilesProcessed counts every blob whose lines were requested, cached or not.
	FilesProcessed int64
	BlobsScanned   int64
	BytesScanned   int64
	CacheHits      int64
	CacheMisses    int64
	Elapsed        time.Duration
}

// PrintBenchmark writes the throughput summary of a run.
func PrintBenchmark(w io.Writer, data BenchmarkData) {
	seconds := data.Elapsed.Seconds()

	fmt.Fprintf(w, "\nCounted %s lines in %s files in %.3f seconds. On average:\n",
		humanize.Comma(data.LinesCounted), humanize.Comma(data.FilesProcessed), seconds)
	fmt.Fprintf(w, "%s lines/second\n", humanize.Comma(perUnit(data.LinesCounted, seconds)))
	fmt.Fprintf(w, "%s files/second\n", humanize.Comma(perUnit(data.FilesProcessed, seconds)))
	fmt.Fprintf(w, "%s lines/file\n", humanize.Comma(perUnit(data.LinesCounted, float64(data.FilesProcessed))))
	fmt.Fprintf(w, "Read %s blobs (%s), cache hits %s, misses %s\n",
		humanize.Comma(data.BlobsScanned), humanize.Bytes(uint64(max(data.BytesScanned, 0))),
		humanize.Comma(data.CacheHits), humanize.Comma(data.CacheMisses))
}

func perUnit(total int64, units float64) int64 {
	if units <= 0 {
		return 0
	}

	return int64(math.Floor(float64(total) / units))
}
