package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCommitsSelected = "langtrends.commits.selected"
	metricCommitsAnalyzed = "langtrends.commits.analyzed"
	metricBlobsCounted    = "langtrends.blobs.counted"
	metricLinesCounted    = "langtrends.lines.counted"
	metricCacheHits       = "langtrends.cache.hits"
	metricCacheMisses     = "langtrends.cache.misses"
	metricCacheEvictions  = "langtrends.cache.evictions"
	metricRunDuration     = "langtrends.run.duration.seconds"

	attrStatus = "status"

	statusOK    = "ok"
	statusError = "error"
)

// durationBucketBoundaries covers 10ms to 600s: small repositories finish in
// well under a second, large histories with many columns take minutes.
var durationBucketBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// TrendMetrics holds the OTel instruments for a trend run.
type TrendMetrics struct {
	commitsSelected metric.Int64Counter
	commitsAnalyzed metric.Int64Counter
	blobsCounted    metric.Int64Counter
	linesCounted    metric.Int64Counter
	cacheHits       metric.Int64Counter
	cacheMisses     metric.Int64Counter
	cacheEvictions  metric.Int64Counter
	runDuration     metric.Float64Histogram
}

// TrendStats holds the statistics of a single run, decoupled from the trend
// package types.
type TrendStats struct {
	CommitsSelected int64
	CommitsAnalyzed int64
	BlobsCounted    int64
	LinesCounted    int64
	CacheHits       int64
	CacheMisses     int64
	CacheEvictions  int64
	Duration        time.Duration
	Failed          bool
}

// NewTrendMetrics creates trend metric instruments from the given meter.
func NewTrendMetrics(mt metric.Meter) (*TrendMetrics, error) {
	tm := &TrendMetrics{}

	counters := []struct {
		name string
		desc string
		unit string
		dst  *metric.Int64Counter
	}{
		{metricCommitsSelected, "Commits selected for analysis", "{commit}", &tm.commitsSelected},
		{metricCommitsAnalyzed, "Commits whose tree was aggregated", "{commit}", &tm.commitsAnalyzed},
		{metricBlobsCounted, "Blobs whose lines were counted", "{blob}", &tm.blobsCounted},
		{metricLinesCounted, "Lines counted across all blobs", "{line}", &tm.linesCounted},
		{metricCacheHits, "Line cache hits", "{hit}", &tm.cacheHits},
		{metricCacheMisses, "Line cache misses", "{miss}", &tm.cacheMisses},
		{metricCacheEvictions, "Line counts evicted from a bounded cache", "{entry}", &tm.cacheEvictions},
	}

	for _, c := range counters {
		counter, err := mt.Int64Counter(c.name,
			metric.WithDescription(c.desc),
			metric.WithUnit(c.unit),
		)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", c.name, err)
		}

		*c.dst = counter
	}

	runDuration, err := mt.Float64Histogram(metricRunDuration,
		metric.WithDescription("Run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunDuration, err)
	}

	tm.runDuration = runDuration

	return tm, nil
}

// RecordRun records the statistics of a finished run.
// Safe to call on a nil receiver (no-op).
func (tm *TrendMetrics) RecordRun(ctx context.Context, stats TrendStats) {
	if tm == nil {
		return
	}

	tm.commitsSelected.Add(ctx, stats.CommitsSelected)
	tm.commitsAnalyzed.Add(ctx, stats.CommitsAnalyzed)
	tm.blobsCounted.Add(ctx, stats.BlobsCounted)
	tm.linesCounted.Add(ctx, stats.LinesCounted)
	tm.cacheHits.Add(ctx, stats.CacheHits)
	tm.cacheMisses.Add(ctx, stats.CacheMisses)
	tm.cacheEvictions.Add(ctx, stats.CacheEvictions)

	status := statusOK
	if stats.Failed {
		status = statusError
	}

	tm.runDuration.Record(ctx, stats.Duration.Seconds(),
		metric.WithAttributes(attribute.String(attrStatus, status)))
}
