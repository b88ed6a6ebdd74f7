package commands

import (
	"context"
	"io"

	"github.com/Sumatoshi-tech/langtrends/pkg/config"
	"github.com/Sumatoshi-tech/langtrends/pkg/observability"
	"github.com/Sumatoshi-tech/langtrends/pkg/trend"
	"github.com/Sumatoshi-tech/langtrends/pkg/version"
)

func initObservability(cfg *config.Config, command string, logOut io.Writer) (observability.Providers, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Command = command
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.MetricsFile = cfg.Telemetry.MetricsFile
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.DebugTrace = cfg.Telemetry.DebugTrace
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.LogWriter = logOut

	level, err := config.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		return observability.Providers{}, err
	}

	obsCfg.LogLevel = level

	return observability.Init(obsCfg)
}

func shutdownObservability(providers observability.Providers) {
	err := providers.Shutdown(context.Background())
	if err != nil {
		providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}

// recordRun exports the figures of a finished run. Metric setup failures are
// logged and otherwise ignored.
func recordRun(ctx context.Context, providers observability.Providers, summary trend.Summary, runErr error) {
	metrics, err := observability.NewTrendMetrics(providers.Meter)
	if err != nil {
		providers.Logger.Warn("create run metrics", "error", err)

		return
	}

	metrics.RecordRun(ctx, observability.TrendStats{
		CommitsSelected: int64(summary.Selected),
		CommitsAnalyzed: int64(summary.Rows),
		BlobsCounted:    summary.Counter.BlobsScanned,
		LinesCounted:    summary.Counter.LinesCounted,
		CacheHits:       summary.Cache.Hits,
		CacheMisses:     summary.Cache.Misses,
		CacheEvictions:  summary.Cache.Evictions,
		Duration:        summary.Elapsed,
		Failed:          runErr != nil,
	})
}
