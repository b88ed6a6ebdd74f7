package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// newTracerProvider exports spans over OTLP through the redactor. With
// DebugTrace the redactor reports dropped attribute keys to logger.
func newTracerProvider(
	ctx context.Context, cfg Config, res *resource.Resource, logger *slog.Logger,
) (trace.TracerProvider, closer, error) {
	if cfg.OTLPEndpoint == "" {
		return nooptrace.NewTracerProvider(), noopCloser, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}

	if cfg.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	if len(cfg.OTLPHeaders) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(cfg.OTLPHeaders))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create trace exporter: %w", err)
	}

	var dropLogger *slog.Logger
	if cfg.DebugTrace {
		dropLogger = logger
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(runSampler(cfg)),
		sdktrace.WithSpanProcessor(NewRedactor(sdktrace.NewBatchSpanProcessor(exporter), dropLogger)),
	)

	return tp, tp.Shutdown, nil
}

// runSampler decides which runs are exported. Each run or list invocation
// opens one root span, so the ratio picks whole runs and every child span
// follows its root.
func runSampler(cfg Config) sdktrace.Sampler {
	if cfg.DebugTrace || cfg.SampleRatio <= 0 || cfg.SampleRatio >= 1 {
		return sdktrace.AlwaysSample()
	}

	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
}
