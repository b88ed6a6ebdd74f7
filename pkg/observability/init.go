package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/trace"
)

// scopeName is the instrumentation scope of every span and instrument.
const scopeName = "langtrends"

// Providers holds the initialized observability providers.
type Providers struct {
	// Tracer is the named tracer for creating spans.
	Tracer trace.Tracer

	// Meter is the named meter for creating instruments.
	Meter metric.Meter

	// Logger is the context-aware structured logger.
	Logger *slog.Logger

	// Shutdown flushes pending telemetry and writes the metrics file. Only the
	// first call does any work; later calls return its result.
	Shutdown func(ctx context.Context) error
}

// closer releases one provider.
type closer func(ctx context.Context) error

// Init builds the providers for one invocation. Without an OTLP endpoint the
// tracer is a no-op, and without an endpoint or a metrics file so is the meter.
func Init(cfg Config) (Providers, error) {
	ctx := context.Background()
	logger := newLogger(cfg)

	res, err := runResource(ctx, cfg)
	if err != nil {
		return Providers{}, err
	}

	tp, closeTraces, err := newTracerProvider(ctx, cfg, res, logger)
	if err != nil {
		return Providers{}, fmt.Errorf("build tracer provider: %w", err)
	}

	mp, closeMetrics, err := newMeterProvider(ctx, cfg, res)
	if err != nil {
		return Providers{}, errors.Join(fmt.Errorf("build meter provider: %w", err), closeTraces(ctx))
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	return Providers{
		Tracer:   tp.Tracer(scopeName),
		Meter:    mp.Meter(scopeName),
		Logger:   logger,
		Shutdown: shutdownOnce(cfg.ShutdownTimeoutSec, closeMetrics, closeTraces),
	}, nil
}

// shutdownOnce runs closers in order under a shared deadline, once.
func shutdownOnce(timeoutSec int, closers ...closer) func(ctx context.Context) error {
	if timeoutSec <= 0 {
		timeoutSec = defaultShutdownTimeoutSec
	}

	var (
		once sync.Once
		err  error
	)

	return func(ctx context.Context) error {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
			defer cancel()

			errs := make([]error, 0, len(closers))
			for _, c := range closers {
				errs = append(errs, c(ctx))
			}

			err = errors.Join(errs...)
		})

		return err
	}
}

func noopCloser(context.Context) error { return nil }

// runResource describes the invocation on every exported span and metric.
func runResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(identityResourceAttrs(cfg)...),
	)
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}

	return res, nil
}

// newMeterProvider feeds the run metrics to OTLP, to the Prometheus textfile,
// or to both. Closing it writes the textfile before the SDK shuts down.
func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (metric.MeterProvider, closer, error) {
	if cfg.OTLPEndpoint == "" && cfg.MetricsFile == "" {
		return noopmetric.NewMeterProvider(), noopCloser, nil
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if cfg.OTLPEndpoint != "" {
		exporter, err := otlpmetricgrpc.New(ctx, otlpMetricOptions(cfg)...)
		if err != nil {
			return nil, nil, fmt.Errorf("create metric exporter: %w", err)
		}

		opts = append(opts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	}

	var textfile *Textfile

	if cfg.MetricsFile != "" {
		var err error

		textfile, err = NewTextfile(cfg.MetricsFile)
		if err != nil {
			return nil, nil, err
		}

		opts = append(opts, sdkmetric.WithReader(textfile.Reader()))
	}

	mp := sdkmetric.NewMeterProvider(opts...)

	return mp, func(ctx context.Context) error {
		var writeErr error
		if textfile != nil {
			writeErr = textfile.Write()
		}

		return errors.Join(writeErr, mp.Shutdown(ctx))
	}, nil
}

func otlpMetricOptions(cfg Config) []otlpmetricgrpc.Option {
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}

	if cfg.OTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	if len(cfg.OTLPHeaders) > 0 {
		opts = append(opts, otlpmetricgrpc.WithHeaders(cfg.OTLPHeaders))
	}

	return opts
}

// ParseOTLPHeaders parses "key=value,key=value" into gRPC metadata. Pairs
// without "=" are skipped; nil is returned when nothing is left.
func ParseOTLPHeaders(raw string) map[string]string {
	var headers map[string]string

	for pair := range strings.SplitSeq(raw, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		if headers == nil {
			headers = make(map[string]string)
		}

		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	return headers
}
