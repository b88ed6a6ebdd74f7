package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/langtrends/pkg/observability"
)

func TestInit_NoopWithoutExporters(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "trend.Run")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	providers.Logger.InfoContext(ctx, "not shown at warn level")

	require.NoError(t, providers.Shutdown(context.Background()))
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_MetricsFileWrittenOnShutdown(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.prom")

	cfg := observability.DefaultConfig()
	cfg.MetricsFile = path
	cfg.Environment = "ci"

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	tm, err := observability.NewTrendMetrics(providers.Meter)
	require.NoError(t, err)

	tm.RecordRun(context.Background(), observability.TrendStats{CommitsSelected: 3})

	require.NoError(t, providers.Shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "langtrends_commits_selected")
	assert.Contains(t, string(data), `deployment_environment="ci"`)
}

func TestInit_LoggerCarriesIdentity(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogWriter = &buf
	cfg.LogLevel = slog.LevelDebug
	cfg.Command = "run"
	cfg.Environment = "ci"
	cfg.ServiceVersion = "1.2.3"

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	providers.Logger.Debug("selected commits", "count", 4)

	out := buf.String()
	assert.Contains(t, out, "selected commits")
	assert.Contains(t, out, "service=langtrends")
	assert.Contains(t, out, "version=1.2.3")
	assert.Contains(t, out, "env=ci")
	assert.Contains(t, out, "command=run")
}

func TestInit_EmptyIdentityFieldsOmitted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogWriter = &buf

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	providers.Logger.Warn("history truncated")

	assert.Contains(t, buf.String(), "service=langtrends")
	assert.NotContains(t, buf.String(), "env=")
	assert.NotContains(t, buf.String(), "command=")
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{"empty", "", nil},
		{"single", "key=value", map[string]string{"key": "value"}},
		{"multiple", "k1=v1,k2=v2", map[string]string{"k1": "v1", "k2": "v2"}},
		{"spaces", " k1 = v1 , k2 = v2 ", map[string]string{"k1": "v1", "k2": "v2"}},
		{"no_equals", "invalid", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, observability.ParseOTLPHeaders(tt.input))
		})
	}
}

func TestRunResource(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.Command = "list"
	cfg.Environment = "ci"

	res, err := observability.RunResource(context.Background(), cfg)
	require.NoError(t, err)

	set := res.Set()

	command, ok := set.Value(attribute.Key("langtrends.command"))
	require.True(t, ok)
	assert.Equal(t, "list", command.AsString())

	env, ok := set.Value(attribute.Key("deployment.environment"))
	require.True(t, ok)
	assert.Equal(t, "ci", env.AsString())

	service, ok := set.Value(attribute.Key("service.name"))
	require.True(t, ok)
	assert.Equal(t, "langtrends", service.AsString())

	_, ok = set.Value(attribute.Key("service.version"))
	assert.False(t, ok)
}

// traceIDWithLow returns a trace ID whose low 8 bytes, the part ratio sampling
// looks at, are all b.
func traceIDWithLow(b byte) trace.TraceID {
	var id trace.TraceID
	for i := 8; i < len(id); i++ {
		id[i] = b
	}

	id[0] = 1

	return id
}

func decide(cfg observability.Config, id trace.TraceID) sdktrace.SamplingDecision {
	return observability.RunSampler(cfg).ShouldSample(sdktrace.SamplingParameters{
		ParentContext: context.Background(),
		TraceID:       id,
		Name:          "trend.Run",
	}).Decision
}

func TestRunSampler(t *testing.T) {
	t.Parallel()

	low, high := traceIDWithLow(0x00), traceIDWithLow(0xff)

	tests := []struct {
		name     string
		debug    bool
		ratio    float64
		wantLow  sdktrace.SamplingDecision
		wantHigh sdktrace.SamplingDecision
	}{
		{"default exports every run", false, 0, sdktrace.RecordAndSample, sdktrace.RecordAndSample},
		{"full ratio", false, 1, sdktrace.RecordAndSample, sdktrace.RecordAndSample},
		{"half ratio", false, 0.5, sdktrace.RecordAndSample, sdktrace.Drop},
		{"debug trace overrides ratio", true, 0.01, sdktrace.RecordAndSample, sdktrace.RecordAndSample},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := observability.DefaultConfig()
			cfg.DebugTrace = tt.debug
			cfg.SampleRatio = tt.ratio

			assert.Equal(t, tt.wantLow, decide(cfg, low))
			assert.Equal(t, tt.wantHigh, decide(cfg, high))
		})
	}
}
