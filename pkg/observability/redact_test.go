package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/langtrends/pkg/observability"
)

func redactingProvider(logger *slog.Logger) (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(observability.NewRedactor(sdktrace.NewSimpleSpanProcessor(exporter), logger)),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	return tp, exporter
}

func endSpan(tp *sdktrace.TracerProvider, attrs ...attribute.KeyValue) {
	_, span := tp.Tracer("test").Start(context.Background(), "trend.Commit")
	span.SetAttributes(attrs...)
	span.End()
}

func exportedAttrs(t *testing.T, exporter *tracetest.InMemoryExporter) map[string]any {
	t.Helper()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	m := make(map[string]any, len(spans[0].Attributes))
	for _, a := range spans[0].Attributes {
		m[string(a.Key)] = a.Value.AsInterface()
	}

	return m
}

func TestRedactor_KeepsRunAttributes(t *testing.T) {
	t.Parallel()

	tp, exporter := redactingProvider(nil)

	endSpan(tp,
		attribute.Int("trend.rows", 100),
		attribute.String("git.commit", "abc123"),
		attribute.String("langtrends.command", "run"),
		attribute.String("error.type", "timeout"),
		attribute.String("error", "boom"),
	)

	assert.Equal(t, map[string]any{
		"trend.rows":         int64(100),
		"git.commit":         "abc123",
		"langtrends.command": "run",
		"error.type":         "timeout",
		"error":              "boom",
	}, exportedAttrs(t, exporter))
}

func TestRedactor_DropsRepositoryDetails(t *testing.T) {
	t.Parallel()

	tp, exporter := redactingProvider(nil)

	endSpan(tp,
		attribute.String("git.committer.email", "alice@example.com"),
		attribute.String("git.author.name", "Bob"),
		attribute.String("file.path", "secrets/prod.env"),
		attribute.String("repo.path", "/home/alice/work"),
		attribute.String("http.method", "GET"),
		attribute.Int("trend.rows", 3),
	)

	assert.Equal(t, map[string]any{"trend.rows": int64(3)}, exportedAttrs(t, exporter))
}

func TestRedactor_ReportsEachDroppedKeyOnce(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	tp, _ := redactingProvider(slog.New(slog.NewTextHandler(&buf, nil)))

	endSpan(tp, attribute.String("user.id", "1"))
	endSpan(tp, attribute.String("user.id", "2"), attribute.String("file.path", "a.go"))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "user.id"))
	assert.Equal(t, 1, strings.Count(out, "file.path"))
	assert.Contains(t, out, "span attribute not exported")
}
