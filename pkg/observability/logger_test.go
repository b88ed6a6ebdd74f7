package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/langtrends/pkg/observability"
)

func newJSONLogger(buf *bytes.Buffer, attrs ...slog.Attr) *slog.Logger {
	inner := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	return slog.New(observability.NewLogHandler(inner, attrs...))
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	return record
}

func TestLogHandler_AddsSpanIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newJSONLogger(&buf, slog.String("command", "run"))

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	logger.InfoContext(ctx, "aggregated commit")

	record := decodeRecord(t, &buf)
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record["trace_id"])
	assert.Equal(t, "0102030405060708", record["span_id"])
	assert.Equal(t, "run", record["command"])
}

func TestLogHandler_NoSpan(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	newJSONLogger(&buf).InfoContext(context.Background(), "listed extensions")

	record := decodeRecord(t, &buf)
	assert.NotContains(t, record, "trace_id")
	assert.NotContains(t, record, "span_id")
	assert.Equal(t, "listed extensions", record["msg"])
}

func TestLogHandler_AttrsStayAboveGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := newJSONLogger(&buf, slog.String("service", "langtrends")).
		With(slog.String("op", "select")).
		WithGroup("trend")

	logger.InfoContext(context.Background(), "stage done", slog.String("column", ".go"))

	record := decodeRecord(t, &buf)
	assert.Equal(t, "langtrends", record["service"])
	assert.Equal(t, "select", record["op"])

	group, ok := record["trend"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, ".go", group["column"])
}
