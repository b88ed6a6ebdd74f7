package observability_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Sumatoshi-tech/langtrends/pkg/observability"
)

func TestTextfile_WritesRunMetrics(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "langtrends.prom")

	textfile, err := observability.NewTextfile(path)
	require.NoError(t, err)
	assert.Equal(t, path, textfile.Path())

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(textfile.Reader()))

	t.Cleanup(func() { require.NoError(t, mp.Shutdown(context.Background())) })

	tm, err := observability.NewTrendMetrics(mp.Meter("test"))
	require.NoError(t, err)

	tm.RecordRun(context.Background(), observability.TrendStats{LinesCounted: 42})

	require.NoError(t, textfile.Write())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, "langtrends_lines_counted")
	assert.Contains(t, body, "target_info")
}

func TestTextfile_WriteFailsForMissingDirectory(t *testing.T) {
	t.Parallel()

	textfile, err := observability.NewTextfile(filepath.Join(t.TempDir(), "missing", "out.prom"))
	require.NoError(t, err)

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(textfile.Reader()))

	t.Cleanup(func() { require.NoError(t, mp.Shutdown(context.Background())) })

	assert.Error(t, textfile.Write())
}
