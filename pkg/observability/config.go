// Package observability provides OpenTelemetry tracing, run metrics and
// structured logging for the langtrends command line.
package observability

import (
	"io"
	"log/slog"
)

const (
	defaultServiceName        = "langtrends"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the version of the running binary.
	ServiceVersion string

	// Environment names where the tool runs, e.g. "ci" or "laptop". It becomes
	// deployment.environment on telemetry and env on log records.
	Environment string

	// Command is the invocation being executed ("run", "list").
	Command string

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables OTLP export.
	OTLPEndpoint string

	// OTLPHeaders are additional gRPC metadata headers for the OTLP exporter.
	OTLPHeaders map[string]string

	// OTLPInsecure disables TLS for the OTLP gRPC connection.
	OTLPInsecure bool

	// MetricsFile, when set, receives the run metrics in the Prometheus text
	// format on shutdown (node_exporter textfile collector layout).
	MetricsFile string

	// DebugTrace exports every run and logs span attributes the exporter drops.
	DebugTrace bool

	// SampleRatio is the fraction of runs whose trace is exported. Zero and
	// one both export every run.
	SampleRatio float64

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// LogJSON enables JSON-formatted log output.
	LogJSON bool

	// LogWriter receives log records. Nil means os.Stderr.
	LogWriter io.Writer

	// ShutdownTimeoutSec is the maximum seconds to wait for flush on shutdown.
	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config that logs warnings to stderr and exports
// nothing.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		LogLevel:           slog.LevelWarn,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
