package observability

import (
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// commandKey records which invocation produced the telemetry.
const commandKey = attribute.Key("langtrends.command")

// identityField is one property of the invocation, named once for log records
// and once for the OTel resource.
type identityField struct {
	logKey string
	key    attribute.Key
	value  string
}

// identity lists the non-empty identifying properties of cfg.
func identity(cfg Config) []identityField {
	all := []identityField{
		{"service", semconv.ServiceNameKey, cfg.ServiceName},
		{"version", semconv.ServiceVersionKey, cfg.ServiceVersion},
		{"env", semconv.DeploymentEnvironmentKey, cfg.Environment},
		{"command", commandKey, cfg.Command},
	}

	fields := all[:0]

	for _, f := range all {
		if f.value != "" {
			fields = append(fields, f)
		}
	}

	return fields
}

func identityLogAttrs(cfg Config) []slog.Attr {
	fields := identity(cfg)
	attrs := make([]slog.Attr, 0, len(fields))

	for _, f := range fields {
		attrs = append(attrs, slog.String(f.logKey, f.value))
	}

	return attrs
}

func identityResourceAttrs(cfg Config) []attribute.KeyValue {
	fields := identity(cfg)
	attrs := make([]attribute.KeyValue, 0, len(fields))

	for _, f := range fields {
		attrs = append(attrs, f.key.String(f.value))
	}

	return attrs
}
