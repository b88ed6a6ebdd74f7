package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Textfile exports OTel instruments to a Prometheus text-format file. A CLI
// run is too short lived to be scraped, so metrics are written once at
// shutdown for the node_exporter textfile collector to pick up.
//
// Each Textfile owns an independent registry so repeated construction never
// hits duplicate collector registration.
type Textfile struct {
	path     string
	registry *prometheus.Registry
	reader   sdkmetric.Reader
}

// NewTextfile creates a textfile exporter targeting path.
func NewTextfile(path string) (*Textfile, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &Textfile{path: path, registry: registry, reader: exporter}, nil
}

// Reader returns the metric reader to attach to a MeterProvider.
func (tf *Textfile) Reader() sdkmetric.Reader {
	return tf.reader
}

// Path returns the target file.
func (tf *Textfile) Path() string {
	return tf.path
}

// Write gathers the current metric values and atomically replaces the file.
func (tf *Textfile) Write() error {
	err := prometheus.WriteToTextfile(tf.path, tf.registry)
	if err != nil {
		return fmt.Errorf("write metrics file %s: %w", tf.path, err)
	}

	return nil
}
