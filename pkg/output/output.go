// Package output implements the sinks that render trend rows: delimited text,
// an HTML chart, and JSON or YAML documents.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/langtrends/pkg/plotpage"
	"github.com/Sumatoshi-tech/langtrends/pkg/trend"
)

// ErrUnsupportedOutputFormat is returned for output paths with an unknown extension.
var ErrUnsupportedOutputFormat = errors.New("output file format not supported")

// Format identifies a sink by file extension.
type Format string

// Supported formats.
const (
	FormatTSV  Format = ".tsv"
	FormatCSV  Format = ".csv"
	FormatHTML Format = ".html"
	FormatJSON Format = ".json"
	FormatYAML Format = ".yaml"
	FormatYML  Format = ".yml"
)

// DefaultSuffix is appended to the working directory name for the default output.
const DefaultSuffix = "-language-trends.html"

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatTSV, FormatCSV, FormatHTML, FormatJSON, FormatYAML, FormatYML}
}

// FormatOf returns the format of path from its extension.
func FormatOf(path string) (Format, error) {
	ext := Format(strings.ToLower(filepath.Ext(path)))

	for _, f := range Formats() {
		if f == ext {
			return f, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedOutputFormat, filepath.Ext(path))
}

// IsStdout reports whether path names only a format, like ".tsv", which means
// writing to standard output.
func IsStdout(path string) bool {
	return path != "" && filepath.Base(path) == filepath.Ext(path) && !strings.ContainsRune(path, os.PathSeparator)
}

// DefaultPath returns "<dir basename>-language-trends.html".
func DefaultPath(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	return filepath.Base(abs) + DefaultSuffix
}

// FormatValue renders a row value the way delimited text shows it: integers
// without a fraction, percentages with up to two decimals.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Options configures the sink built by New.
type Options struct {
	// Path selects the format by extension. A bare extension writes to Stdout.
	Path string
	// Stdout receives output for bare extension paths.
	Stdout io.Writer
	// Notices receives the "Wrote output to file" message. Nil disables it.
	Notices io.Writer

	// Chart settings.
	Title    string
	Relative bool
	Theme    plotpage.Theme
	Width    int
	Height   int
	// Label optionally renames chart series.
	Label func(column string) string
}

// New builds the sink for opts.Path. Unsupported formats fail here, before any
// file is touched.
func New(opts Options) (trend.Sink, error) {
	format, err := FormatOf(opts.Path)
	if err != nil {
		return nil, err
	}

	dest := newDestination(opts)

	switch format {
	case FormatTSV:
		return NewSeparated(dest, "\t"), nil
	case FormatCSV:
		return NewSeparated(dest, ","), nil
	case FormatHTML:
		return NewChart(dest, ChartOptions{
			Title:    opts.Title,
			Relative: opts.Relative,
			Theme:    opts.Theme,
			Width:    opts.Width,
			Height:   opts.Height,
			Label:    opts.Label,
		}), nil
	case FormatJSON:
		return NewJSON(dest, opts.Relative), nil
	case FormatYAML, FormatYML:
		return NewYAML(dest, opts.Relative), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOutputFormat, format)
	}
}
