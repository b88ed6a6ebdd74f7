package plotpage

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// SeriesData represents a single numeric value in a chart series.
type SeriesData any

// LineSeries defines the properties and data for a single line chart series.
type LineSeries struct {
	Name        string
	Data        []SeriesData
	Color       string  // Optional, uses theme palette if empty.
	Stack       string  // Optional, stack grouping.
	AreaOpacity float32 // Optional, area opacity for area charts.
}

// LineChartConfig describes the page around a line chart.
type LineChartConfig struct {
	Title  string
	XLabel string
	YLabel string
	// YMax pins the y-axis to [0, YMax] when positive.
	YMax float64
	// Width and Height in pixels.
	Width  int
	Height int
}

// BuildLineChart constructs a fully configured go-echarts Line chart using ChartOpts.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildLineChart(cOpts *ChartOpts, cfg LineChartConfig, labels []string, series []LineSeries) *charts.Line {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(cfg.Title, px(cfg.Width), px(cfg.Height))),
		charts.WithTitleOpts(cOpts.Title(cfg.Title, "")),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithXAxisOpts(cOpts.XAxis(cfg.XLabel)),
		charts.WithYAxisOpts(cOpts.YAxis(cfg.YLabel, cfg.YMax)),
		charts.WithLegendOpts(cOpts.Legend()),
		charts.WithGridOpts(cOpts.Grid()),
	)

	line.SetXAxis(labels)

	for i, s := range series {
		lineData := make([]opts.LineData, len(s.Data))
		for j, v := range s.Data {
			lineData[j] = opts.LineData{Value: v}
		}

		color := s.Color
		if color == "" {
			color = cOpts.SeriesColor(i)
		}

		var seriesOpts []charts.SeriesOpts
		if color != "" {
			seriesOpts = append(seriesOpts,
				charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
				charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
			)
		}

		if s.Stack != "" {
			seriesOpts = append(seriesOpts, charts.WithLineChartOpts(opts.LineChart{Stack: s.Stack}))
		}

		if s.AreaOpacity > 0 {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(s.AreaOpacity)}))
		}

		line.AddSeries(s.Name, lineData, seriesOpts...)
	}

	return line
}

// Render writes the chart as a standalone HTML page.
func Render(w io.Writer, chart *charts.Line) error {
	err := chart.Render(w)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}

func px(v int) string {
	if v <= 0 {
		return ""
	}

	return fmt.Sprintf("%dpx", v)
}
