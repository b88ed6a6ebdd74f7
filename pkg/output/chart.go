package output

import (
	"github.com/Sumatoshi-tech/langtrends/pkg/plotpage"
	"github.com/Sumatoshi-tech/langtrends/pkg/trend"
)

// Axis labels.
const (
	RelativeYLabel = "Language usage %"
	AbsoluteYLabel = "Total (stacked) line count"
)

const (
	stackName       = "total"
	areaOpacity     = 0.7
	relativeYMax    = 100
	defaultWidthPx  = 1200
	defaultHeightPx = 800
)

// ChartOptions configures the HTML chart.
type ChartOptions struct {
	Title    string
	Relative bool
	Theme    plotpage.Theme
	Width    int
	Height   int
	// Label optionally renames the series of a column. An empty result keeps
	// the column name.
	Label func(column string) string
}

// Chart renders rows as a stacked area chart in a standalone HTML page.
// Rows are buffered until Finish.
type Chart struct {
	dest    *Destination
	opts    ChartOptions
	columns []string
	dates   []string
	values  map[string][]plotpage.SeriesData
}

// NewChart creates a chart sink.
func NewChart(dest *Destination, opts ChartOptions) *Chart {
	if opts.Theme == "" {
		opts.Theme = plotpage.ThemeDark
	}

	if opts.Width <= 0 {
		opts.Width = defaultWidthPx
	}

	if opts.Height <= 0 {
		opts.Height = defaultHeightPx
	}

	return &Chart{dest: dest, opts: opts, values: make(map[string][]plotpage.SeriesData)}
}

// Start records the series.
func (c *Chart) Start(columns []string) error {
	c.columns = columns

	return nil
}

// AddRow buffers one point per series.
func (c *Chart) AddRow(columns []string, row trend.Row) error {
	c.dates = append(c.dates, row.Date)

	for _, column := range columns {
		c.values[column] = append(c.values[column], row.Value(column))
	}

	return nil
}

// Finish renders and writes the page.
func (c *Chart) Finish() error {
	series := make([]plotpage.LineSeries, 0, len(c.columns))

	for _, column := range c.columns {
		name := column
		if c.opts.Label != nil {
			if label := c.opts.Label(column); label != "" {
				name = label
			}
		}

		series = append(series, plotpage.LineSeries{
			Name:        name,
			Data:        c.values[column],
			Stack:       stackName,
			AreaOpacity: areaOpacity,
		})
	}

	cfg := plotpage.LineChartConfig{
		Title:  c.opts.Title,
		YLabel: AbsoluteYLabel,
		Width:  c.opts.Width,
		Height: c.opts.Height,
	}

	if c.opts.Relative {
		cfg.YLabel = RelativeYLabel
		cfg.YMax = relativeYMax
	}

	chart := plotpage.BuildLineChart(plotpage.NewChartOpts(c.opts.Theme), cfg, c.dates, series)

	w, err := c.dest.Open()
	if err != nil {
		return err
	}

	err = plotpage.Render(w, chart)
	if err != nil {
		c.dest.discard()

		return err
	}

	return c.dest.Commit()
}

// Abort discards partial output.
func (c *Chart) Abort() error {
	return c.dest.Abort()
}
