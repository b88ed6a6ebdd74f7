// Package plotpage builds themed go-echarts charts and renders them as
// standalone HTML pages.
package plotpage

import (
	"errors"
	"fmt"
)

// Theme represents a color theme for charts.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ErrUnknownTheme is returned by ParseTheme for unsupported names.
var ErrUnknownTheme = errors.New("unknown theme")

// ParseTheme validates a theme name.
func ParseTheme(name string) (Theme, error) {
	switch Theme(name) {
	case ThemeDark, ThemeLight:
		return Theme(name), nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownTheme, name, ThemeDark, ThemeLight)
	}
}

// ThemeConfig holds the theme-specific styling values.
type ThemeConfig struct {
	// Page background behind the chart.
	Background string

	// Chart-specific.
	ChartGrid      string
	ChartAxis      string
	ChartText      string
	ChartTextMuted string

	// Series colors, cycled when there are more series than colors.
	Palette []string

	// ECharts theme name.
	EChartsTheme string
}

// GetThemeConfig returns the configuration for a given theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	switch theme {
	case ThemeDark:
		return darkTheme
	case ThemeLight:
		return lightTheme
	default:
		return lightTheme
	}
}

var lightTheme = ThemeConfig{
	Background: "#fafaf9", // stone-50.

	ChartGrid:      "#e7e5e4", // stone-200.
	ChartAxis:      "#a8a29e", // stone-400.
	ChartText:      "#44403c", // stone-700.
	ChartTextMuted: "#78716c", // stone-500.

	Palette: []string{
		"#a16207", // amber-700.
		"#0369a1", // sky-700.
		"#4d7c0f", // lime-700.
		"#7c3aed", // violet-600.
		"#be185d", // pink-700.
		"#0891b2", // cyan-600.
		"#c2410c", // orange-700.
		"#4338ca", // indigo-700.
		"#15803d", // green-700.
		"#b91c1c", // red-700.
	},

	EChartsTheme: "",
}

var darkTheme = ThemeConfig{
	Background: "#0c0a09", // stone-950.

	ChartGrid:      "#44403c", // stone-700.
	ChartAxis:      "#57534e", // stone-600.
	ChartText:      "#d6d3d1", // stone-300.
	ChartTextMuted: "#a8a29e", // stone-400.

	Palette: []string{
		"#fbbf24", // amber-400.
		"#38bdf8", // sky-400.
		"#a3e635", // lime-400.
		"#a78bfa", // violet-400.
		"#f472b6", // pink-400.
		"#22d3ee", // cyan-400.
		"#fb923c", // orange-400.
		"#818cf8", // indigo-400.
		"#4ade80", // green-400.
		"#f87171", // red-400.
	},

	EChartsTheme: "",
}
