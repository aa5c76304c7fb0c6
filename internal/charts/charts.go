// Package charts renders yearly statistics as interactive HTML charts.
package charts

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/raceops/rewind/internal/yearly"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string   // Chart title
	Subtitle   string   // Chart subtitle
	Width      string   // Chart width (e.g., "900px")
	Height     string   // Chart height (e.g., "500px")
	Theme      string   // Chart theme
	ShowLegend bool     // Show legend
	Smooth     bool     // Smooth line (for line charts)
	Colors     []string // Custom colors
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:      "",
		Subtitle:   "",
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
		Smooth:     true,
		Colors:     []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE", "#3BA272", "#FC8452", "#9A60B4", "#EA7CCC"},
	}
}

// RenderPointHistory creates a line chart of the player's cumulative
// points across the year. samples are the fixed evenly spaced instants
// produced by the engine; year anchors the axis labels.
func RenderPointHistory(samples []int, year int, config ChartConfig, outputPath string) error {
	if len(samples) == 0 {
		return fmt.Errorf("no point history samples")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithColorsOpts(opts.Colors{
			config.Colors[0],
		}),
	)

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	step := end.Sub(start) / time.Duration(len(samples)-1)

	xLabels := make([]string, len(samples))
	yData := make([]opts.LineData, len(samples))
	for i, v := range samples {
		xLabels[i] = start.Add(step * time.Duration(i)).Format("Jan 2")
		yData[i] = opts.LineData{Value: v}
	}

	line.SetXAxis(xLabels).
		AddSeries("Points", yData).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{
				Smooth: opts.Bool(config.Smooth),
			}),
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	return renderToFile(line, outputPath)
}

// RenderCategoryRadar creates a radar chart of per-category playtime and
// completion. Activity values are raw seconds and get normalized by the
// series maximum; completion ratios are already in [0, 1].
func RenderCategoryRadar(series *yearly.RadarSeries, config ChartConfig, outputPath string) error {
	if series == nil || len(series.Labels) == 0 {
		return fmt.Errorf("no radar series")
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator: radarIndicators(series.Labels),
		}),
	)

	maxActivity := 0.0
	for _, v := range series.Activity {
		if v > maxActivity {
			maxActivity = v
		}
	}

	activity := make([]float64, len(series.Activity))
	for i, v := range series.Activity {
		if maxActivity > 0 {
			activity[i] = v / maxActivity
		}
	}

	radar.AddSeries("Playtime", []opts.RadarData{{Value: activity}}).
		AddSeries("Completion", []opts.RadarData{{Value: series.Completion}})

	return renderToFile(radar, outputPath)
}

func radarIndicators(labels []string) []*opts.Indicator {
	indicators := make([]*opts.Indicator, len(labels))
	for i, label := range labels {
		indicators[i] = &opts.Indicator{Name: label, Max: 1}
	}
	return indicators
}

// RenderSlowFinishes creates a bar chart of the year's longest single
// completions.
func RenderSlowFinishes(finishes []yearly.SlowFinish, config ChartConfig, outputPath string) error {
	if len(finishes) == 0 {
		return fmt.Errorf("no slow finishes")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
		}),
		charts.WithColorsOpts(opts.Colors{
			config.Colors[3],
		}),
	)

	xLabels := make([]string, len(finishes))
	yData := make([]opts.BarData, len(finishes))
	for i, f := range finishes {
		xLabels[i] = f.Map
		yData[i] = opts.BarData{Value: f.Time / 3600}
	}

	bar.SetXAxis(xLabels).
		AddSeries("Hours", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	return renderToFile(bar, outputPath)
}

// RenderFinishWindow creates a bar chart of per-map finish counts inside
// the busiest 60-minute window.
func RenderFinishWindow(window *yearly.FinishWindow, spans []yearly.WindowSpan, config ChartConfig, outputPath string) error {
	if window == nil || len(window.Maps) == 0 {
		return fmt.Errorf("no finish window")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    config.Title,
			Subtitle: config.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithColorsOpts(opts.Colors{
			config.Colors[4],
		}),
	)

	// Count spans per lane; lanes map one-to-one onto distinct maps in
	// first-appearance order.
	counts := make(map[int]int)
	for _, s := range spans {
		counts[s.Lane]++
	}

	yData := make([]opts.BarData, len(window.Maps))
	for i := range window.Maps {
		n := counts[i]
		if n == 0 {
			n = 1
		}
		yData[i] = opts.BarData{Value: n}
	}

	bar.SetXAxis(window.Maps).
		AddSeries("Finishes", yData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)

	return renderToFile(bar, outputPath)
}

type renderer interface {
	Render(w io.Writer) error
}

func renderToFile(r renderer, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := r.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
