// Package main provides the command-line derivation tool: one player's
// yearly statistics computed and written to stdout or a file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/raceops/rewind/internal/activity"
	"github.com/raceops/rewind/internal/catalog"
	"github.com/raceops/rewind/internal/charts"
	"github.com/raceops/rewind/internal/config"
	"github.com/raceops/rewind/internal/export"
	"github.com/raceops/rewind/internal/tracker"
	"github.com/raceops/rewind/internal/yearly"
)

var (
	year     = flag.Int("year", time.Now().UTC().Year()-1, "Target year")
	tz       = flag.String("tz", "UTC", "IANA timezone for local-time statistics")
	format   = flag.String("format", "json", "Output format: json or csv")
	output   = flag.String("o", "", "Output file (default: stdout)")
	chartDir = flag.String("charts", "", "Directory to write HTML charts into")
	open     = flag.Bool("open", false, "Open rendered charts in the browser")
	quiet    = flag.Bool("quiet", false, "Suppress progress output")
	debug    = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <player>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}
	player := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	catalogTTL, _ := cfg.GetCatalogTTL()

	engineCfg := yearly.EngineConfig{
		Catalog:  catalog.NewClient(cfg.Catalog.URL, catalogTTL),
		Activity: activity.NewClient(cfg.Activity.BaseURL),
		Logger:   logger,
		Version:  cfg.Activity.Version,
	}
	if cfg.Tracker.Enabled {
		trackerTimeout, _ := cfg.GetTrackerTimeout()
		engineCfg.Tracker = tracker.NewClient(cfg.Tracker.BaseURL, trackerTimeout)
	}

	engine := yearly.NewEngine(engineCfg)

	var onProgress yearly.ProgressFunc
	if !*quiet {
		onProgress = func(progress float64) {
			fmt.Fprintf(os.Stderr, "\r%3.0f%%", progress)
			if progress >= 100 {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	data, err := engine.Derive(context.Background(), player, *year, *tz, onProgress)
	if err != nil {
		log.Fatalf("Derivation failed: %v", err)
	}

	if err := writeOutput(data); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}

	if *chartDir != "" {
		if err := renderCharts(data, *chartDir); err != nil {
			log.Fatalf("Failed to render charts: %v", err)
		}
	}
}

func writeOutput(data *yearly.Data) error {
	f := export.Format(*format)
	if f != export.FormatJSON && f != export.FormatCSV {
		return fmt.Errorf("unsupported format: %s", *format)
	}

	if *output == "" {
		if f == export.FormatCSV {
			return export.ExportToWriter(os.Stdout, f, export.BuildHighlightRows(data), false)
		}
		return export.ExportToWriter(os.Stdout, f, data, true)
	}

	return export.WriteData(data, export.Options{
		Format:     f,
		FilePath:   *output,
		PrettyJSON: true,
		Overwrite:  true,
	})
}

func renderCharts(data *yearly.Data, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}

	type chart struct {
		path   string
		render func(string) error
	}

	cfg := charts.DefaultChartConfig()
	cfg.Subtitle = fmt.Sprintf("%s — %d", data.Player, data.Year)

	var rendered []string
	jobs := []chart{
		{"points.html", func(path string) error {
			if len(data.PointHistory) == 0 {
				return nil
			}
			c := cfg
			c.Title = "Points over the year"
			if err := charts.RenderPointHistory(data.PointHistory, data.Year, c, path); err != nil {
				return err
			}
			rendered = append(rendered, path)
			return nil
		}},
		{"categories.html", func(path string) error {
			if data.Radar == nil {
				return nil
			}
			c := cfg
			c.Title = "Category activity"
			if err := charts.RenderCategoryRadar(data.Radar, c, path); err != nil {
				return err
			}
			rendered = append(rendered, path)
			return nil
		}},
		{"slow_finishes.html", func(path string) error {
			if len(data.SlowFinishes) == 0 {
				return nil
			}
			c := cfg
			c.Title = "Longest single finishes"
			if err := charts.RenderSlowFinishes(data.SlowFinishes, c, path); err != nil {
				return err
			}
			rendered = append(rendered, path)
			return nil
		}},
		{"finish_window.html", func(path string) error {
			if data.FinishWindow == nil {
				return nil
			}
			c := cfg
			c.Title = "Busiest hour"
			if err := charts.RenderFinishWindow(data.FinishWindow, data.WindowSpans, c, path); err != nil {
				return err
			}
			rendered = append(rendered, path)
			return nil
		}},
	}

	for _, job := range jobs {
		if err := job.render(filepath.Join(dir, job.path)); err != nil {
			return err
		}
	}

	if *open {
		for _, path := range rendered {
			if err := charts.OpenInBrowser(path); err != nil {
				return err
			}
		}
	}

	return nil
}
