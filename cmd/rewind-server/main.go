// Package main provides the yearly statistics API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raceops/rewind/internal/activity"
	"github.com/raceops/rewind/internal/api"
	"github.com/raceops/rewind/internal/catalog"
	"github.com/raceops/rewind/internal/config"
	"github.com/raceops/rewind/internal/events"
	"github.com/raceops/rewind/internal/metrics"
	"github.com/raceops/rewind/internal/tracker"
	"github.com/raceops/rewind/internal/version"
	"github.com/raceops/rewind/internal/worker"
	"github.com/raceops/rewind/internal/yearly"
)

var (
	port  = flag.Int("port", 0, "API server port (overrides config)")
	debug = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *debug {
		cfg.App.DebugMode = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level := slog.LevelInfo
	if cfg.App.DebugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	fmt.Printf("Rewind API Server %s\n", version.GetVersion())
	fmt.Printf("Starting on port %d...\n", cfg.Server.Port)

	catalogTTL, _ := cfg.GetCatalogTTL()
	snapshotTTL, _ := cfg.GetSnapshotTTL()

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
	if cfg.App.EnableMetrics {
		engineCfg.Metrics = metrics.NewEngineMetrics()
	}

	engine := yearly.NewEngine(engineCfg)

	dispatcher := events.NewDispatcher()
	dispatcher.Register(events.NewLoggingObserver(cfg.App.DebugMode))

	runner := worker.NewRunner(engine, dispatcher, logger)

	server := api.NewServer(&api.Config{
		Port:        cfg.Server.Port,
		SnapshotTTL: snapshotTTL,
	}, engine, runner, engineCfg.Metrics)

	// Engine events reach WebSocket clients through the dispatcher.
	dispatcher.Register(server.NewWebSocketObserver())

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start API server: %v", err)
	}

	fmt.Printf("API server running at http://localhost:%d\n", server.Port())
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	runner.Wait()

	fmt.Println("API server stopped.")
}
