// Package api exposes the derivation engine over HTTP and WebSocket.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/raceops/rewind/internal/api/handlers"
	"github.com/raceops/rewind/internal/api/websocket"
	"github.com/raceops/rewind/internal/metrics"
	"github.com/raceops/rewind/internal/worker"
	"github.com/raceops/rewind/internal/yearly"
)

// Server represents the REST API server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int

	// WebSocket hub for async derivations and progress events
	wsHub *websocket.Hub

	engine  *yearly.Engine
	runner  *worker.Runner
	cache   handlers.SnapshotCache
	metrics *metrics.EngineMetrics
}

// Config holds configuration for the API server.
type Config struct {
	Port        int
	SnapshotTTL time.Duration // how long finished derivations stay cached
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:        8080,
		SnapshotTTL: time.Hour,
	}
}

// NewServer creates a new API server. runner handles WebSocket derivation
// requests; metrics may be nil.
func NewServer(cfg *Config, engine *yearly.Engine, runner *worker.Runner, m *metrics.EngineMetrics) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		router:  chi.NewRouter(),
		port:    cfg.Port,
		engine:  engine,
		runner:  runner,
		metrics: m,
	}
	if cfg.SnapshotTTL > 0 {
		s.cache = handlers.NewMemorySnapshotCache(cfg.SnapshotTTL)
	}

	s.wsHub = websocket.NewHub(s.handleSocketRequest)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	// Request ID for tracing
	s.router.Use(middleware.RequestID)

	// Real IP detection
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(middleware.Logger)

	// Panic recovery
	s.router.Use(middleware.Recoverer)

	// Request timeout; derivations fetch remote payloads and can be slow
	s.router.Use(middleware.Timeout(120 * time.Second))

	// CORS configuration
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// Start starts the API server in a goroutine.
func (s *Server) Start() error {
	// Start WebSocket hub
	go s.wsHub.Run()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("API server starting on port %d", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("API server error: %v", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()
	if s.httpServer == nil {
		return nil
	}

	log.Println("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.port
}

// WebSocketHub returns the WebSocket hub for external integration. This
// can be used to create an EventObserver for the event dispatcher.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}

// NewWebSocketObserver creates an observer that can be registered with an
// event dispatcher to forward engine events to WebSocket clients.
func (s *Server) NewWebSocketObserver() *websocket.EventObserver {
	return websocket.NewEventObserver(s.wsHub)
}
