package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raceops/rewind/internal/api/handlers"
	"github.com/raceops/rewind/internal/api/response"
	"github.com/raceops/rewind/internal/worker"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint for async derivations with progress streaming
	s.router.Get("/ws", s.wsHub.ServeWs)

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		yearlyHandler := handlers.NewYearlyHandler(s.engine, s.cache, nil)
		r.Get("/yearly/{name}", yearlyHandler.GetYearly)

		systemHandler := handlers.NewSystemHandler(s.metrics)
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.GetHealth)
			r.Get("/version", systemHandler.GetVersion)
			r.Get("/metrics", systemHandler.GetMetrics)
		})
	})
}

// handleSocketRequest parses a derivation request sent over the WebSocket
// and hands it to the runner. Progress and results come back to the client
// through the hub's event observer.
func (s *Server) handleSocketRequest(message []byte) {
	var req worker.Request
	if err := json.Unmarshal(message, &req); err != nil {
		log.Printf("Ignoring malformed WebSocket request: %v", err)
		return
	}
	if req.Player == "" || req.Year == 0 {
		log.Printf("Ignoring WebSocket request without player or year")
		return
	}
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}

	s.runner.Submit(context.Background(), req)
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "rewind-api",
	})
}
