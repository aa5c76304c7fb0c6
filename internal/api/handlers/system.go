package handlers

import (
	"net/http"
	"time"

	"github.com/raceops/rewind/internal/api/response"
	"github.com/raceops/rewind/internal/metrics"
	"github.com/raceops/rewind/internal/version"
)

// SystemHandler handles health, version and metrics requests.
type SystemHandler struct {
	metrics *metrics.EngineMetrics
	started time.Time
}

// NewSystemHandler creates a new SystemHandler. m may be nil when metrics
// collection is disabled.
func NewSystemHandler(m *metrics.EngineMetrics) *SystemHandler {
	return &SystemHandler{
		metrics: m,
		started: time.Now(),
	}
}

// GetHealth returns the service health.
func (h *SystemHandler) GetHealth(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// GetVersion returns the application version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"version": version.GetVersion(),
		"service": "rewind-api",
	})
}

// GetMetrics returns a snapshot of engine run and per-query timings.
func (h *SystemHandler) GetMetrics(w http.ResponseWriter, _ *http.Request) {
	if h.metrics == nil {
		response.Success(w, map[string]string{"status": "disabled"})
		return
	}
	runs, steps := h.metrics.Snapshot()
	response.Success(w, map[string]interface{}{
		"runs":  runs,
		"steps": steps,
	})
}
