// Package handlers contains the HTTP handlers for the REST API.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raceops/rewind/internal/api/response"
	"github.com/raceops/rewind/internal/yearly"
)

// Deriver computes one player's yearly statistics.
type Deriver interface {
	Derive(ctx context.Context, name string, year int, tz string, onProgress yearly.ProgressFunc) (*yearly.Data, error)
}

// SnapshotCache stores finished derivations keyed by (player, year,
// timezone) so repeated requests do not recompute the full query sequence.
type SnapshotCache interface {
	Get(player string, year int, tz string) (*yearly.Data, bool)
	Put(player string, year int, tz string, data *yearly.Data)
}

type snapshotEntry struct {
	data    *yearly.Data
	expires time.Time
}

// MemorySnapshotCache is the default in-process SnapshotCache with a fixed
// TTL per entry.
type MemorySnapshotCache struct {
	mu      sync.RWMutex
	entries map[string]snapshotEntry
	ttl     time.Duration
}

// NewMemorySnapshotCache creates a cache whose entries expire after ttl.
func NewMemorySnapshotCache(ttl time.Duration) *MemorySnapshotCache {
	return &MemorySnapshotCache{
		entries: make(map[string]snapshotEntry),
		ttl:     ttl,
	}
}

func snapshotKey(player string, year int, tz string) string {
	return fmt.Sprintf("%s\x00%d\x00%s", player, year, tz)
}

// Get returns a cached derivation if present and not expired.
func (c *MemorySnapshotCache) Get(player string, year int, tz string) (*yearly.Data, bool) {
	c.mu.RLock()
	entry, ok := c.entries[snapshotKey(player, year, tz)]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.data, true
}

// Put stores a derivation, replacing any previous entry for the key.
func (c *MemorySnapshotCache) Put(player string, year int, tz string, data *yearly.Data) {
	c.mu.Lock()
	c.entries[snapshotKey(player, year, tz)] = snapshotEntry{
		data:    data,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// YearlyHandler serves synchronous derivation requests.
type YearlyHandler struct {
	engine Deriver
	cache  SnapshotCache
	logger *slog.Logger
}

// NewYearlyHandler creates a handler. cache may be nil to disable caching.
func NewYearlyHandler(engine Deriver, cache SnapshotCache, logger *slog.Logger) *YearlyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &YearlyHandler{
		engine: engine,
		cache:  cache,
		logger: logger,
	}
}

// GetYearly handles GET /api/v1/yearly/{name}.
//
// Query parameters:
//   - year: target year (default: the previous calendar year)
//   - tz:   IANA timezone for local-time statistics (default: UTC)
func (h *YearlyHandler) GetYearly(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		response.BadRequest(w, errors.New("player name is required"))
		return
	}

	year := time.Now().UTC().Year() - 1
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 2000 || parsed > 2100 {
			response.BadRequest(w, fmt.Errorf("invalid year parameter %q", v))
			return
		}
		year = parsed
	}

	tz := r.URL.Query().Get("tz")
	if tz == "" {
		tz = "UTC"
	}

	if h.cache != nil {
		if data, ok := h.cache.Get(name, year, tz); ok {
			response.Success(w, data)
			return
		}
	}

	start := time.Now()
	data, err := h.engine.Derive(r.Context(), name, year, tz, nil)
	if err != nil {
		switch {
		case errors.Is(err, yearly.ErrBadTimezone):
			response.BadRequest(w, fmt.Errorf("unknown timezone %q", tz))
		case errors.Is(err, yearly.ErrStoreInit):
			h.logger.Error("store initialization failed", "player", name, "error", err)
			response.InternalError(w, errors.New("failed to build statistics store"))
		default:
			h.logger.Error("derivation failed", "player", name, "year", year, "error", err)
			response.BadGateway(w, fmt.Errorf("failed to fetch player activity: %w", err))
		}
		return
	}

	h.logger.Info("derivation complete",
		"player", name,
		"year", year,
		"tz", tz,
		"duration", time.Since(start))

	if h.cache != nil {
		h.cache.Put(name, year, tz, data)
	}
	response.Success(w, data)
}
