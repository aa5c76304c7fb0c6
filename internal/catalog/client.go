package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	// DefaultURL is the public releases feed.
	DefaultURL = "https://ddnet.org/releases/maps.json"

	// DefaultTTL keeps one catalog snapshot warm for several hours; the
	// feed only changes on a map release.
	DefaultTTL = 6 * time.Hour

	requestTimeout = 30 * time.Second
	rateLimitDelay = time.Second
	cacheKey       = "maps"
)

// Client fetches the map catalog with process-wide caching. One Client is
// shared across derivation runs; the engine receives the snapshot as a
// plain slice and never touches the cache itself.
type Client struct {
	url         string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	cache       *gocache.Cache
}

// NewClient creates a catalog client for the given feed URL with the
// given freshness window.
func NewClient(url string, ttl time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		cache:       gocache.New(ttl, ttl),
	}
}

// Fetch returns the current catalog snapshot, from cache when fresh.
func (c *Client) Fetch(ctx context.Context) ([]Map, error) {
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]Map), nil
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch map catalog: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("map catalog endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}

	var maps []Map
	if err := json.Unmarshal(body, &maps); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response: %w", err)
	}

	c.cache.Set(cacheKey, maps, gocache.DefaultExpiration)

	return maps, nil
}

// Invalidate drops the cached snapshot so the next Fetch hits the feed.
func (c *Client) Invalidate() {
	c.cache.Delete(cacheKey)
}
