// Package tracker queries a third-party playtime tracking service. The
// call is strictly best effort: any failure degrades to zero tracked time
// and must never abort a derivation run.
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultURL is the public player profile endpoint.
	DefaultURL = "https://ddstats.tw/player/json"

	// DefaultTimeout keeps the tracker from stalling a derivation run.
	DefaultTimeout = 5 * time.Second
)

// profile is the subset of the tracker response the engine consumes.
type profile struct {
	Error            string `json:"error"`
	PlaytimePerMonth []struct {
		YearMonth     string `json:"year_month"`
		SecondsPlayed int64  `json:"seconds_played"`
	} `json:"playtime_per_month"`
}

// Client fetches per-month playtime from the tracker.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a tracker client. An empty baseURL selects the public
// endpoint; a zero timeout selects the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Playtime returns the seconds played per month of the given year,
// indexed 0 (January) through 11 (December).
func (c *Client) Playtime(ctx context.Context, name string, year int) ([12]int64, error) {
	var playtime [12]int64

	u := fmt.Sprintf("%s?player=%s", c.baseURL, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return playtime, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return playtime, fmt.Errorf("failed to query tracker for %q: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return playtime, fmt.Errorf("tracker returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return playtime, fmt.Errorf("failed to read tracker response: %w", err)
	}

	var p profile
	if err := json.Unmarshal(body, &p); err != nil {
		return playtime, fmt.Errorf("failed to parse tracker response: %w", err)
	}
	if p.Error != "" {
		return playtime, fmt.Errorf("tracker reported error: %s", p.Error)
	}

	prefix := strconv.Itoa(year)
	for _, entry := range p.PlaytimePerMonth {
		if !strings.HasPrefix(entry.YearMonth, prefix) {
			continue
		}
		parts := strings.SplitN(entry.YearMonth, "-", 2)
		if len(parts) != 2 {
			continue
		}
		month, err := strconv.Atoi(parts[1])
		if err != nil || month < 1 || month > 12 {
			continue
		}
		playtime[month-1] = entry.SecondsPlayed
	}

	return playtime, nil
}
