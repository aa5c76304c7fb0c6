package activity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const requestTimeout = 60 * time.Second

// Client downloads per-player activity payloads.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an activity client rooted at baseURL; the payload for
// a player lives at <baseURL>/<name>.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// FetchPlayer downloads and decodes the activity log for one player.
// version is a cache-busting stamp derived from the upstream database
// build time; 0 omits it.
func (c *Client) FetchPlayer(ctx context.Context, name string, version int64) (*Payload, error) {
	u := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(name))
	if version != 0 {
		u += "?v=" + strconv.FormatInt(version, 10)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity for %q: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no activity recorded for %q", name)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("activity endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read activity payload: %w", err)
	}

	return Decode(body)
}
