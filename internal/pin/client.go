// Package pin fetches dynamic PIN codes from an external webhook.
package pin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cuentas/internal/core"
)

// Client retrieves the latest PIN code from a webhook endpoint. Every call
// hits the webhook; callers decide how to handle stale codes.
type Client struct {
	url        string
	httpClient *http.Client
}

func New(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch requests the current PIN from the webhook.
func (c *Client) Fetch(ctx context.Context) (core.PinResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return core.PinResponse{}, fmt.Errorf("build pin request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return core.PinResponse{}, fmt.Errorf("fetch pin: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return core.PinResponse{}, fmt.Errorf("pin webhook returned HTTP %d", resp.StatusCode)
	}

	var out core.PinResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return core.PinResponse{}, fmt.Errorf("decode pin response: %w", err)
	}
	return out, nil
}
