// Package proxyclient reads the metadata API through a running server's
// forwarding handler, so terminal commands never need the API key.
package proxyclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shapedtime/marquee/internal/tmdb"
)

const (
	forwardPath  = "/api/tmdb"
	maxBodyBytes = 8 << 20
)

// Client implements tmdb.Fetcher against <server>/api/tmdb.
type Client struct {
	server     string
	httpClient *http.Client
}

// New creates a client for the server at base, e.g. http://localhost:4444.
func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		server:     strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch implements tmdb.Fetcher. Error replies from the handler itself
// ({"error": ...}) are returned as plain errors; relayed upstream failures
// come back as *tmdb.UpstreamError.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("endpoint", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.server+forwardPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	var handlerErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &handlerErr) == nil && handlerErr.Error != "" {
		return nil, fmt.Errorf("server: %s (status %d)", handlerErr.Error, resp.StatusCode)
	}
	return nil, &tmdb.UpstreamError{Status: resp.StatusCode, Body: body}
}
