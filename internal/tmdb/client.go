package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shapedtime/marquee/internal/credentials"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// Client talks to the TMDB v3 API, attaching the API key on every call.
type Client struct {
	keys       credentials.Store
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (tests, mirrors).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a new TMDB client
func NewClient(keys credentials.Store, opts ...Option) *Client {
	c := &Client{
		keys:    keys,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsConfigured reports whether an API key is currently available.
func (c *Client) IsConfigured() bool {
	return c.keys != nil && c.keys.APIKey() != ""
}

// Response is an upstream reply, body bytes untouched.
type Response struct {
	Status int
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Forward issues one GET for endpoint with params and returns the raw reply
// whatever its status. The body is guaranteed to be valid JSON.
func (c *Client) Forward(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	key := ""
	if c.keys != nil {
		key = c.keys.APIKey()
	}
	if key == "" {
		return nil, ErrNoAPIKey
	}

	ep, err := CleanEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, BuildURL(c.baseURL, ep, key, params), nil)
	if err != nil {
		// The parse error quotes the full URL, key included.
		return nil, fmt.Errorf("%w: %s", ErrBuildRequest, redact(err.Error(), key))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full URL, key included.
		return nil, fmt.Errorf("request failed: %s", redact(err.Error(), key))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w (status %d)", ErrInvalidBody, resp.StatusCode)
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}

// Fetch is Forward for callers that only want success bodies.
// Non-2xx replies come back as *UpstreamError.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	resp, err := c.Forward(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &UpstreamError{Status: resp.Status, Body: resp.Body}
	}
	return resp.Body, nil
}

// CleanEndpoint normalises an endpoint path and rejects anything that could
// leave the API root. TMDB paths never carry escapes, so '%' is refused too.
func CleanEndpoint(endpoint string) (string, error) {
	ep := strings.TrimLeft(strings.TrimSpace(endpoint), "/")
	if ep == "" {
		return "", ErrMissingEndpoint
	}
	if strings.ContainsAny(ep, "?#%\\") || strings.Contains(ep, "://") {
		return "", ErrInvalidEndpoint
	}
	for _, seg := range strings.Split(ep, "/") {
		if seg == "." || seg == ".." {
			return "", ErrInvalidEndpoint
		}
	}
	return ep, nil
}

// BuildURL renders <base>/<endpoint>?api_key=<key>&<params>. The endpoint
// and api_key entries of params are never forwarded.
func BuildURL(base, endpoint, key string, params url.Values) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteByte('/')
	b.WriteString(endpoint)
	b.WriteString("?api_key=")
	b.WriteString(url.QueryEscape(key))

	rest := make(url.Values, len(params))
	for k, v := range params {
		if k == "endpoint" || k == "api_key" {
			continue
		}
		rest[k] = v
	}
	if len(rest) > 0 {
		b.WriteByte('&')
		b.WriteString(rest.Encode())
	}
	return b.String()
}

func redact(s, key string) string {
	if key == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(key), "REDACTED")
	return strings.ReplaceAll(s, key, "REDACTED")
}
