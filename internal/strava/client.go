// Package strava implements the client for the external fitness
// platform: the OAuth code exchange and refresh grants, and the
// authenticated athlete/gear/activity reads used by the aggregator.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/velodash/gearframe/internal/observability"
)

// DefaultBaseURL is the platform endpoint used outside of tests
const DefaultBaseURL = "https://www.strava.com"

// Config carries the OAuth application credentials
type Config struct {
	ClientID     int
	ClientSecret string
	RedirectURI  string
}

// Client represents an HTTP client for the platform API
type Client struct {
	httpClient *http.Client
	cfg        Config
	baseURL    string
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the platform base URL (used in tests)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a platform API client
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:     cfg,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// doAPI performs an authenticated GET against the platform API and
// decodes the JSON response into result
func (c *Client) doAPI(ctx context.Context, accessToken, path string, query url.Values, result any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	err = c.do(req, result)
	observability.RecordPlatformRequest(path, err)
	return err
}

// postForm performs a form-encoded POST (OAuth token endpoint) and
// decodes the JSON response into result
func (c *Client) postForm(ctx context.Context, path string, form url.Values, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	err = c.do(req, result)
	observability.RecordPlatformRequest(path, err)
	return err
}

// do executes the request and decodes the response
func (c *Client) do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("platform error (%d): %s", resp.StatusCode, truncate(respBody, 256))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// truncate limits error payloads so platform responses never flood logs
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
