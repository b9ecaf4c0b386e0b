package strava

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultScopes are the scopes requested during authorization: enough
// to read the athlete profile, gear and the full activity feed.
var DefaultScopes = []string{"read", "read_all", "profile:read_all", "activity:read_all"}

// AuthorizationURL builds the platform authorization URL for the OAuth
// flow. state is echoed back on the callback and must be verified there.
func (c *Client) AuthorizationURL(state string) string {
	q := url.Values{}
	q.Set("client_id", strconv.Itoa(c.cfg.ClientID))
	q.Set("redirect_uri", c.cfg.RedirectURI)
	q.Set("response_type", "code")
	q.Set("approval_prompt", "auto")
	q.Set("scope", strings.Join(DefaultScopes, ","))
	q.Set("state", state)

	return c.baseURL + "/oauth/authorize?" + q.Encode()
}

// ExchangeCode exchanges an authorization code for the initial token
// triple. A failure here is a normal, expected error path (invalid or
// expired code).
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", strconv.Itoa(c.cfg.ClientID))
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")

	var resp TokenResponse
	if err := c.postForm(ctx, "/oauth/token", form, &resp); err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	return &resp, nil
}

// Refresh mints a new token triple from a refresh token
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", strconv.Itoa(c.cfg.ClientID))
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("refresh_token", refreshToken)
	form.Set("grant_type", "refresh_token")

	var resp TokenResponse
	if err := c.postForm(ctx, "/oauth/token", form, &resp); err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}

	return &resp, nil
}
