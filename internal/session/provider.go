// Package session produces ready-to-use authenticated platform
// sessions, refreshing stored credentials as needed.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/velodash/gearframe/internal/observability"
	"github.com/velodash/gearframe/internal/strava"
	"github.com/velodash/gearframe/internal/tokens"
)

// RefreshMargin is how long before expiry a token counts as stale.
// It absorbs network and clock latency so a token never expires
// mid-request.
const RefreshMargin = 5 * time.Minute

// ErrRefreshFailed indicates that the refresh call to the platform
// failed. From the caller's perspective this is an authentication
// failure, but it stays distinguishable from ErrNotAuthenticated in
// logs.
var ErrRefreshFailed = errors.New("token refresh failed")

// TokenRefresher mints a new token triple from a refresh token
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*strava.TokenResponse, error)
}

// Provider builds authenticated sessions for user ids
type Provider struct {
	logger    *slog.Logger
	store     tokens.Store
	client    *strava.Client
	refresher TokenRefresher
	now       func() time.Time

	// userLocks serializes refreshes per user so two concurrent
	// requests for the same user don't both hit the refresh endpoint
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewProvider creates a session provider backed by store and client
func NewProvider(logger *slog.Logger, store tokens.Store, client *strava.Client) *Provider {
	return &Provider{
		logger:    logger,
		store:     store,
		client:    client,
		refresher: client,
		now:       time.Now,
		userLocks: make(map[string]*sync.Mutex),
	}
}

// GetSession returns a session holding a valid access token for the
// user, refreshing and persisting credentials first when the stored
// token is stale. This is a side-effecting operation: it may write to
// the credential store. Returns tokens.ErrNotAuthenticated when no
// credentials exist and ErrRefreshFailed when the refresh grant fails;
// in the latter case the stored record is left unchanged.
func (p *Provider) GetSession(ctx context.Context, userID string) (*strava.Session, error) {
	lock := p.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	creds, err := p.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !creds.Expired(p.now(), RefreshMargin) {
		return p.client.Session(userID, creds.AccessToken), nil
	}

	p.logger.InfoContext(ctx, "access token expired or expiring soon, refreshing",
		slog.String("user_id", userID),
		slog.Int64("expires_at", creds.ExpiresAt),
	)

	resp, err := p.refresher.Refresh(ctx, creds.RefreshToken)
	observability.RecordTokenRefresh(err)
	if err != nil {
		p.logger.ErrorContext(ctx, "token refresh failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	refreshed := &tokens.Credentials{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    resp.ExpiresAt,
	}

	if err := p.store.Put(ctx, userID, refreshed); err != nil {
		return nil, fmt.Errorf("failed to persist refreshed credentials: %w", err)
	}

	return p.client.Session(userID, resp.AccessToken), nil
}

// userLock returns the mutex for a user, creating it on first use
func (p *Provider) userLock(userID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()

	lock, ok := p.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		p.userLocks[userID] = lock
	}

	return lock
}
