package tokens

import (
	"context"
	"time"
)

// Credentials represents the stored OAuth credentials for one user.
// ExpiresAt is always the expiry of the currently stored access token
// (unix seconds).
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Expired reports whether the access token expires before now + margin.
// The margin absorbs network and clock latency so a token never expires
// mid-request.
func (c *Credentials) Expired(now time.Time, margin time.Duration) bool {
	return time.Unix(c.ExpiresAt, 0).Before(now.Add(margin))
}

// Store defines the durable mapping from user id to Credentials.
// Put replaces any prior record for the user atomically: readers never
// observe a partially written record.
type Store interface {
	// Get retrieves credentials for a user.
	// Returns ErrNotAuthenticated if no record exists.
	Get(ctx context.Context, userID string) (*Credentials, error)

	// Put persists credentials, replacing any prior record for the user.
	Put(ctx context.Context, userID string, creds *Credentials) error

	// Close releases the underlying storage.
	Close() error
}
