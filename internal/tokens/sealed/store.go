// Package sealed wraps a credential store with at-rest token
// encryption. Tokens are encrypted with AES-256-GCM before they reach
// the underlying store and decrypted on the way out; the expiry stays
// plaintext so the record remains inspectable.
package sealed

import (
	"context"
	"fmt"

	"github.com/velodash/gearframe/internal/crypto"
	"github.com/velodash/gearframe/internal/tokens"
)

// Store wraps another tokens.Store and seals token values.
// Callers always see plaintext credentials; only the wrapped store
// holds ciphertext.
type Store struct {
	inner tokens.Store
	key   []byte
}

// Compile-time check that Store implements tokens.Store
var _ tokens.Store = (*Store)(nil)

// New creates a sealing wrapper around inner.
// key must be exactly 32 bytes (see crypto.DeriveKey).
func New(inner tokens.Store, key []byte) (*Store, error) {
	if len(key) != crypto.KeyLen {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", crypto.KeyLen, len(key))
	}

	return &Store{inner: inner, key: key}, nil
}

// Get retrieves and decrypts credentials for a user
func (s *Store) Get(ctx context.Context, userID string) (*tokens.Credentials, error) {
	stored, err := s.inner.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	accessToken, err := crypto.DecryptFromBase64(stored.AccessToken, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decrypt access token: %v", tokens.ErrStoreCorrupt, err)
	}

	refreshToken, err := crypto.DecryptFromBase64(stored.RefreshToken, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decrypt refresh token: %v", tokens.ErrStoreCorrupt, err)
	}

	creds := *stored
	creds.AccessToken = string(accessToken)
	creds.RefreshToken = string(refreshToken)

	return &creds, nil
}

// Put encrypts token values and persists the record through the
// underlying store
func (s *Store) Put(ctx context.Context, userID string, creds *tokens.Credentials) error {
	if creds == nil {
		return fmt.Errorf("credentials are nil")
	}

	accessToken, err := crypto.EncryptToBase64([]byte(creds.AccessToken), s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}

	refreshToken, err := crypto.EncryptToBase64([]byte(creds.RefreshToken), s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	sealed := *creds
	sealed.AccessToken = accessToken
	sealed.RefreshToken = refreshToken

	return s.inner.Put(ctx, userID, &sealed)
}

// Close closes the underlying store
func (s *Store) Close() error {
	return s.inner.Close()
}
