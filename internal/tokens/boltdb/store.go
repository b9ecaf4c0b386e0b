// Package boltdb implements the credential store on BoltDB, one record
// per user id in a single bucket. Alternative to the default flat-file
// store for deployments that prefer transactional storage.
package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/velodash/gearframe/internal/tokens"
)

var bucketCredentials = []byte("credentials")

// Store represents a BoltDB credential store
type Store struct {
	db *bbolt.DB
}

// Compile-time check that Store implements tokens.Store
var _ tokens.Store = (*Store)(nil)

// New creates a BoltDB store at dbPath
func New(ctx context.Context, dbPath string) (*Store, error) {
	db, err := bbolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open boltdb: %v", tokens.ErrStoreCorrupt, err)
	}

	s := &Store{db: db}

	if err := s.initBucket(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return s, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initBucket creates the credentials bucket if it does not exist
func (s *Store) initBucket() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketCredentials); err != nil {
			return fmt.Errorf("failed to create credentials bucket: %w", err)
		}
		return nil
	})
}

// Get retrieves credentials for a user
func (s *Store) Get(ctx context.Context, userID string) (*tokens.Credentials, error) {
	var creds *tokens.Credentials

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCredentials)
		if bucket == nil {
			return fmt.Errorf("credentials bucket not found")
		}

		data := bucket.Get([]byte(userID))
		if data == nil {
			return tokens.ErrNotAuthenticated
		}

		creds = &tokens.Credentials{}
		if err := json.Unmarshal(data, creds); err != nil {
			return fmt.Errorf("%w: failed to unmarshal credentials: %v", tokens.ErrStoreCorrupt, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return creds, nil
}

// Put persists credentials for a user, replacing any prior record
func (s *Store) Put(ctx context.Context, userID string, creds *tokens.Credentials) error {
	if creds == nil {
		return fmt.Errorf("credentials are nil")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCredentials)
		if bucket == nil {
			return fmt.Errorf("credentials bucket not found")
		}

		data, err := json.Marshal(creds)
		if err != nil {
			return fmt.Errorf("failed to marshal credentials: %w", err)
		}

		if err := bucket.Put([]byte(userID), data); err != nil {
			return fmt.Errorf("failed to save credentials: %w", err)
		}

		return nil
	})
}
