// Package file implements the credential store as a single JSON file,
// one object keyed by user id. The whole file is rewritten on every
// update via a temp file and rename, so readers never observe a partial
// record and the mapping stays inspectable with a text editor.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/velodash/gearframe/internal/tokens"
)

// Store represents a flat-file credential store
type Store struct {
	path string
	mu   sync.Mutex
}

// Compile-time check that Store implements tokens.Store
var _ tokens.Store = (*Store)(nil)

// New creates a file store at path. A missing file is created empty;
// an unreadable or malformed file is a fatal error wrapping
// tokens.ErrStoreCorrupt.
func New(path string) (*Store, error) {
	s := &Store{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
		if err := s.write(map[string]*tokens.Credentials{}); err != nil {
			return nil, fmt.Errorf("failed to initialize credential file: %w", err)
		}
		return s, nil
	}

	// Validate the existing file up front so a corrupt store fails at
	// process start instead of on the first request.
	if _, err := s.read(); err != nil {
		return nil, err
	}

	return s, nil
}

// Get retrieves credentials for a user
func (s *Store) Get(ctx context.Context, userID string) (*tokens.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}

	creds, ok := all[userID]
	if !ok {
		return nil, tokens.ErrNotAuthenticated
	}

	return creds, nil
}

// Put persists credentials for a user, replacing any prior record
func (s *Store) Put(ctx context.Context, userID string, creds *tokens.Credentials) error {
	if creds == nil {
		return fmt.Errorf("credentials are nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}

	credsCopy := *creds
	all[userID] = &credsCopy

	return s.write(all)
}

// Close is a no-op for the file store
func (s *Store) Close() error {
	return nil
}

// read loads the whole mapping from disk
func (s *Store) read() (map[string]*tokens.Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	all := make(map[string]*tokens.Credentials)
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", tokens.ErrStoreCorrupt, s.path, err)
	}

	return all, nil
}

// write replaces the whole mapping on disk atomically.
// Marshal is indented so the file stays human-readable for operators.
func (s *Store) write(all map[string]*tokens.Credentials) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace credential file: %w", err)
	}

	if err := os.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("failed to chmod credential file: %w", err)
	}

	return nil
}
