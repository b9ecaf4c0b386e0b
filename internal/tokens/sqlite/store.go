// Package sqlite implements the credential store on SQLite with
// embedded goose migrations. Alternative driver for deployments that
// already carry a SQLite state database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/velodash/gearframe/internal/tokens"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store represents a SQLite credential store
type Store struct {
	db *sql.DB
}

// Compile-time check that Store implements tokens.Store
var _ tokens.Store = (*Store)(nil)

// New creates a SQLite store at dbPath.
// Use ":memory:" for an in-memory database (useful for testing).
func New(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", tokens.ErrStoreCorrupt, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", tokens.ErrStoreCorrupt, err)
	}

	// SQLite with WAL mode supports multiple readers but a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to run migrations: %v", tokens.ErrStoreCorrupt, err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// runMigrations applies migrations from the embedded FS
func (s *Store) runMigrations() error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

// Get retrieves credentials for a user
func (s *Store) Get(ctx context.Context, userID string) (*tokens.Credentials, error) {
	query := `
		SELECT access_token, refresh_token, expires_at
		FROM credentials
		WHERE user_id = ?
	`

	creds := &tokens.Credentials{}

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&creds.AccessToken,
		&creds.RefreshToken,
		&creds.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tokens.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}

	return creds, nil
}

// Put persists credentials for a user, replacing any prior record
func (s *Store) Put(ctx context.Context, userID string, creds *tokens.Credentials) error {
	if creds == nil {
		return fmt.Errorf("credentials are nil")
	}

	query := `
		INSERT OR REPLACE INTO credentials (user_id, access_token, refresh_token, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		userID,
		creds.AccessToken,
		creds.RefreshToken,
		creds.ExpiresAt,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	return nil
}
