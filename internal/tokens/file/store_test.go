package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velodash/gearframe/internal/tokens"
)

func TestNew_CreatesEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "credentials.json")

	store, err := New(path)
	require.NoError(t, err)
	defer store.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "{}", string(data))
}

func TestNew_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := New(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, tokens.ErrStoreCorrupt)
}

func TestStore_ReadAfterWrite(t *testing.T) {
	ctx := context.Background()
	store, err := New(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	defer store.Close()

	creds := &tokens.Credentials{
		AccessToken:  "access-123",
		RefreshToken: "refresh-456",
		ExpiresAt:    1700000000,
	}

	require.NoError(t, store.Put(ctx, "42", creds))

	got, err := store.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, creds, got)
}

func TestStore_GetUnknownUser(t *testing.T) {
	ctx := context.Background()
	store, err := New(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, tokens.ErrNotAuthenticated)
}

func TestStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	store, err := New(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(ctx, "42", &tokens.Credentials{
		AccessToken:  "old",
		RefreshToken: "old-refresh",
		ExpiresAt:    100,
	}))
	require.NoError(t, store.Put(ctx, "42", &tokens.Credentials{
		AccessToken:  "new",
		RefreshToken: "new-refresh",
		ExpiresAt:    200,
	}))

	got, err := store.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "new", got.AccessToken)
	assert.Equal(t, int64(200), got.ExpiresAt)
}

func TestStore_MultipleUsers(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := New(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(ctx, "1", &tokens.Credentials{AccessToken: "a1", ExpiresAt: 1}))
	require.NoError(t, store.Put(ctx, "2", &tokens.Credentials{AccessToken: "a2", ExpiresAt: 2}))

	got1, err := store.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "a1", got1.AccessToken)

	got2, err := store.Get(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "a2", got2.AccessToken)

	// The on-disk layout is a plain user id -> record mapping
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Len(t, raw, 2)
	assert.Contains(t, raw, "1")
	assert.Contains(t, raw, "2")
}

func TestStore_PutNil(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, err)
	defer store.Close()

	assert.Error(t, store.Put(context.Background(), "42", nil))
}
