package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/goedr/console/internal/console/store"
	"github.com/goedr/console/internal/console/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "users.db") + "?_busy_timeout=5000"
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestUsers_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.Users().Create(ctx, "alice01", "$argon2id$dummy")
	require.NoError(t, err)
	require.Positive(t, u.ID)
	require.Equal(t, "alice01", u.Username)
	require.Equal(t, "$argon2id$dummy", u.PasswordHash)
	require.Empty(t, u.APIToken)
	require.Nil(t, u.LastLogin)
	require.False(t, u.DateCreated.IsZero())

	got, err := s.Users().GetByUsername(ctx, "alice01")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	byID, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice01", byID.Username)
}

func TestUsers_GetMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Users().GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetByID(ctx, 999)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Users().Create(ctx, "alice01", "hash1")
	require.NoError(t, err)

	_, err = s.Users().Create(ctx, "alice01", "hash2")
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	// No duplicate row was created.
	u, err := s.Users().GetByUsername(ctx, "alice01")
	require.NoError(t, err)
	require.Equal(t, "hash1", u.PasswordHash)
}

func TestUsers_TokenLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.Users().Create(ctx, "alice01", "hash")
	require.NoError(t, err)

	tok, err := s.Users().GetToken(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, tok)

	require.NoError(t, s.Users().SetToken(ctx, u.ID, "first-token"))
	tok, err = s.Users().GetToken(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "first-token", tok)

	// SetToken is an upsert: overwriting works the same as inserting.
	require.NoError(t, s.Users().SetToken(ctx, u.ID, "second-token"))
	tok, err = s.Users().GetToken(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "second-token", tok)

	require.NoError(t, s.Users().ClearToken(ctx, u.ID))
	tok, err = s.Users().GetToken(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestUsers_TokenMissingUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.ErrorIs(t, s.Users().SetToken(ctx, 42, "tok"), store.ErrNotFound)
	require.ErrorIs(t, s.Users().ClearToken(ctx, 42), store.ErrNotFound)

	_, err := s.Users().GetToken(ctx, 42)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_UpdateLastLogin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.Users().Create(ctx, "alice01", "hash")
	require.NoError(t, err)

	at := time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, s.Users().UpdateLastLogin(ctx, u.ID, at))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	require.WithinDuration(t, at, *got.LastLogin, time.Second)
}

func TestUsers_UpdatePasswordHash(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.Users().Create(ctx, "alice01", "old-hash")
	require.NoError(t, err)

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
}

func TestUsers_DeleteAndReset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.Users().Create(ctx, "alice01", "hash")
	require.NoError(t, err)
	_, err = s.Users().Create(ctx, "bob02", "hash")
	require.NoError(t, err)

	require.NoError(t, s.Users().Delete(ctx, a.ID))
	_, err = s.Users().GetByID(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Users().ResetAll(ctx))
	_, err = s.Users().GetByUsername(ctx, "bob02")
	require.ErrorIs(t, err, store.ErrNotFound)
}
