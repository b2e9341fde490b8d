package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goedr/console/internal/console/service"
	"github.com/goedr/console/internal/console/store/drivers/sqlite"
	"github.com/goedr/console/pkg/cryptox"
	"github.com/goedr/console/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("unit-test-signing-secret-32-byte")

func TestMain(m *testing.M) {
	cryptox.SetPepperPath(filepath.Join(os.TempDir(), "console-service-test-pepper"))
	os.Exit(m.Run())
}

func newAuthService(t *testing.T) (*service.AuthService, *sqlite.Store) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "users.db") + "?_busy_timeout=5000"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewSigner(testSecret, "goedr-console", 0)
	require.NoError(t, err)

	return &service.AuthService{Store: st, Signer: signer}, st
}

func newVerifier(t *testing.T) *jwtx.Verifier {
	t.Helper()
	v, err := jwtx.NewVerifier(testSecret, "goedr-console", 0)
	require.NoError(t, err)
	return v
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice01", "password1")
	require.NoError(t, err)
	require.Positive(t, user.ID)
	require.Equal(t, "alice01", user.Username)
	require.NotEqual(t, "password1", user.PasswordHash)

	claims, err := newVerifier(t).Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, "alice01", claims.Username)

	logged, loginToken, err := svc.Login(ctx, "alice01", "password1")
	require.NoError(t, err)
	require.Equal(t, user.ID, logged.ID)
	require.NotNil(t, logged.LastLogin)
	require.WithinDuration(t, time.Now(), *logged.LastLogin, 5*time.Second)

	_, err = newVerifier(t).Verify(loginToken)
	require.NoError(t, err)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	t.Run("username too short", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "abcd", "password1")
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("username too long", func(t *testing.T) {
		long := make([]byte, 51)
		for i := range long {
			long[i] = 'a'
		}
		_, _, err := svc.Register(ctx, string(long), "password1")
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("password too short", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "alice01", "short")
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, st := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice01", "password1")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "alice01", "different1")
	require.ErrorIs(t, err, service.ErrConflict)

	// The original row is untouched.
	u, err := st.Users().GetByUsername(ctx, "alice01")
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword("password1", u.PasswordHash))
}

func TestLogin_MergedFailures(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice01", "password1")
	require.NoError(t, err)

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nosuchuser", "password1")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice01", "wrongpassword")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("short password rejected before lookup", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice01", "short")
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestResetPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice01", "password1")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, "alice01", "newpassword2"))

	// Old password no longer works; new one does.
	_, _, err = svc.Login(ctx, "alice01", "password1")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "alice01", "newpassword2")
	require.NoError(t, err)

	t.Run("unknown user", func(t *testing.T) {
		err := svc.ResetPassword(ctx, "nosuchuser", "newpassword2")
		require.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		require.ErrorIs(t, svc.ResetPassword(ctx, "", "newpassword2"), service.ErrInvalidInput)
		require.ErrorIs(t, svc.ResetPassword(ctx, "alice01", ""), service.ErrInvalidInput)
	})
}

func TestAPITokenLifecycle(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice01", "password1")
	require.NoError(t, err)

	t.Run("get before add", func(t *testing.T) {
		_, err := svc.GetToken(ctx, "alice01")
		require.ErrorIs(t, err, service.ErrNoToken)
	})

	t.Run("insert then fetch exact value", func(t *testing.T) {
		replaced, err := svc.UpsertToken(ctx, "alice01", "first-api-token")
		require.NoError(t, err)
		require.False(t, replaced)

		got, err := svc.GetToken(ctx, "alice01")
		require.NoError(t, err)
		require.Equal(t, "first-api-token", got)
	})

	t.Run("overwrite reports replacement", func(t *testing.T) {
		replaced, err := svc.UpsertToken(ctx, "alice01", "second-api-token")
		require.NoError(t, err)
		require.True(t, replaced)

		got, err := svc.GetToken(ctx, "alice01")
		require.NoError(t, err)
		require.Equal(t, "second-api-token", got)
	})

	t.Run("delete then fetch reports none", func(t *testing.T) {
		require.NoError(t, svc.DeleteToken(ctx, "alice01"))

		_, err := svc.GetToken(ctx, "alice01")
		require.ErrorIs(t, err, service.ErrNoToken)
	})

	t.Run("empty token rejected", func(t *testing.T) {
		_, err := svc.UpsertToken(ctx, "alice01", "")
		require.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpsertToken(ctx, "nosuchuser", "tok")
		require.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestLogin_CarriesStoredAPIToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice01", "password1")
	require.NoError(t, err)

	_, err = svc.UpsertToken(ctx, "alice01", "plan-api-key")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "alice01", "password1")
	require.NoError(t, err)
	require.Equal(t, "plan-api-key", user.APIToken)

	claims, err := newVerifier(t).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "plan-api-key", claims.APIToken)
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, "alice01", "password1")
	require.NoError(t, err)

	got, err := svc.CurrentUser(ctx, "alice01")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = svc.CurrentUser(ctx, "vanished")
	require.ErrorIs(t, err, service.ErrNotFound)
}
