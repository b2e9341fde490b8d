package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goedr/console/internal/console/domain"
	"github.com/goedr/console/internal/console/store"
	"github.com/goedr/console/pkg/cryptox"
	"github.com/goedr/console/pkg/jwtx"
	"github.com/goedr/console/pkg/slogx"
)

const (
	MinUsernameLength = 5
	MaxUsernameLength = 50
	MinPasswordLength = 8
)

var (
	// ErrInvalidInput covers malformed or out-of-policy fields.
	ErrInvalidInput = errors.New("invalid_input")

	// ErrConflict reports a username that is already taken.
	ErrConflict = errors.New("username_taken")

	// ErrInvalidCredentials is the merged unknown-user / wrong-password
	// failure. Keeping them indistinguishable stops username enumeration.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrNotFound reports a user that does not exist, on surfaces where
	// saying so is safe (reset, token ops behind a valid bearer).
	ErrNotFound = errors.New("user_not_found")

	// ErrNoToken reports that the user has no stored API token.
	ErrNoToken = errors.New("no_token")
)

// AuthService orchestrates registration, login, password reset and the
// API-token lifecycle over the credential store, password hasher and token
// issuer.
type AuthService struct {
	Store  store.Store
	Signer *jwtx.Signer
}

// Register validates the credentials, creates the user and issues a bearer
// credential for the fresh account.
func (s *AuthService) Register(ctx context.Context, username, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return domain.User{}, "", fmt.Errorf("%w: username must be between %d and %d characters",
			ErrInvalidInput, MinUsernameLength, MaxUsernameLength)
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, "", fmt.Errorf("%w: password must be at least %d characters",
			ErrInvalidInput, MinPasswordLength)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, "", err
	}

	user, err := s.Store.Users().Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", ErrConflict
		}
		return domain.User{}, "", err
	}

	token, err := s.Signer.Issue(user.ID, user.Username, user.APIToken)
	if err != nil {
		return domain.User{}, "", err
	}

	log.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

// Login verifies the credentials, stamps the login time and issues a bearer
// credential. Unknown users and wrong passwords both come back as
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	if len(password) < MinPasswordLength {
		return domain.User{}, "", fmt.Errorf("%w: password must be at least %d characters",
			ErrInvalidInput, MinPasswordLength)
	}

	user, err := s.Store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	token, err := s.Signer.Issue(user.ID, user.Username, user.APIToken)
	if err != nil {
		return domain.User{}, "", err
	}

	now := time.Now().UTC()
	if err := s.Store.Users().UpdateLastLogin(ctx, user.ID, now); err != nil {
		return domain.User{}, "", err
	}
	user.LastLogin = &now

	log.Info("user logged in", slog.Int64("user_id", user.ID))
	return user, token, nil
}

// ResetPassword replaces the user's password hash. The username surface here
// is already public knowledge to the caller, so absence is a plain 404.
func (s *AuthService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if username == "" || newPassword == "" {
		return fmt.Errorf("%w: username and new password are required", ErrInvalidInput)
	}
	if len(newPassword) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters",
			ErrInvalidInput, MinPasswordLength)
	}

	user, err := s.Store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.Store.Users().UpdatePasswordHash(ctx, user.ID, hash)
}

// CurrentUser fetches the user behind a verified bearer credential.
func (s *AuthService) CurrentUser(ctx context.Context, username string) (domain.User, error) {
	user, err := s.Store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpsertToken stores the API token for the user, inserting or overwriting as
// one idempotent operation. replaced reports whether a previous value was
// overwritten, so the HTTP layer can keep its created/updated status split.
func (s *AuthService) UpsertToken(ctx context.Context, username, token string) (replaced bool, err error) {
	if token == "" {
		return false, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	user, err := s.Store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	replaced = user.APIToken != ""
	if err := s.Store.Users().SetToken(ctx, user.ID, token); err != nil {
		return false, err
	}
	return replaced, nil
}

// GetToken returns the user's stored API token.
func (s *AuthService) GetToken(ctx context.Context, username string) (string, error) {
	user, err := s.Store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	token, err := s.Store.Users().GetToken(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// DeleteToken clears the user's stored API token.
func (s *AuthService) DeleteToken(ctx context.Context, username string) error {
	user, err := s.Store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.Store.Users().ClearToken(ctx, user.ID)
}
