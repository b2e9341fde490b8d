package store

import (
	"context"
	"errors"
	"time"

	"github.com/goedr/console/internal/console/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the credential data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable. Every operation is a single-row read or write, so there is no
// transaction surface; the database engine's own locking is enough.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetByID returns a user by store id.
	GetByID(ctx context.Context, id int64) (domain.User, error)

	// GetByUsername is used during login and JWT-derived lookups.
	// Absence surfaces as ErrNotFound; callers that treat absence as a
	// valid result test for it.
	GetByUsername(ctx context.Context, username string) (domain.User, error)

	// Create inserts a new user and returns the row with its assigned id.
	// Duplicate usernames fail with ErrAlreadyExists.
	Create(ctx context.Context, username, passwordHash string) (domain.User, error)

	// SetToken upserts the user's API token: insert if absent, overwrite
	// otherwise.
	SetToken(ctx context.Context, id int64, token string) error

	// GetToken returns the stored API token, or "" when unset.
	GetToken(ctx context.Context, id int64) (string, error)

	// ClearToken removes the user's API token.
	ClearToken(ctx context.Context, id int64) error

	// UpdateLastLogin stamps a successful login.
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error

	// UpdatePasswordHash replaces the password hash (password reset).
	UpdatePasswordHash(ctx context.Context, id int64, newHash string) error

	// Delete removes a user row. Not routed by default.
	Delete(ctx context.Context, id int64) error

	// ResetAll removes every user. Destructive; backs the administrative
	// clear operation only.
	ResetAll(ctx context.Context) error
}
