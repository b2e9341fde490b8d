package domain

import "time"

// User is one registered console principal.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // argon2 encoded, never plaintext
	APIToken     string // planning-API token; empty when unset
	LastLogin    *time.Time
	DateCreated  time.Time
}
