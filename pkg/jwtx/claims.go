package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the fixed lifetime for bearer credentials. Expired
// tokens simply fail verification; there is no refresh mechanism.
const DefaultTokenTTL = 12 * time.Hour

// Claims are the bearer-credential claims for the console. Keeping changes
// additive to preserve compatibility with already-issued tokens.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is the credential store row id for the authenticated user.
	UserID int64 `json:"uid"`

	// Username for the authenticated user.
	Username string `json:"username,omitempty"`

	// APIToken is the user's planning-API token, if one is stored. It is
	// unrelated to the bearer credential itself.
	APIToken string `json:"api_token,omitempty"`
}

// NewClaims builds minimally-correct claims for a user.
func NewClaims(userID int64, username, apiToken, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   userID,
		Username: username,
		APIToken: apiToken,
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}
