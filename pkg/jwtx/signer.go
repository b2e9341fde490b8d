package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer issues HS256-signed bearer credentials. The signing secret is
// process-wide configuration loaded once at startup; rotation is out of scope.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration

	// now is overridable for tests.
	now func() time.Time
}

// NewSigner creates a Signer with the given shared secret and issuer.
// A zero ttl falls back to DefaultTokenTTL.
func NewSigner(secret []byte, issuer string, ttl time.Duration) (*Signer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty signing secret")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Signer{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithClock overrides the signer's time source. Tests only.
func (s *Signer) WithClock(now func() time.Time) *Signer {
	s.now = now
	return s
}

// Issue signs a bearer credential for the given user identity.
func (s *Signer) Issue(userID int64, username, apiToken string) (string, error) {
	claims := NewClaims(userID, username, apiToken, s.issuer, s.ttl, s.now().UTC())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}
