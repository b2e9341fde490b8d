package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/goedr/console/pkg/idx"
	"github.com/goedr/console/pkg/slogx"
)

const (
	// SessionCookieName carries the guard's session id.
	SessionCookieName = "console_session"

	// CSRFHeaderName is where state-changing requests present the
	// anti-forgery value.
	CSRFHeaderName = "X-CSRF-Token"

	csrfTokenBytes = 32
)

// session is the server-side state for one browser session.
type session struct {
	token   string
	expires time.Time
}

// CSRFGuard issues a per-session anti-forgery value on first contact and
// validates it on every state-changing request. Read requests (GET, HEAD,
// OPTIONS) bypass the check by design.
//
// Sessions live in memory; a restart invalidates them all, which only forces
// clients to fetch a fresh token.
type CSRFGuard struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	secure   bool // mark cookies Secure (HTTPS deployments)

	lastSweep time.Time
}

// NewCSRFGuard creates a guard whose sessions expire after ttl of issuance.
func NewCSRFGuard(ttl time.Duration, secure bool) *CSRFGuard {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &CSRFGuard{
		sessions:  make(map[string]*session),
		ttl:       ttl,
		secure:    secure,
		lastSweep: time.Now(),
	}
}

// Middleware ensures the request has a live session (issuing the cookie and
// anti-forgery value on first contact) and rejects non-read requests whose
// CSRF header does not match the session's value.
func (g *CSRFGuard) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, fresh := g.ensureSession(w, r)

			ctx := contextWithSession(r.Context(), sid)
			r = r.WithContext(ctx)

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			// A brand-new session cannot have seen its token yet, so any
			// state-changing request on it is forged or stale.
			if fresh || !g.validate(sid, r.Header.Get(CSRFHeaderName)) {
				slogx.FromContext(ctx).Warn("csrf validation failed",
					"method", r.Method, "path", r.URL.Path)
				WriteJSON(w, http.StatusForbidden, map[string]string{
					"error": "invalid csrf token",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Token returns the anti-forgery value for the request's session, issuing a
// session first if needed. This backs the "get token" query.
func (g *CSRFGuard) Token(w http.ResponseWriter, r *http.Request) string {
	sid := SessionIDFromContext(r.Context())
	if sid == "" {
		sid, _ = g.ensureSession(w, r)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.sessions[sid]; ok && time.Now().Before(s.expires) {
		return s.token
	}
	return ""
}

// Destroy invalidates a session (logout). Destroying an unknown session is a
// no-op, keeping logout idempotent.
func (g *CSRFGuard) Destroy(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, sessionID)
}

// ensureSession returns the request's session id, minting a session and
// setting the cookie when the request has none (or an expired/unknown one).
// fresh reports whether the session was created by this call.
func (g *CSRFGuard) ensureSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		g.mu.Lock()
		s, ok := g.sessions[c.Value]
		alive := ok && time.Now().Before(s.expires)
		g.mu.Unlock()
		if alive {
			return c.Value, false
		}
	}

	sid := idx.New().String()
	tok := newCSRFToken()

	g.mu.Lock()
	g.sessions[sid] = &session{token: tok, expires: time.Now().Add(g.ttl)}
	g.maybeSweepLocked()
	g.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return sid, true
}

// validate does a constant-time comparison of the presented value against
// the session's anti-forgery token.
func (g *CSRFGuard) validate(sessionID, presented string) bool {
	if presented == "" {
		return false
	}

	g.mu.Lock()
	s, ok := g.sessions[sessionID]
	g.mu.Unlock()

	if !ok || time.Now().After(s.expires) {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(s.token), []byte(presented)) == 1
}

// maybeSweepLocked drops expired sessions. Caller holds g.mu.
func (g *CSRFGuard) maybeSweepLocked() {
	now := time.Now()
	if now.Sub(g.lastSweep) < 5*time.Minute {
		return
	}
	g.lastSweep = now

	for id, s := range g.sessions {
		if now.After(s.expires) {
			delete(g.sessions, id)
		}
	}
}

func newCSRFToken() string {
	var b [csrfTokenBytes]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

func contextWithSession(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, CtxKeySessionID, sid)
}
