package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/goedr/console/pkg/jwtx"
	"github.com/goedr/console/pkg/slogx"
)

// AuthnMiddleware verifies the Authorization bearer credential and injects
// the decoded identity into the request context. Requests without a valid
// credential get a 401 before reaching the handler.
func AuthnMiddleware(v *jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"error": "Unauthorized: No token provided",
				})
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"error": "Unauthorized: Invalid token",
				})
				return
			}

			// Inject into context for downstream handlers.
			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.UserID)
	ctx = context.WithValue(ctx, CtxKeyUsername, c.Username)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}
