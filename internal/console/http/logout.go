package http

import (
	"net/http"

	"github.com/goedr/console/pkg/httpx"
)

// LogoutHandler tears down the browser session and clears the apiToken
// cookie. Logging out an already-dead session still succeeds.
type LogoutHandler struct {
	Guard  *httpx.CSRFGuard
	Secure bool
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if sid := httpx.SessionIDFromContext(r.Context()); sid != "" {
		h.Guard.Destroy(sid)
	}

	clearAPITokenCookie(w, h.Secure)

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logout successful.",
	})
}
