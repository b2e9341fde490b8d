package http

import (
	"net/http"

	"github.com/goedr/console/pkg/httpx"
)

// CSRFTokenHandler returns the session's anti-forgery value. The guard
// middleware has already issued the session cookie by the time this runs.
type CSRFTokenHandler struct {
	Guard *httpx.CSRFGuard
}

func (h *CSRFTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := h.Guard.Token(w, r)

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"csrfToken": token,
	})
}
