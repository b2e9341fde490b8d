package http

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/goedr/console/pkg/httpx"
)

// NewScanProxy reverse-proxies requests to the scan engine. The engine
// serves its API under /s/ already, so the incoming path is forwarded as-is.
func NewScanProxy(target *url.URL, logger *slog.Logger) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(target)

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("scan engine proxy error",
			"path", r.URL.Path, "target", target.String(), "err", err)
		httpx.WriteJSON(w, http.StatusBadGateway, map[string]string{
			"error": "scan engine unavailable",
		})
	}

	return proxy
}
