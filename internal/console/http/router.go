package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/goedr/console/internal/console/service"
	"github.com/goedr/console/pkg/httpx"
	"github.com/goedr/console/pkg/jwtx"
	"github.com/goedr/console/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	guard        *httpx.CSRFGuard
	verifier     *jwtx.Verifier
	secure       bool // production deployments mark cookies Secure
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	scanEngineURL *url.URL // nil disables the proxy
	staticDir     string   // "" disables static serving

	AuthService *service.AuthService
	PlanService *service.PlanService
}

func NewRouter(
	guard *httpx.CSRFGuard,
	verifier *jwtx.Verifier,
	secure bool,
	buildVersion string,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		guard:        guard,
		verifier:     verifier,
		secure:       secure,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
	}

	// Set default middleware chain. The lenient limit mirrors the blanket
	// per-IP throttle the console has always run with.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.RateLimitByIP(httpx.LenientLimit),
	}

	return r
}

// SetScanEngine points the /s/ reverse proxy at the scan engine.
func (r *Router) SetScanEngine(target *url.URL) {
	r.scanEngineURL = target
}

// SetStaticDir enables serving the built frontend bundle from dir.
func (r *Router) SetStaticDir(dir string) {
	r.staticDir = dir
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerAuth()
	r.registerTokens()
	r.registerPlans()
	r.registerSystem()
	r.registerScanProxy()
	r.registerStatic()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	// GET /csrf-token - issues the session and hands back the anti-forgery
	// value. This is the browser's first call.
	h := &CSRFTokenHandler{Guard: r.guard}
	r.Mux.Handle("GET /csrf-token",
		httpx.Chain(h,
			r.guard.Middleware(),
		),
	)
}

func (r *Router) registerAuth() {
	registerHandler := &RegisterHandler{Auth: r.AuthService}
	loginHandler := &LoginHandler{Auth: r.AuthService, Secure: r.secure}
	resetHandler := &ResetPasswordHandler{Auth: r.AuthService}
	logoutHandler := &LogoutHandler{Guard: r.guard, Secure: r.secure}

	// POST /register - strict rate limit by IP + username body field to
	// slow enumeration and signup abuse.
	r.Mux.Handle("POST /register",
		httpx.Chain(registerHandler,
			r.guard.Middleware(),
			httpx.RateLimitByIPAndBodyField(httpx.StrictLimit, "username"),
		),
	)

	// POST /login - strict rate limit by IP + username (brute force).
	r.Mux.Handle("POST /login",
		httpx.Chain(loginHandler,
			r.guard.Middleware(),
			httpx.RateLimitByIPAndBodyField(httpx.StrictLimit, "username"),
		),
	)

	// POST /reset-password - moderate rate limit.
	r.Mux.Handle("POST /reset-password",
		httpx.Chain(resetHandler,
			r.guard.Middleware(),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /logout - session teardown, no bearer required.
	r.Mux.Handle("POST /logout",
		httpx.Chain(logoutHandler,
			r.guard.Middleware(),
		),
	)

	// GET /user - bearer required.
	userHandler := &UserInfoHandler{Auth: r.AuthService}
	r.Mux.Handle("GET /user",
		httpx.Chain(userHandler,
			r.guard.Middleware(),
			httpx.AuthnMiddleware(r.verifier),
		),
	)
}

func (r *Router) registerTokens() {
	h := &TokenHandler{Auth: r.AuthService, Secure: r.secure}

	r.Mux.Handle("POST /token/add",
		httpx.Chain(http.HandlerFunc(h.HandleAdd),
			r.guard.Middleware(),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /token/delete",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			r.guard.Middleware(),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /token/get",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			r.guard.Middleware(),
			httpx.AuthnMiddleware(r.verifier),
		),
	)
}

func (r *Router) registerPlans() {
	h := &PlanHandler{Plans: r.PlanService}

	// POST /plan/add - bearer required, plan payload stored verbatim with
	// defaults for absent fields.
	r.Mux.Handle("POST /plan/add",
		httpx.Chain(http.HandlerFunc(h.HandleAdd),
			r.guard.Middleware(),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /db/clear - destructive reset. Session-guarded like the rest of
	// the console surface but takes no bearer, matching its role as a lab
	// reset switch.
	r.Mux.Handle("POST /db/clear",
		httpx.Chain(http.HandlerFunc(h.HandleClear),
			r.guard.Middleware(),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
}

func (r *Router) registerScanProxy() {
	if r.scanEngineURL == nil {
		return
	}

	// The engine registers its own routes under /s/, so the path passes
	// through unchanged. The scan tool authenticates with the API token,
	// not the browser session, so the CSRF guard stays out of this path.
	r.Mux.Handle("/s/", NewScanProxy(r.scanEngineURL, r.logger))
}

func (r *Router) registerStatic() {
	if r.staticDir == "" {
		return
	}
	r.Mux.Handle("GET /", NewSPAHandler(r.staticDir))
}
