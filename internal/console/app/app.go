package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/goedr/console/internal/console/http"
	"github.com/goedr/console/internal/console/service"
	"github.com/goedr/console/internal/console/store"
	"github.com/goedr/console/internal/console/store/drivers/sqlite"
	"github.com/goedr/console/internal/console/store/planstore"
	"github.com/goedr/console/pkg/cryptox"
	"github.com/goedr/console/pkg/httpx"
	"github.com/goedr/console/pkg/jwtx"
	"github.com/goedr/console/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the console with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	plans *planstore.Store
	guard *httpx.CSRFGuard

	authService *service.AuthService
	planService *service.PlanService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "console",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	plans, err := planstore.Open(cfg.PlansFile)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to open plan store: %w", err)
	}
	app.plans = plans

	secret, err := loadOrCreateSecret(cfg)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(secret); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initHTTP(secret); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("console starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down console...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("console stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices(secret []byte) error {
	signer, err := jwtx.NewSigner(secret, app.cfg.Issuer, jwtx.DefaultTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}

	app.guard = httpx.NewCSRFGuard(app.cfg.SessionTTL, app.cfg.IsProduction())
	app.authService = &service.AuthService{Store: app.db, Signer: signer}
	app.planService = &service.PlanService{Plans: app.plans, Store: app.db}

	return nil
}

func (app *Application) initHTTP(secret []byte) error {
	verifier, err := jwtx.NewVerifier(secret, app.cfg.Issuer, 0)
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	router := httpapi.NewRouter(
		app.guard,
		verifier,
		app.cfg.IsProduction(),
		BuildVersion,
		app.logger,
	)

	router.AuthService = app.authService
	router.PlanService = app.planService

	if app.cfg.ScanEngineURL != "" {
		target, err := url.Parse(app.cfg.ScanEngineURL)
		if err != nil {
			return fmt.Errorf("invalid scan engine url %q: %w", app.cfg.ScanEngineURL, err)
		}
		router.SetScanEngine(target)
		app.logger.Info("scan engine proxy enabled", "target", target.String())
	}

	if app.cfg.StaticDir != "" {
		router.SetStaticDir(app.cfg.StaticDir)
		app.logger.Info("static frontend serving enabled", "dir", app.cfg.StaticDir)
	}

	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return nil
}
