package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/javaqube/cas/internal/yubiauth/http"
	"github.com/javaqube/cas/internal/yubiauth/registry"
	"github.com/javaqube/cas/internal/yubiauth/service"
	"github.com/javaqube/cas/internal/yubiauth/store"
	"github.com/javaqube/cas/internal/yubiauth/store/drivers/sqlite"
	"github.com/javaqube/cas/pkg/jwtx"
	"github.com/javaqube/cas/pkg/slogx"
	"github.com/javaqube/cas/pkg/yubico"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the OTP authentication service: validation client,
// account registry, decision service and HTTP surface.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db            store.Store // nil unless RegistryMode is sqlite
	authenticator *service.OTPAuthenticator

	server *http.Server
	router *httpapi.Router
}

// New builds an Application from cfg, failing fast on unusable
// configuration.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "yubiauth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}

	verifier, err := yubico.NewClient(cfg.YubicoClientID, cfg.YubicoSecretKey, cfg.ValidationURLs...)
	if err != nil {
		return nil, fmt.Errorf("failed to build validation client: %w", err)
	}

	reg, err := app.initRegistry()
	if err != nil {
		return nil, err
	}

	app.authenticator = service.NewOTPAuthenticator(verifier, reg, app.logger)
	app.initHTTP()

	return app, nil
}

// initRegistry builds the account registry for the configured mode. Open
// mode returns nil; the authenticator treats that as "every device is
// eligible" and warns.
func (app *Application) initRegistry() (registry.AccountRegistry, error) {
	switch app.cfg.RegistryMode {
	case RegistryModeOpen, "":
		return nil, nil

	case RegistryModeAllowlist:
		allowlist, err := registry.ParseAllowlist(app.cfg.RegistryAllowlist)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REGISTRY_ALLOWLIST: %w", err)
		}
		app.logger.Info("using static allowlist registry")
		return allowlist, nil

	case RegistryModeSqlite:
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply database migrations: %w", err)
		}
		app.db = db
		app.logger.Info("using sqlite registry", "file", app.cfg.DatabaseFile)
		return &registry.StoreRegistry{Store: db}, nil

	default:
		return nil, fmt.Errorf("unknown REGISTRY_MODE %q", app.cfg.RegistryMode)
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		jwtx.NewHS256Verifier([]byte(app.cfg.SessionSecret), app.cfg.SessionIssuer),
		BuildVersion,
		app.db,
		app.logger,
	)
	router.Authenticator = app.authenticator
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("yubiauth service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully stops the HTTP server and closes the registry
// database when one is open.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down yubiauth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			return err
		}
	}

	app.logger.Info("yubiauth service stopped")
	return nil
}
