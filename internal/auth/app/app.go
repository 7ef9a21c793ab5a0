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

	httpapi "github.com/aussiebroadwan/identity/internal/auth/http"
	"github.com/aussiebroadwan/identity/internal/auth/metrics"
	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/internal/auth/store"
	"github.com/aussiebroadwan/identity/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/aussiebroadwan/identity/pkg/tracex"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

const serviceName = "identity"

// Application encapsulates the identity service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db            store.Store
	keyManager    *jwtx.KeyManager
	metrics       metrics.Recorder
	traceShutdown func(context.Context) error

	sessionService      *service.SessionService
	clientService       *service.ClientService
	authorizeService    *service.AuthorizeService
	tokenService        *service.TokenService
	userInfoService     *service.UserInfoService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with every dependency initialised and the
// configured clients seeded.
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: serviceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	shutdown, err := tracex.Setup(ctx, tracex.Config{
		Endpoint:       cfg.OTelEndpoint,
		ServiceName:    serviceName,
		ServiceVersion: BuildVersion,
		SampleRatio:    cfg.OTelSampleRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.traceShutdown = shutdown
	if cfg.OTelEndpoint != "" {
		app.logger.Info("tracing enabled", "endpoint", cfg.OTelEndpoint)
	}

	keyManager, err := InitAuthKeys(cfg, app.logger)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize signing key: %w", err)
	}
	app.keyManager = keyManager

	if err := app.initDatabase(); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		_ = shutdown(ctx)
		return nil, err
	}

	if err := app.seedClients(ctx); err != nil {
		_ = app.db.Close()
		_ = shutdown(ctx)
		return nil, err
	}

	app.initHTTP()
	return app, nil
}

// Handler returns the fully wired HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("identity service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
		defer cancel()

		releaseErr := app.release(ctx)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return releaseErr
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
	app.logger.Info("shutting down identity service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	return app.release(ctx)
}

// release stops the housekeeping worker, flushes pending spans and closes
// the database. It runs however the server stopped.
func (app *Application) release(ctx context.Context) error {
	app.housekeepingService.Stop()

	if err := app.traceShutdown(ctx); err != nil {
		app.logger.Error("error flushing traces", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("identity service stopped")
	return nil
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.FileDSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "path", app.cfg.DatabaseFile)
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() error {
	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}

	app.metrics = metrics.Init(app.cfg.MetricsEnabled)

	app.sessionService = &service.SessionService{
		Store:   app.db,
		Keys:    app.keyManager,
		Hasher:  cryptox.Argon2id{Pepper: pepper},
		Issuer:  app.cfg.Issuer,
		TTL:     app.cfg.SessionTTL,
		Metrics: app.metrics,
	}
	app.clientService = &service.ClientService{Store: app.db}
	app.authorizeService = &service.AuthorizeService{
		Store:               app.db,
		Keys:                app.keyManager,
		Sessions:            app.sessionService,
		CodeTTL:             app.cfg.CodeTTL,
		EnforceRegistration: app.cfg.EnforceClientRegistration,
		Metrics:             app.metrics,
	}
	app.tokenService = &service.TokenService{
		Store:   app.db,
		Metrics: app.metrics,
	}
	app.userInfoService = &service.UserInfoService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	app.housekeepingService.Metrics = app.metrics

	if !app.cfg.EnforceClientRegistration {
		app.logger.Warn("client registration enforcement is disabled; redirect_uri and scope are not checked")
	}
	return nil
}

func (app *Application) seedClients(ctx context.Context) error {
	seeds, err := LoadClientSeeds(app.cfg)
	if err != nil {
		return err
	}

	if err := app.clientService.SeedClients(ctx, seeds); err != nil {
		return fmt.Errorf("failed to seed clients: %w", err)
	}

	ids, err := app.clientService.ListClientIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}
	if len(ids) == 0 && app.cfg.EnforceClientRegistration {
		app.logger.Warn("no clients registered; every approval will be refused")
	}
	app.logger.Info("clients registered", "seeded", len(seeds), "client_ids", ids)
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager,
		app.cfg.Issuer,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.CookieSecure = app.cfg.CookieSecure
	router.MetricsEnabled = app.cfg.MetricsEnabled
	router.Metrics = app.metrics
	router.SessionService = app.sessionService
	router.ClientService = app.clientService
	router.AuthorizeService = app.authorizeService
	router.TokenService = app.tokenService
	router.UserInfoService = app.userInfoService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
