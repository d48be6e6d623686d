package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/merchkit/checkout/internal/checkout/client"
	httpapi "github.com/merchkit/checkout/internal/checkout/http"
	"github.com/merchkit/checkout/internal/checkout/service"
	"github.com/merchkit/checkout/internal/checkout/store"
	"github.com/merchkit/checkout/internal/checkout/store/drivers/memory"
	"github.com/merchkit/checkout/internal/checkout/store/drivers/redis"
	"github.com/merchkit/checkout/internal/checkout/store/drivers/sqlite"
	"github.com/merchkit/checkout/pkg/clockx"
	"github.com/merchkit/checkout/pkg/jwtx"
	"github.com/merchkit/checkout/pkg/slogx"
	"github.com/merchkit/checkout/pkg/taskx"
)

// BuildVersion is overridable at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the checkout service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger
	clock  clockx.Clock

	// Core dependencies
	db       store.Store
	keys     *jwtx.KeySet
	verifier jwtx.Verifier

	// Services
	sessionService      *service.SessionService
	captureService      *service.CaptureService
	housekeepingService *service.HousekeepingService
	tasks               *taskx.Runner

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg:   cfg,
		clock: clockx.Default(),
		logger: slogx.New(slogx.Config{
			Service: "checkout-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStore(); err != nil {
		return nil, err
	}

	if err := app.initVerifier(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Redis expires session keys natively; the other drivers need the sweep.
	if app.housekeepingService != nil {
		app.housekeepingService.Start()
	}

	app.logger.Info("checkout service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"store", app.cfg.StoreDriver,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down checkout service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping sweep
	if app.housekeepingService != nil {
		app.housekeepingService.Stop()
	}

	// Drain in-flight background tasks (consumed-session deletes)
	if err := app.tasks.Wait(ctx); err != nil {
		app.logger.Warn("background tasks did not drain before deadline", "error", err)
	}

	// Close the session store
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing session store", "error", err)
		return err
	}

	app.logger.Info("checkout service stopped")
	return nil
}

// initStore selects the session store driver and applies migrations
func (app *Application) initStore() error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.StoreDriver {
	case "redis":
		db, err = redis.NewStore(app.cfg.RedisAddr, app.cfg.RedisPassword)
	case "sqlite":
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err = sqlite.NewStore(dsn)
	case "memory":
		db = memory.NewStore(app.clock)
		app.logger.Warn("memory store selected - sessions will not survive a restart")
	default:
		return fmt.Errorf("unknown store driver %q (expected memory, sqlite or redis)", app.cfg.StoreDriver)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize %s store: %w", app.cfg.StoreDriver, err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply store migrations: %w", err)
	}

	app.logger.Info("session store ready", "driver", app.cfg.StoreDriver)
	return nil
}

// initVerifier loads the identity provider's public keys so shopper tokens
// can be verified locally. Without a JWKS source the service still runs, but
// only guest (X-Anonymous-Id) traffic passes identity checks.
func (app *Application) initVerifier(ctx context.Context) error {
	app.keys = jwtx.NewKeySet()

	switch {
	case app.cfg.JWKSFile != "":
		jwks, err := jwtx.LoadJWKSFile(app.cfg.JWKSFile)
		if err != nil {
			return fmt.Errorf("failed to load JWKS: %w", err)
		}
		if err := app.keys.ResetFromJWKS(jwks); err != nil {
			return fmt.Errorf("failed to load JWKS: %w", err)
		}
		app.logger.Info("shopper token keys loaded", "source", app.cfg.JWKSFile, "keys", len(jwks.Keys))

	case app.cfg.JWKSURL != "":
		fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		jwks, err := jwtx.FetchJWKS(fetchCtx, http.DefaultClient, app.cfg.JWKSURL)
		if err != nil {
			return fmt.Errorf("failed to fetch JWKS: %w", err)
		}
		if err := app.keys.ResetFromJWKS(jwks); err != nil {
			return fmt.Errorf("failed to fetch JWKS: %w", err)
		}
		app.logger.Info("shopper token keys loaded", "source", app.cfg.JWKSURL, "keys", len(jwks.Keys))

	default:
		app.logger.Warn("no JWKS source configured - customer tokens will be rejected, guest checkout only")
	}

	app.verifier = jwtx.NewVerifierES256(app.keys, app.cfg.JWTIssuer, app.cfg.JWTAudience)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tasks = taskx.New(app.logger, taskx.DefaultTaskTimeout)

	app.sessionService = &service.SessionService{
		Store: app.db,
		Clock: app.clock,
	}

	validator := &service.Validator{
		// Security events share the main pipeline but carry a channel marker
		// so log tooling can route them to the audit sink.
		Audit: app.logger.With(slog.String("channel", "audit")),
	}

	app.captureService = &service.CaptureService{
		Sessions:       app.sessionService,
		Validator:      validator,
		Carts:          client.NewCartClient(app.cfg.CartServiceURL),
		Orders:         client.NewOrderClient(app.cfg.OrderServiceURL),
		Payments:       client.NewPaymentClient(app.cfg.PaymentServiceURL, app.cfg.PaymentTimeout),
		Tasks:          app.tasks,
		PaymentTimeout: app.cfg.PaymentTimeout,
	}

	if app.cfg.StoreDriver != "redis" {
		app.housekeepingService = service.NewHousekeepingService(
			app.db,
			app.logger,
			app.cfg.HousekeepingInterval,
		)
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.CaptureService = app.captureService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
