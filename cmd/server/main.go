package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/seshop/internal"
	"github.com/dukerupert/seshop/internal/auth"
	"github.com/dukerupert/seshop/internal/bootstrap"
	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/events"
	"github.com/dukerupert/seshop/internal/handler/api"
	"github.com/dukerupert/seshop/internal/middleware"
	"github.com/dukerupert/seshop/internal/mongo"
	"github.com/dukerupert/seshop/internal/postgres"
	"github.com/dukerupert/seshop/internal/repository"
	"github.com/dukerupert/seshop/internal/router"
	"github.com/dukerupert/seshop/internal/routes"
	"github.com/dukerupert/seshop/internal/service"
	"github.com/dukerupert/seshop/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	// Initialize Sentry
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Open store
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	// Cart event publisher
	var publisher events.Publisher = events.Noop{}
	if cfg.NATS.URL != "" {
		nats, err := events.NewNATSPublisher(events.NATSConfig{
			URL:           cfg.NATS.URL,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
		}, logger)
		if err != nil {
			return fmt.Errorf("event publisher initialization failed: %w", err)
		}
		publisher = nats
	} else {
		logger.Info("NATS_URL not set, cart events disabled")
	}
	defer publisher.Close()

	// Auth
	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return fmt.Errorf("token issuer initialization failed: %w", err)
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	// Initialize services
	businessMetrics := telemetry.NewBusinessMetrics("seshop", nil)
	productService := service.NewProductService(store, businessMetrics)
	cartService := service.NewCartService(store, productService, service.CartOptions{
		MergeScope: domain.MergeScope(cfg.Cart.MergeScope),
		Publisher:  publisher,
		Metrics:    businessMetrics,
		Logger:     logger,
	})
	userService := service.NewUserService(store, hasher, businessMetrics)

	// Ensure the initial admin account exists
	if err := bootstrap.EnsureAdmin(ctx, store, hasher, &bootstrap.AdminConfig{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		Name:     cfg.Admin.Name,
	}, logger); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	metrics := middleware.NewMetrics("seshop", nil)

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0 // Disable HSTS in development
	}

	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()
	authRateLimiter := middleware.NewRateLimiter(middleware.StrictRateLimiterConfig())
	defer authRateLimiter.Stop()

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		middleware.RequestID,
		middleware.WithClientIP(),
		middleware.WithRequestLogger(logger),
		metrics.Middleware,
		middleware.SecurityHeaders(securityConfig),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(cfg.RequestTimeout),
		router.Recovery(logger),
		telemetry.SentryMiddleware(),
		defaultRateLimiter.Middleware,
		router.Logger(logger),
	)

	routes.RegisterAPIRoutes(r, routes.APIDeps{
		CartHandler:    api.NewCartHandler(cartService),
		ProductHandler: api.NewProductHandler(productService),
		UserHandler:    api.NewUserHandler(userService),
		TokenHandler:   api.NewTokenHandler(userService, issuer),
		Verifier:       issuer,
		Users:          userService,
		Store:          store,
		Metrics:        metrics,
		AuthLimiter:    authRateLimiter,
	})
	logger.Debug("routes registered", "routes", r.Routes())

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router.CORS([]string{cfg.ClientURL})(r),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server", "address", srv.Addr, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openStore connects the configured backend. Postgres schemas are migrated
// before the pool is handed to the services.
func openStore(ctx context.Context, cfg *internal.Config, logger *slog.Logger) (repository.Store, error) {
	opts := repository.Options{UniqueCartProduct: cfg.Cart.UniqueProduct}

	switch cfg.Store.Driver {
	case internal.StorePostgres:
		logger.Info("Connecting to database...")
		store, err := postgres.Open(ctx, postgres.Config{URL: cfg.Store.DatabaseURL, Options: opts}, logger)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}

		logger.Info("Running database migrations...")
		db := store.SQLDB()
		defer db.Close()
		if err := internal.RunMigrations(db); err != nil {
			store.Close(ctx)
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		if version, err := internal.MigrationVersion(db); err == nil {
			logger.Info("Database migrations completed successfully", "version", version)
		}

		if err := store.EnsureIndexes(ctx); err != nil {
			store.Close(ctx)
			return nil, fmt.Errorf("failed to ensure indexes: %w", err)
		}
		return store, nil

	case internal.StoreMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		return repository.NewMemoryStore(opts), nil

	default:
		logger.Info("Connecting to MongoDB...", "database", cfg.Store.MongoDatabase)
		store, err := mongo.Open(ctx, mongo.Config{
			URL:      cfg.Store.MongoURL,
			Database: cfg.Store.MongoDatabase,
			Options:  opts,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("mongodb connection failed: %w", err)
		}
		return store, nil
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
