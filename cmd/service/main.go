// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsamuelsen/quotevault/internal/adapters/clients"
	"github.com/jsamuelsen/quotevault/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quotevault/internal/adapters/http"
	"github.com/jsamuelsen/quotevault/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotevault/internal/adapters/storage"
	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/platform/config"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
	"github.com/jsamuelsen/quotevault/internal/platform/telemetry"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Create health registry
	healthRegistry := ports.NewHealthRegistry()

	// 6. Create the on-disk collection store
	store, err := storage.New(storage.Config{
		Dir:    cfg.Store.Dir,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("creating collection store: %w", err)
	}

	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering store health check: %w", err)
	}

	// 7. Create HTTP client and feed adapter for the remote quote feed
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Sync.BaseURL,
		ServiceName: "quote-feed",
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	feedClient := acl.NewFeedClient(acl.FeedClientConfig{
		Client:   httpClient,
		PageSize: cfg.Sync.PageSize,
		Logger:   logger,
	})

	if err := healthRegistry.Register(feedClient); err != nil {
		return fmt.Errorf("registering feed health check: %w", err)
	}

	// 8. Create the collection service and restore persisted state
	service := app.NewCollectionService(app.CollectionServiceConfig{
		Store:  store,
		Source: feedClient,
		Seed:   app.SeedCollection(),
		Logger: logger,
	})
	service.Restore(ctx)

	// 9. Start the periodic sync loop
	var syncer *app.Syncer
	if cfg.Sync.Enabled {
		syncer = app.NewSyncer(app.SyncerConfig{
			Service:  service,
			Interval: cfg.Sync.Interval,
			Logger:   logger,
		})
		syncer.Start(ctx)
	}

	// 10. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo)
	quoteHandler := handlers.NewQuoteHandler(service)
	syncHandler := handlers.NewSyncHandler(service)

	// 11. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 12. Setup router with all middleware and routes
	routerCfg := http.NewDefaultRouterConfig(logger, &cfg.App, quoteHandler, syncHandler, healthHandler)
	http.SetupRouter(server.Engine(), routerCfg)

	// 13. Start server (non-blocking)
	serverErr := server.Start()

	// 14. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, syncer, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then stops the sync loop and performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	syncer *app.Syncer,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		// Server error during startup or runtime
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	// Graceful shutdown sequence
	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop the sync loop before draining requests
	if syncer != nil {
		syncer.Stop()
	}

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
