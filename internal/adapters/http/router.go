package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotevault/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotevault/internal/platform/config"
	"github.com/jsamuelsen/quotevault/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// QuoteHandler handles the quote collection endpoints.
	QuoteHandler *handlers.QuoteHandler

	// SyncHandler handles the remote sync endpoints.
	SyncHandler *handlers.SyncHandler

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// Timeout is the default request timeout.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - tracing and metrics
//  5. Logging - request logging (skips health endpoints)
//  6. Timeout - request deadline on the API group
//
// Route groups:
//   - /-/ (internal): health endpoints, no timeout for probes
//   - /api/v1/ (public API): collection, transfer, and sync endpoints
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.SimpleTimeout(cfg.Timeout))
	}

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(apiV1)
	}

	if cfg.SyncHandler != nil {
		cfg.SyncHandler.RegisterSyncRoutes(apiV1)
	}
}

// SetupMinimalRouter sets up a minimal router with just health endpoints.
// Useful for testing or lightweight deployments.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	quoteHandler *handlers.QuoteHandler,
	syncHandler *handlers.SyncHandler,
	healthHandler *handlers.HealthHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		QuoteHandler:  quoteHandler,
		SyncHandler:   syncHandler,
		HealthHandler: healthHandler,
		Timeout:       DefaultRequestTimeout,
	}
}
