package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotevault/internal/adapters/storage"
	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/platform/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubSource is a controllable SyncSource for router tests.
type stubSource struct {
	quotes []domain.Quote
	err    error
}

func (s *stubSource) FetchCandidates(_ context.Context) ([]domain.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.quotes, nil
}

// setupTestRouter builds a full engine backed by a real file store in a temp dir.
func setupTestRouter(t *testing.T, source *stubSource) (*gin.Engine, *app.CollectionService) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := storage.New(storage.Config{
		Dir:    t.TempDir(),
		Logger: logger,
	})
	require.NoError(t, err)

	svcCfg := app.CollectionServiceConfig{
		Store:  store,
		Seed:   app.SeedCollection(),
		Logger: logger,
	}
	if source != nil {
		svcCfg.Source = source
	}

	service := app.NewCollectionService(svcCfg)
	service.Restore(context.Background())

	engine := gin.New()
	appCfg := &config.AppConfig{
		Name:        "quotevault-test",
		Environment: "test",
		Version:     "1.0.0",
	}
	healthHandler := handlers.NewHealthHandler(nil, handlers.BuildInfo{Version: "1.0.0"})

	cfg := RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		QuoteHandler:  handlers.NewQuoteHandler(service),
		SyncHandler:   handlers.NewSyncHandler(service),
		HealthHandler: healthHandler,
		Timeout:       5 * time.Second,
	}
	SetupRouter(engine, cfg)

	return engine, service
}

func doRequest(engine *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	engine.ServeHTTP(w, req)

	return w
}

func TestRouter_RandomQuote(t *testing.T) {
	engine, _ := setupTestRouter(t, nil)

	t.Run("returns a quote from the seed collection", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/api/v1/quotes/random", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["text"])
		assert.NotEmpty(t, resp["category"])
	})

	t.Run("filters by category", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/api/v1/quotes/random?category=Design", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Design", resp["category"])
	})

	t.Run("treats all as no filter", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/api/v1/quotes/random?category=all", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown category is 404", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/api/v1/quotes/random?category=Nonexistent", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRouter_ListQuotes(t *testing.T) {
	engine, service := setupTestRouter(t, nil)

	t.Run("lists the whole collection", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/api/v1/quotes", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []map[string]any `json:"items"`
			Count int              `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, service.Count(), resp.Count)
		assert.Len(t, resp.Items, resp.Count)
	})

	t.Run("filters by category", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/api/v1/quotes?category=Design", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []map[string]any `json:"items"`
			Count int              `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		for _, item := range resp.Items {
			assert.Equal(t, "Design", item["category"])
		}
	})

	t.Run("unknown category yields empty list", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/api/v1/quotes?category=Nonexistent", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Zero(t, resp.Count)
	})
}

func TestRouter_AddQuote(t *testing.T) {
	engine, service := setupTestRouter(t, nil)

	t.Run("adds a quote", func(t *testing.T) {
		before := service.Count()

		body := []byte(`{"text":"Testing shows the presence of bugs.","category":"Testing"}`)
		w := doRequest(engine, http.MethodPost, "/api/v1/quotes", body)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["id"])
		assert.Equal(t, "Testing", resp["category"])
		assert.Equal(t, before+1, service.Count())
	})

	t.Run("duplicate text and category is a conflict", func(t *testing.T) {
		body := []byte(`{"text":"Testing shows the presence of bugs.","category":"Testing"}`)
		w := doRequest(engine, http.MethodPost, "/api/v1/quotes", body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("blank text is rejected", func(t *testing.T) {
		body := []byte(`{"text":"   ","category":"Testing"}`)
		w := doRequest(engine, http.MethodPost, "/api/v1/quotes", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("reserved category is rejected", func(t *testing.T) {
		body := []byte(`{"text":"Some quote","category":"all"}`)
		w := doRequest(engine, http.MethodPost, "/api/v1/quotes", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid JSON body is rejected", func(t *testing.T) {
		w := doRequest(engine, http.MethodPost, "/api/v1/quotes", []byte(`{not json`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_Categories(t *testing.T) {
	engine, _ := setupTestRouter(t, nil)

	w := doRequest(engine, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Categories, "Design")
	assert.Contains(t, resp.Categories, "Programming")
}

func TestRouter_LastViewed(t *testing.T) {
	engine, _ := setupTestRouter(t, nil)

	t.Run("404 before anything is displayed", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/api/v1/quotes/last-viewed", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("returns the quote after a random pick", func(t *testing.T) {
		first := doRequest(engine, http.MethodGet, "/api/v1/quotes/random", nil)
		require.Equal(t, http.StatusOK, first.Code)

		var picked map[string]any
		require.NoError(t, json.Unmarshal(first.Body.Bytes(), &picked))

		w := doRequest(engine, http.MethodGet, "/api/v1/quotes/last-viewed", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var last map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &last))
		assert.Equal(t, picked["text"], last["text"])
	})
}

func TestRouter_Export(t *testing.T) {
	engine, service := setupTestRouter(t, nil)

	w := doRequest(engine, http.MethodGet, "/api/v1/quotes/export", nil)
	require.Equal(t, http.StatusOK, w.Code)

	disposition := w.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, ".json")
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var exported []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exported))
	assert.Len(t, exported, service.Count())
}

func TestRouter_Import(t *testing.T) {
	engine, service := setupTestRouter(t, nil)

	t.Run("merges a valid payload", func(t *testing.T) {
		body := []byte(`[
			{"id":"imp-1","text":"Imported wisdom.","category":"Wisdom"},
			{"text":"Imported without id.","category":"Wisdom"}
		]`)

		w := doRequest(engine, http.MethodPost, "/api/v1/quotes/import", body)
		require.Equal(t, http.StatusOK, w.Code)

		var result app.ImportResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 2, result.Added)
		assert.Zero(t, result.Rejected)
	})

	t.Run("malformed payload leaves the collection untouched", func(t *testing.T) {
		before := service.Count()

		w := doRequest(engine, http.MethodPost, "/api/v1/quotes/import", []byte(`{"not":"an array"}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, before, service.Count())
	})

	t.Run("empty payload is rejected", func(t *testing.T) {
		w := doRequest(engine, http.MethodPost, "/api/v1/quotes/import", []byte(`  `))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_Sync(t *testing.T) {
	t.Run("merges fetched candidates", func(t *testing.T) {
		source := &stubSource{
			quotes: []domain.Quote{
				{ID: "server-1", Text: "Fetched quote.", Category: "Topic-1", UpdatedAt: time.Now()},
			},
		}
		engine, _ := setupTestRouter(t, source)

		w := doRequest(engine, http.MethodPost, "/api/v1/sync", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var result app.SyncResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 1, result.Fetched)
		assert.Equal(t, 1, result.Added)
	})

	t.Run("unreachable feed is 503", func(t *testing.T) {
		source := &stubSource{err: domain.NewUnavailableError("quote-feed", "connection refused")}
		engine, service := setupTestRouter(t, source)
		before := service.Count()

		w := doRequest(engine, http.MethodPost, "/api/v1/sync", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, before, service.Count())
	})

	t.Run("status reflects the last cycle", func(t *testing.T) {
		source := &stubSource{quotes: []domain.Quote{}}
		engine, _ := setupTestRouter(t, source)

		doRequest(engine, http.MethodPost, "/api/v1/sync", nil)

		w := doRequest(engine, http.MethodGet, "/api/v1/sync/status", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var status app.SyncStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, 1, status.Cycles)
		assert.NotNil(t, status.LastSuccess)
		assert.Empty(t, status.LastError)
	})
}

func TestRouter_RequestIDHeader(t *testing.T) {
	engine, _ := setupTestRouter(t, nil)

	w := doRequest(engine, http.MethodGet, "/api/v1/quotes", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

// TestServerNew tests creating a new HTTP server.
func TestServerNew(t *testing.T) {
	cfg := &config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           8080,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		MaxRequestSize: 1 << 20,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := New(cfg, logger)

	require.NotNil(t, srv)
	assert.NotNil(t, srv.engine)
	assert.NotNil(t, srv.httpServer)
	assert.Equal(t, cfg, srv.config)
	assert.Equal(t, logger, srv.logger)
}

// TestServerAddr tests the server address formatting.
func TestServerAddr(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		port         int
		expectedAddr string
	}{
		{
			name:         "localhost with port 8080",
			host:         "localhost",
			port:         8080,
			expectedAddr: "localhost:8080",
		},
		{
			name:         "0.0.0.0 with port 3000",
			host:         "0.0.0.0",
			port:         3000,
			expectedAddr: "0.0.0.0:3000",
		},
		{
			name:         "127.0.0.1 with port 0",
			host:         "127.0.0.1",
			port:         0,
			expectedAddr: "127.0.0.1:0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.ServerConfig{
				Host:           tt.host,
				Port:           tt.port,
				ReadTimeout:    5 * time.Second,
				WriteTimeout:   10 * time.Second,
				IdleTimeout:    30 * time.Second,
				MaxRequestSize: 1 << 20,
			}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))

			srv := New(cfg, logger)
			assert.Equal(t, tt.expectedAddr, srv.Addr())
		})
	}
}

// TestServerStartShutdown tests starting and stopping the server.
func TestServerStartShutdown(t *testing.T) {
	cfg := &config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           0, // Use port 0 for dynamic port allocation
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		MaxRequestSize: 1 << 20,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := New(cfg, logger)

	// Add a simple route for testing
	srv.Engine().GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	errCh := srv.Start()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)

	// Verify no immediate errors
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("server start error: %v", err)
		}
	default:
		// No error, server is running
	}

	// Shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := srv.Shutdown(ctx)
	require.NoError(t, err)

	// Verify error channel is closed
	_, ok := <-errCh
	assert.False(t, ok, "error channel should be closed")
}

// TestNewDefaultRouterConfig tests creating a default router configuration.
func TestNewDefaultRouterConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCfg := &config.AppConfig{
		Name:        "test-app",
		Environment: "test",
		Version:     "1.0.0",
	}
	healthHandler := handlers.NewHealthHandler(nil, handlers.BuildInfo{})

	cfg := NewDefaultRouterConfig(logger, appCfg, nil, nil, healthHandler)

	assert.Equal(t, logger, cfg.Logger)
	assert.Equal(t, appCfg, cfg.AppConfig)
	assert.Equal(t, healthHandler, cfg.HealthHandler)
	assert.Equal(t, DefaultRequestTimeout, cfg.Timeout)
	assert.Nil(t, cfg.QuoteHandler)
	assert.Nil(t, cfg.SyncHandler)
}

// TestSetupMinimalRouter tests setting up a minimal router with health endpoints.
func TestSetupMinimalRouter(t *testing.T) {
	engine := gin.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	healthHandler := handlers.NewHealthHandler(nil, handlers.BuildInfo{
		Version: "1.0.0",
	})

	SetupMinimalRouter(engine, logger, healthHandler)

	// Verify routes are registered
	routes := engine.Routes()
	assert.NotEmpty(t, routes)

	// Test health endpoint is accessible
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/-/live", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// TestSetupMinimalRouterWithNilHandler tests minimal router with nil health handler.
func TestSetupMinimalRouterWithNilHandler(t *testing.T) {
	engine := gin.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Should not panic with nil handler
	require.NotPanics(t, func() {
		SetupMinimalRouter(engine, logger, nil)
	})
}

// TestSetupRouterWithNilHandlers tests router setup with nil handlers.
func TestSetupRouterWithNilHandlers(t *testing.T) {
	engine := gin.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCfg := &config.AppConfig{
		Name:        "test-service",
		Environment: "test",
		Version:     "1.0.0",
	}

	cfg := RouterConfig{
		Logger:    logger,
		AppConfig: appCfg,
		Timeout:   0, // No timeout either
	}

	require.NotPanics(t, func() {
		SetupRouter(engine, cfg)
	})
}

// TestHealthEndpoints tests that health routes work through the full router.
func TestHealthEndpoints(t *testing.T) {
	engine, _ := setupTestRouter(t, nil)

	t.Run("liveness", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/-/live", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ok")
	})

	t.Run("build info", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/-/build", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "1.0.0")
	})

	t.Run("metrics", func(t *testing.T) {
		w := doRequest(engine, http.MethodGet, "/-/metrics", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.Contains(w.Body.String(), "go_"), "expected Go runtime metrics")
	})
}
