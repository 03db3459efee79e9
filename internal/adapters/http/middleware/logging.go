package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/platform/logging"
)

// operationalPrefix marks probe and metrics endpoints that would only
// produce log noise.
const operationalPrefix = "/-/"

// statusLevel maps a response status to the level the completion line
// is logged at.
func statusLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// logRequest emits the start and completion lines around c.Next(),
// using the context logger so request and correlation IDs come along.
func logRequest(c *gin.Context) {
	start := time.Now()

	path := c.Request.URL.Path
	if c.Request.URL.RawQuery != "" {
		path = path + "?" + c.Request.URL.RawQuery
	}

	ctxLogger := logging.FromContext(c.Request.Context())

	ctxLogger.Info("request started",
		slog.String("method", c.Request.Method),
		slog.String("path", path),
		slog.String("client_ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
	)

	c.Next()

	latency := time.Since(start)
	status := c.Writer.Status()

	ctxLogger.Log(c.Request.Context(), statusLevel(status), "request completed",
		slog.String("method", c.Request.Method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("latency", latency),
		slog.Int64("latency_ms", latency.Milliseconds()),
		slog.Int("bytes", c.Writer.Size()),
	)
}

// Logging returns middleware that logs every request's start and
// completion. Operational endpoints (under /-/) are skipped.
func Logging(_ *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, operationalPrefix) {
			c.Next()
			return
		}

		logRequest(c)
	}
}

// LoggingWithSkipPaths returns logging middleware that additionally
// skips an explicit list of exact paths.
func LoggingWithSkipPaths(_ *slog.Logger, skipPaths []string) gin.HandlerFunc {
	skipMap := make(map[string]struct{}, len(skipPaths))
	for _, path := range skipPaths {
		skipMap[path] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if _, skip := skipMap[path]; skip {
			c.Next()
			return
		}

		if strings.HasPrefix(path, operationalPrefix) {
			c.Next()
			return
		}

		logRequest(c)
	}
}
