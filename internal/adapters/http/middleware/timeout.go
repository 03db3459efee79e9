package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
)

// runWithDeadline installs a deadline on the request context and races
// the handler chain against it. On deadline it answers 503; it cannot
// forcibly stop a handler that ignores context cancellation.
func runWithDeadline(c *gin.Context, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)

	done := make(chan struct{})

	go func() {
		c.Next()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			handleTimeout(c, timeout)
		}
	}
}

// Timeout returns middleware that enforces a request deadline.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		runWithDeadline(c, timeout)
	}
}

// TimeoutWithSkipPaths returns timeout middleware that leaves certain
// paths unbounded, for endpoints expected to outlive the deadline.
func TimeoutWithSkipPaths(timeout time.Duration, skipPaths []string) gin.HandlerFunc {
	skipMap := make(map[string]struct{}, len(skipPaths))
	for _, path := range skipPaths {
		skipMap[path] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, skip := skipMap[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		runWithDeadline(c, timeout)
	}
}

// handleTimeout handles a timeout by logging and responding with an error.
func handleTimeout(c *gin.Context, timeout time.Duration) {
	ctxLogger := logging.FromContext(c.Request.Context())

	var traceID string
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		traceID = span.SpanContext().TraceID().String()
	}

	ctxLogger.Warn("request timeout",
		slog.String("path", c.Request.URL.Path),
		slog.String("method", c.Request.Method),
		slog.Duration("timeout", timeout),
		slog.String("trace_id", traceID),
	)

	errResp := dto.NewErrorResponse(
		dto.ErrorCodeTimeout,
		"request timeout exceeded",
	)
	if traceID != "" {
		errResp.TraceID = traceID
	}

	if !c.Writer.Written() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, errResp)
	} else {
		c.Abort()
	}
}

// SimpleTimeout only sets the context deadline and lets handlers react
// to ctx.Done() themselves. More predictable for context-aware work.
func SimpleTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
