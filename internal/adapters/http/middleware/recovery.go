package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
)

// handlePanic logs the recovered value with its stack and writes the
// standard internal-error envelope, unless the response already started.
func handlePanic(c *gin.Context, r any, stack []byte) {
	ctxLogger := logging.FromContext(c.Request.Context())

	var traceID string
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		traceID = span.SpanContext().TraceID().String()
	}

	ctxLogger.Error("panic recovered",
		slog.Any("error", r),
		slog.String("stack", string(stack)),
		slog.String("path", c.Request.URL.Path),
		slog.String("method", c.Request.Method),
		slog.String("trace_id", traceID),
	)

	errResp := dto.NewErrorResponse(
		dto.ErrorCodeInternal,
		"an internal error occurred",
	)
	if traceID != "" {
		errResp.TraceID = traceID
	}

	if !c.Writer.Written() {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errResp)
	} else {
		c.Abort()
	}
}

// Recovery returns middleware that turns a panic anywhere below it
// into a logged ERROR with stack trace and a 500 with the standard
// error envelope. Apply it first in the chain.
func Recovery(_ *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				handlePanic(c, r, debug.Stack())
			}
		}()

		c.Next()
	}
}

// RecoveryWithWriter is Recovery with a hook that also receives the
// recovered value and stack, for tests and custom sinks.
func RecoveryWithWriter(_ *slog.Logger, stackHandler func(err any, stack []byte)) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := debug.Stack()

				if stackHandler != nil {
					stackHandler(r, stack)
				}

				handlePanic(c, r, stack)
			}
		}()

		c.Next()
	}
}
