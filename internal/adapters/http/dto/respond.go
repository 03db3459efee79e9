package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/platform/logging"
)

// traceIDKey is the gin context key under which middleware stores the trace ID.
const traceIDKey = "trace_id"

// GetTraceID extracts the trace ID from the gin context.
// Falls back to the X-Request-ID header when middleware has not set one.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(traceIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}

		return ""
	}

	return c.Request.Header.Get("X-Request-ID")
}

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.IsMalformedInput(err):
		return http.StatusBadRequest, NewErrorResponse(ErrorCodeMalformedInput, err.Error())

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())
		// Extract field details if available
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{
				validationErr.Field: validationErr.Message,
			}
		}

		return http.StatusBadRequest, resp

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, err.Error())

	default:
		// Unknown errors get a generic message to avoid leaking internals
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// HandleError writes an error response to the gin.Context.
// It maps domain errors to HTTP statuses and attaches the trace ID.
func HandleError(c *gin.Context, err error) {
	status, errResp := MapDomainError(err)
	errResp.TraceID = GetTraceID(c)

	// Log internal errors with full details
	if status == http.StatusInternalServerError {
		logger := logging.FromContext(c.Request.Context())
		logger.Error("internal error",
			"error", err.Error(),
			"trace_id", errResp.TraceID,
		)
	}

	c.JSON(status, errResp)
}
