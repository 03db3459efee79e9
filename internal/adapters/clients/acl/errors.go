package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quotevault/internal/adapters/clients"
	"github.com/jsamuelsen/quotevault/internal/domain"
)

// ErrorResponse represents a standard error response from the feed.
// It supports both nested format (error.code/message) and flat format
// (code/message).
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorDetail contains error information from the feed.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// GetCode returns the error code from either nested or top-level format.
func (e *ErrorResponse) GetCode() string {
	if e.Error.Code != "" {
		return e.Error.Code
	}

	return e.Code
}

// GetMessage returns the error message from either nested or top-level format.
func (e *ErrorResponse) GetMessage() string {
	if e.Error.Message != "" {
		return e.Error.Message
	}

	return e.Message
}

// ParseErrorResponse attempts to parse an error response body.
// Returns nil if the body is empty or cannot be parsed.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(body).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.GetCode() == "" && errResp.GetMessage() == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError maps an HTTP response to a domain error.
// This function handles:
//   - HTTP status codes to domain errors
//   - Error response body parsing for additional context
//   - Client-level errors (circuit breaker, retries exhausted)
//
// Either resp or clientErr may be nil. serviceName names the external
// service for error context; operation is the action being performed
// (e.g. "fetch candidates").
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	var errResp *ErrorResponse
	if resp.Body != nil {
		errResp = ParseErrorResponse(resp.Body)
	}

	return mapStatusCode(resp.StatusCode, errResp, serviceName, operation)
}

// mapClientError translates client-level errors to domain errors.
func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("circuit breaker open during %s", operation))

	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("max retries exceeded during %s", operation))

	default:
		return domain.NewUnavailableError(serviceName,
			fmt.Sprintf("%s failed: %v", operation, err))
	}
}

// mapStatusCode translates HTTP status codes to domain errors.
func mapStatusCode(status int, errResp *ErrorResponse, serviceName, operation string) error {
	message := defaultMessageForStatus(status, operation)
	if errResp != nil && errResp.GetMessage() != "" {
		message = errResp.GetMessage()
	}

	switch status {
	case http.StatusNotFound:
		return domain.NewNotFoundError(serviceName, operation)

	case http.StatusConflict:
		return domain.NewConflictError(serviceName, message)

	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		// Check for field-level validation details
		if errResp != nil && errResp.Error.Details != nil {
			for field, msg := range errResp.Error.Details {
				return domain.NewValidationError(field, msg)
			}
		}

		return domain.NewValidationError("", message)

	case http.StatusUnauthorized, http.StatusForbidden:
		// The feed is public; being refused means something upstream
		// is misconfigured and the fetch cannot proceed.
		return domain.NewUnavailableError(serviceName, message)

	case http.StatusTooManyRequests:
		return domain.NewUnavailableError(serviceName, "rate limit exceeded")

	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return domain.NewUnavailableError(serviceName, message)

	default:
		if status >= http.StatusInternalServerError {
			return domain.NewUnavailableError(serviceName, message)
		}
		// Unknown 4xx errors default to validation
		return domain.NewValidationError("", message)
	}
}

// defaultMessageForStatus returns a default message for an HTTP status.
func defaultMessageForStatus(status int, operation string) string {
	switch status {
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusConflict:
		return "resource conflict"
	case http.StatusBadRequest:
		return "invalid request"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "request refused"
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return fmt.Sprintf("%s failed with status %d", operation, status)
	}
}
