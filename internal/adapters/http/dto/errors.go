// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import "net/http"

// ErrorResponse is the standard error envelope for all error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail carries the machine-readable code, a human-readable
// message, and optional field-level details for validation failures.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	ErrorCodeNotFound       = "NOT_FOUND"
	ErrorCodeConflict       = "CONFLICT"
	ErrorCodeValidation     = "VALIDATION_ERROR"
	ErrorCodeMalformedInput = "MALFORMED_INPUT"
	ErrorCodeUnavailable    = "SERVICE_UNAVAILABLE"
	ErrorCodeInternal       = "INTERNAL_ERROR"
	ErrorCodeTimeout        = "TIMEOUT"
	ErrorCodeBadRequest     = "BAD_REQUEST"
)

// statusByCode maps error codes to HTTP status codes. Codes not listed
// here map to 500.
var statusByCode = map[string]int{
	ErrorCodeNotFound:       http.StatusNotFound,
	ErrorCodeConflict:       http.StatusConflict,
	ErrorCodeValidation:     http.StatusBadRequest,
	ErrorCodeMalformedInput: http.StatusBadRequest,
	ErrorCodeBadRequest:     http.StatusBadRequest,
	ErrorCodeUnavailable:    http.StatusServiceUnavailable,
	ErrorCodeTimeout:        http.StatusGatewayTimeout,
}

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.Error.Details = details

	return resp
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}
