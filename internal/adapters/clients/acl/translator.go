package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quotevault/internal/adapters/clients"
	"github.com/jsamuelsen/quotevault/internal/domain"
)

// BaseAdapter provides common request plumbing for ACL adapters.
// Embed this in service-specific adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a base adapter with the given client and service name.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// Client returns the underlying HTTP client.
func (a *BaseAdapter) Client() *clients.Client {
	return a.client
}

// ServiceName returns the name of the external service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET request and returns the response body.
// The path should be an absolute path starting with "/".
// On failure, returns a mapped domain error; on success the caller
// must close the returned body.
func (a *BaseAdapter) Get(ctx context.Context, path, operation string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.serviceName, operation)
	}

	return resp.Body, nil
}

// DecodeResponse reads and decodes a JSON response body into the target type.
// Closes the body after reading.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, fmt.Errorf("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// ValidateRequired checks that a required field is not empty.
// Returns a domain.ValidationError if the field is empty.
func ValidateRequired(value, fieldName string) error {
	if value == "" {
		return domain.NewValidationError(fieldName, "is required")
	}

	return nil
}

// ValidatePositive checks that a numeric value is positive.
// Returns a domain.ValidationError if the value is not positive.
func ValidatePositive[T ~int | ~int64 | ~float64](value T, fieldName string) error {
	if value <= 0 {
		return domain.NewValidationError(fieldName, "must be positive")
	}

	return nil
}

// Translator is a function type that translates an external DTO to a
// domain type. The function should validate the external data and
// return a domain error if validation fails.
type Translator[External any, Domain any] func(ext *External) (*Domain, error)

// TranslateSlice applies a translator function to a slice of external
// DTOs. Items that fail translation are dropped rather than failing
// the batch; the second return value reports how many were dropped.
func TranslateSlice[E any, D any](items []E, translate Translator[E, D]) ([]*D, int) {
	result := make([]*D, 0, len(items))
	dropped := 0

	for i := range items {
		translated, err := translate(&items[i])
		if err != nil {
			dropped++

			continue
		}

		result = append(result, translated)
	}

	return result, dropped
}
