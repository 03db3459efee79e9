package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockChecker implements HealthChecker for testing.
type mockChecker struct {
	name string
	err  error
}

func (m *mockChecker) Name() string {
	return m.name
}

func (m *mockChecker) Check(_ context.Context) error {
	return m.err
}

func TestNewHealthRegistry(t *testing.T) {
	registry := NewHealthRegistry()

	require.NotNil(t, registry)
	assert.NotNil(t, registry.checkers)
	assert.Empty(t, registry.checkers)
}

func TestRegister_Success(t *testing.T) {
	registry := NewHealthRegistry()
	checker := &mockChecker{name: "store"}

	err := registry.Register(checker)

	require.NoError(t, err)
	assert.Len(t, registry.checkers, 1)
	assert.Equal(t, "store", registry.checkers[0].Name())
}

func TestRegister_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry()
	checker1 := &mockChecker{name: "store"}
	checker2 := &mockChecker{name: "store"}

	err := registry.Register(checker1)
	require.NoError(t, err)

	err = registry.Register(checker2)

	require.Error(t, err)
	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "store")
	assert.Len(t, registry.checkers, 1)
}

func TestCheckAll_NoCheckers(t *testing.T) {
	registry := NewHealthRegistry()

	result := registry.CheckAll(context.Background())

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.NotNil(t, result.Checks)
	assert.Empty(t, result.Checks)
	assert.False(t, result.Timestamp.IsZero())
}

func TestCheckAll_AllHealthy(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&mockChecker{name: "store"}))
	require.NoError(t, registry.Register(&mockChecker{name: "quote-feed"}))

	result := registry.CheckAll(context.Background())

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.Len(t, result.Checks, 2)
	assert.Equal(t, HealthStatusHealthy, result.Checks["store"].Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["quote-feed"].Status)
	assert.Empty(t, result.Checks["store"].Message)
}

func TestCheckAll_OneUnhealthy(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&mockChecker{name: "store"}))
	require.NoError(t, registry.Register(&mockChecker{name: "quote-feed", err: errors.New("connection timeout")}))

	result := registry.CheckAll(context.Background())

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Len(t, result.Checks, 2)
	assert.Equal(t, HealthStatusHealthy, result.Checks["store"].Status)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["quote-feed"].Status)
	assert.Equal(t, "connection timeout", result.Checks["quote-feed"].Message)
}

// contextAwareChecker implements HealthChecker that respects context cancellation.
type contextAwareChecker struct {
	name string
}

func (c *contextAwareChecker) Name() string {
	return c.name
}

func (c *contextAwareChecker) Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func TestCheckAll_ContextCancelled(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&contextAwareChecker{name: "slow-service"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Len(t, result.Checks, 1)
	assert.Contains(t, result.Checks["slow-service"].Message, "context canceled")
}
