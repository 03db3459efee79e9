// Package mocks contains hand-written testify mocks for the port
// interfaces used across unit tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

// MockCollectionStore is a testify mock for ports.CollectionStore.
type MockCollectionStore struct {
	mock.Mock
}

func (m *MockCollectionStore) LoadCollection(ctx context.Context) ([]domain.Quote, error) {
	args := m.Called(ctx)
	quotes, _ := args.Get(0).([]domain.Quote)

	return quotes, args.Error(1)
}

func (m *MockCollectionStore) SaveCollection(ctx context.Context, quotes []domain.Quote) error {
	args := m.Called(ctx, quotes)

	return args.Error(0)
}

func (m *MockCollectionStore) LoadLastCategory(ctx context.Context) (string, error) {
	args := m.Called(ctx)

	return args.String(0), args.Error(1)
}

func (m *MockCollectionStore) SaveLastCategory(ctx context.Context, category string) error {
	args := m.Called(ctx, category)

	return args.Error(0)
}

func (m *MockCollectionStore) LoadLastViewed(ctx context.Context) (*domain.Quote, error) {
	args := m.Called(ctx)
	quote, _ := args.Get(0).(*domain.Quote)

	return quote, args.Error(1)
}

func (m *MockCollectionStore) SaveLastViewed(ctx context.Context, quote domain.Quote) error {
	args := m.Called(ctx, quote)

	return args.Error(0)
}

// MockSyncSource is a testify mock for ports.SyncSource.
type MockSyncSource struct {
	mock.Mock
}

func (m *MockSyncSource) FetchCandidates(ctx context.Context) ([]domain.Quote, error) {
	args := m.Called(ctx)
	quotes, _ := args.Get(0).([]domain.Quote)

	return quotes, args.Error(1)
}
