// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrConflict, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

// CollectionStore persists the quote collection and a little bit of
// display state between runs. Three slots: the collection itself, the
// last-selected category, and the last-displayed quote. The last
// slot is session-scoped and does not survive a restart.
type CollectionStore interface {
	// LoadCollection retrieves the persisted collection snapshot.
	// Returns domain.ErrNotFound when no snapshot has ever been saved.
	LoadCollection(ctx context.Context) ([]domain.Quote, error)

	// SaveCollection replaces the persisted collection snapshot.
	SaveCollection(ctx context.Context, quotes []domain.Quote) error

	// LoadLastCategory retrieves the most recently selected display
	// category. Returns domain.ErrNotFound when none was saved.
	LoadLastCategory(ctx context.Context) (string, error)

	// SaveLastCategory records the most recently selected category.
	SaveLastCategory(ctx context.Context, category string) error

	// LoadLastViewed retrieves the last quote displayed this session.
	// Returns domain.ErrNotFound when nothing was displayed yet.
	LoadLastViewed(ctx context.Context) (*domain.Quote, error)

	// SaveLastViewed records the last quote displayed this session.
	SaveLastViewed(ctx context.Context, quote domain.Quote) error
}

// SyncSource fetches candidate quotes from the remote feed, already
// translated to domain records and capped to the configured page size.
// Returns domain.ErrUnavailable when the feed cannot be reached.
type SyncSource interface {
	FetchCandidates(ctx context.Context) ([]domain.Quote, error)
}
