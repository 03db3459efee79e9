// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/ports"
)

// CollectionService owns the in-memory quote collection. The
// collection is a single guarded reference swapped whole on every
// mutation, so readers always observe a complete snapshot and never
// a half-applied merge. writeMu serializes mutators end to end;
// mu only guards the reference itself.
type CollectionService struct {
	store  ports.CollectionStore
	source ports.SyncSource
	norm   *domain.Normalizer
	exec   *Executor
	logger *slog.Logger
	seed   []domain.Quote

	// pick selects a random index; injectable for tests.
	pick func(n int) int

	writeMu sync.Mutex
	mu      sync.RWMutex
	quotes  []domain.Quote

	statusMu sync.Mutex
	status   SyncStatus
}

// CollectionServiceConfig contains the dependencies for the service.
type CollectionServiceConfig struct {
	// Store persists the collection and display state. Required.
	Store ports.CollectionStore

	// Source feeds remote candidates into sync. Optional; without it
	// sync operations report the feed as unavailable.
	Source ports.SyncSource

	// Seed is the fallback collection used when nothing can be restored.
	Seed []domain.Quote

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// NewCollectionService creates the service. It does not touch the
// store; call Restore to populate the collection.
func NewCollectionService(cfg CollectionServiceConfig) *CollectionService {
	if cfg.Store == nil {
		panic("app: CollectionServiceConfig.Store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CollectionService{
		store:  cfg.Store,
		source: cfg.Source,
		norm:   domain.NewNormalizer(),
		exec:   NewExecutor(logger),
		logger: logger,
		seed:   cfg.Seed,
		pick:   rand.IntN,
	}
}

// Restore loads the persisted collection, falling back to the seed
// when no snapshot exists or the snapshot cannot be read. It never
// fails; a broken store degrades to the seed.
func (s *CollectionService) Restore(ctx context.Context) {
	quotes, err := s.store.LoadCollection(ctx)

	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "collection restored",
			slog.Int("quotes", len(quotes)),
		)
	case domain.IsNotFound(err):
		s.logger.InfoContext(ctx, "no persisted collection, using seed",
			slog.Int("quotes", len(s.seed)),
		)

		quotes = slices.Clone(s.seed)
	default:
		s.logger.WarnContext(ctx, "persisted collection unreadable, using seed",
			slog.Any("error", err),
		)

		quotes = slices.Clone(s.seed)
	}

	s.mu.Lock()
	s.quotes = quotes
	s.mu.Unlock()
}

// snapshot returns the current collection reference. Callers must
// treat the returned slice as immutable.
func (s *CollectionService) snapshot() []domain.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.quotes
}

// replace installs a new collection and persists it. A persistence
// failure is logged and swallowed; memory stays authoritative.
func (s *CollectionService) replace(ctx context.Context, quotes []domain.Quote) {
	s.mu.Lock()
	s.quotes = quotes
	s.mu.Unlock()

	if err := s.store.SaveCollection(ctx, quotes); err != nil {
		s.logger.WarnContext(ctx, "failed to persist collection",
			slog.Any("error", err),
		)
	}
}

// RandomQuote picks uniformly at random from the quotes matching the
// category ("" or "all" matches everything). The chosen quote and the
// category are remembered as display state; failures to remember them
// never fail the pick. Returns domain.ErrNotFound when the filtered
// subset is empty.
func (s *CollectionService) RandomQuote(ctx context.Context, category string) (domain.Quote, error) {
	filtered := domain.FilterByCategory(s.snapshot(), category)
	if len(filtered) == 0 {
		return domain.Quote{}, domain.NewNotFoundError("quote", "")
	}

	quote := filtered[s.pick(len(filtered))]

	if err := s.store.SaveLastCategory(ctx, category); err != nil {
		s.logger.DebugContext(ctx, "failed to remember category", slog.Any("error", err))
	}

	if err := s.store.SaveLastViewed(ctx, quote); err != nil {
		s.logger.DebugContext(ctx, "failed to remember last viewed quote", slog.Any("error", err))
	}

	return quote, nil
}

// ListQuotes returns the quotes matching the category.
func (s *CollectionService) ListQuotes(_ context.Context, category string) []domain.Quote {
	return domain.FilterByCategory(s.snapshot(), category)
}

// Categories returns the distinct categories, sorted.
func (s *CollectionService) Categories(_ context.Context) []string {
	return domain.Categories(s.snapshot())
}

// LastViewed returns the quote most recently displayed this session,
// or domain.ErrNotFound when nothing was displayed yet.
func (s *CollectionService) LastViewed(ctx context.Context) (*domain.Quote, error) {
	return s.store.LoadLastViewed(ctx)
}

// LastCategory returns the most recently selected display category,
// or domain.ErrNotFound when none was saved.
func (s *CollectionService) LastCategory(ctx context.Context) (string, error) {
	return s.store.LoadLastCategory(ctx)
}

// Count returns the collection size.
func (s *CollectionService) Count() int {
	return len(s.snapshot())
}

// AddQuote appends a single user-authored quote. The record gets a
// content-derived ID, so re-adding the same text in the same category
// is reported as a conflict rather than a duplicate.
func (s *CollectionService) AddQuote(ctx context.Context, text, category string) (domain.Quote, error) {
	text = strings.TrimSpace(text)
	category = strings.TrimSpace(category)

	if text == "" {
		return domain.Quote{}, domain.NewValidationError("text", "is required")
	}

	if category == "" {
		return domain.Quote{}, domain.NewValidationError("category", "is required")
	}

	quote := domain.Quote{
		ID:        domain.ContentID(text, category),
		Text:      text,
		Category:  category,
		UpdatedAt: s.norm.Now(),
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.snapshot()
	for _, existing := range current {
		if existing.Key() == quote.Key() {
			return domain.Quote{}, domain.NewConflictErrorWithDetails(
				"quote", "a quote with this text and category already exists", quote.ID)
		}
	}

	next := make([]domain.Quote, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, quote)

	s.replace(ctx, next)

	s.logger.InfoContext(ctx, "quote added",
		slog.String("quote_id", quote.ID),
		slog.String("category", quote.Category),
	)

	return quote, nil
}
