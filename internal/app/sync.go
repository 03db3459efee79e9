package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

// SyncResult reports one reconciliation cycle against the remote feed.
type SyncResult struct {
	// Added counts effective keys newly introduced by the cycle.
	Added int `json:"added"`

	// Replaced counts existing records overwritten at their key.
	Replaced int `json:"replaced"`

	// Fetched is how many candidates the feed returned.
	Fetched int `json:"fetched"`

	// Total is the collection size after the merge.
	Total int `json:"total"`
}

// SyncStatus is a snapshot of the most recent sync activity. It is
// transient state: it starts empty every run and carries nothing
// across cycles beyond the last outcome.
type SyncStatus struct {
	Cycles      int        `json:"cycles"`
	LastAttempt *time.Time `json:"lastAttempt,omitempty"`
	LastSuccess *time.Time `json:"lastSuccess,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
	LastAdded   int        `json:"lastAdded"`
}

// ApplySync fetches candidates from the remote feed and merges them
// with the same rule as import: incoming wins per effective key,
// regardless of timestamps. A fetch failure aborts this cycle only
// and leaves the collection untouched.
func (s *CollectionService) ApplySync(ctx context.Context) (SyncResult, error) {
	if s.source == nil {
		return SyncResult{}, domain.NewUnavailableError("quote-feed", "no sync source configured")
	}

	attempt := s.norm.Now()

	candidates, err := s.source.FetchCandidates(ctx)
	if err != nil {
		s.recordSyncFailure(attempt, err)
		s.logger.WarnContext(ctx, "sync cycle aborted",
			slog.Any("error", err),
		)

		return SyncResult{}, err
	}

	s.writeMu.Lock()
	merge := domain.Merge(s.snapshot(), candidates)
	s.replace(ctx, merge.Quotes)
	s.writeMu.Unlock()

	result := SyncResult{
		Added:    merge.Added,
		Replaced: merge.Replaced,
		Fetched:  len(candidates),
		Total:    len(merge.Quotes),
	}
	s.recordSyncSuccess(attempt, result)

	if result.Added > 0 {
		s.logger.InfoContext(ctx, "sync merged new quotes",
			slog.Int("added", result.Added),
			slog.Int("total", result.Total),
		)
	} else {
		s.logger.DebugContext(ctx, "sync cycle completed, nothing new",
			slog.Int("fetched", result.Fetched),
		)
	}

	return result, nil
}

// SyncStatus returns the last-cycle snapshot.
func (s *CollectionService) SyncStatus() SyncStatus {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()

	return s.status
}

func (s *CollectionService) recordSyncSuccess(attempt time.Time, result SyncResult) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()

	s.status.Cycles++
	s.status.LastAttempt = &attempt
	s.status.LastSuccess = &attempt
	s.status.LastError = ""
	s.status.LastAdded = result.Added
}

func (s *CollectionService) recordSyncFailure(attempt time.Time, err error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()

	s.status.Cycles++
	s.status.LastAttempt = &attempt
	s.status.LastError = err.Error()
	s.status.LastAdded = 0
}
