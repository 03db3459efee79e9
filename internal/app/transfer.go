package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	// Added counts effective keys newly introduced by the import.
	Added int `json:"added"`

	// Replaced counts existing records overwritten at their key.
	Replaced int `json:"replaced"`

	// Rejected counts incoming elements dropped during normalization.
	Rejected int `json:"rejected"`

	// Total is the collection size after the merge.
	Total int `json:"total"`
}

// importOutcome carries merge state between executor steps.
type importOutcome struct {
	merged   []domain.Quote
	added    int
	replaced int
	rejected int
}

// Import merges a JSON array of quote records into the collection
// through the transactional executor. A payload whose top-level value
// is not an array fails before any mutation; individually malformed
// elements are dropped and counted. Persistence failure after the
// in-memory swap is swallowed.
func (s *CollectionService) Import(ctx context.Context, payload []byte) (ImportResult, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	op := Operation[[]byte, importOutcome, importOutcome, ImportResult]{
		Name: "import_quotes",
		Validate: func(_ context.Context, payload []byte) error {
			if len(bytes.TrimSpace(payload)) == 0 {
				return domain.NewMalformedInputError("empty payload", nil)
			}

			return nil
		},
		Perform: func(ctx context.Context, payload []byte) (importOutcome, error) {
			raws, err := domain.ParseIncoming(payload)
			if err != nil {
				return importOutcome{}, err
			}

			normalized := s.norm.NormalizeAll(raws)
			for _, rejection := range normalized.Rejected {
				s.logger.DebugContext(ctx, "import element dropped",
					slog.Int("index", rejection.Index),
					slog.String("reason", rejection.Reason),
				)
			}

			merge := domain.Merge(s.snapshot(), normalized.Accepted)

			return importOutcome{
				merged:   merge.Quotes,
				added:    merge.Added,
				replaced: merge.Replaced,
				rejected: len(normalized.Rejected),
			}, nil
		},
		Verify: func(_ context.Context, _ []byte, performed importOutcome) (importOutcome, error) {
			seen := make(map[string]struct{}, len(performed.merged))
			for _, q := range performed.merged {
				key := q.Key()
				if _, dup := seen[key]; dup {
					return importOutcome{}, domain.NewConflictErrorWithDetails(
						"collection", "duplicate effective key after merge", key)
				}

				seen[key] = struct{}{}
			}

			return performed, nil
		},
		Archive: func(ctx context.Context, _ []byte, verified importOutcome) error {
			s.replace(ctx, verified.merged)

			return nil
		},
		Respond: func(_ context.Context, _ []byte, verified importOutcome) (ImportResult, error) {
			return ImportResult{
				Added:    verified.added,
				Replaced: verified.replaced,
				Rejected: verified.rejected,
				Total:    len(verified.merged),
			}, nil
		},
	}

	return Execute(ctx, s.exec, op, payload)
}

// Export renders the full collection as indented JSON along with a
// dated download filename.
func (s *CollectionService) Export(_ context.Context) ([]byte, string, error) {
	quotes := s.snapshot()
	if quotes == nil {
		quotes = []domain.Quote{}
	}

	data, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("encoding collection: %w", err)
	}

	filename := "quotes-" + s.norm.Now().Format("2006-01-02") + ".json"

	return data, filename, nil
}
