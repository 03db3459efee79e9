// Package domain contains core business entities and rules.
package domain

import (
	"sort"
	"strings"
	"time"
)

// Quote is a single entry in the collection. The JSON tags define the
// interchange format shared by the durable store, import, and export.
type Quote struct {
	// ID is the unique identifier. Records without one are keyed by
	// their text and category instead.
	ID string `json:"id,omitempty"`

	// Text is the quote itself.
	Text string `json:"text"`

	// Category groups quotes for filtered display.
	Category string `json:"category"`

	// UpdatedAt records when the quote was last written. Informational
	// only; reconciliation does not compare timestamps.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Key returns the effective identity used for duplicate detection:
// the ID when present, otherwise the (text, category) pair. A
// content-derived ID counts as absent so that a keyless record keeps
// the same key before and after normalization. The two namespaces
// never collide.
func (q Quote) Key() string {
	if q.ID != "" && q.ID != ContentID(q.Text, q.Category) {
		return "id:" + q.ID
	}

	return "tc:" + q.Text + "\x1f" + q.Category
}

// CategoryAll is the sentinel meaning "no category filter".
const CategoryAll = "all"

// MatchesCategory reports whether the quote belongs to the given
// category. An empty category or CategoryAll matches everything.
func (q Quote) MatchesCategory(category string) bool {
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return true
	}

	return q.Category == category
}

// FilterByCategory returns the quotes matching the given category.
// The input slice is never mutated.
func FilterByCategory(quotes []Quote, category string) []Quote {
	filtered := make([]Quote, 0, len(quotes))
	for _, q := range quotes {
		if q.MatchesCategory(category) {
			filtered = append(filtered, q)
		}
	}

	return filtered
}

// Categories returns the distinct categories across the collection,
// sorted for stable display.
func Categories(quotes []Quote) []string {
	seen := make(map[string]struct{}, len(quotes))
	names := make([]string, 0, len(quotes))

	for _, q := range quotes {
		if _, ok := seen[q.Category]; ok {
			continue
		}

		seen[q.Category] = struct{}{}
		names = append(names, q.Category)
	}

	sort.Strings(names)

	return names
}
