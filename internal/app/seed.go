package app

import (
	"time"

	"github.com/jsamuelsen/quotevault/internal/domain"
)

// SeedCollection returns the compiled-in starter quotes used whenever
// no persisted collection can be restored.
func SeedCollection() []domain.Quote {
	now := time.Now()

	return []domain.Quote{
		{
			ID:        "seed-1",
			Text:      "The only way to do great work is to love what you do.",
			Category:  "Motivation",
			UpdatedAt: now,
		},
		{
			ID:        "seed-2",
			Text:      "Simplicity is the ultimate sophistication.",
			Category:  "Design",
			UpdatedAt: now,
		},
		{
			ID:        "seed-3",
			Text:      "Programs must be written for people to read, and only incidentally for machines to execute.",
			Category:  "Programming",
			UpdatedAt: now,
		},
		{
			ID:        "seed-4",
			Text:      "Premature optimization is the root of all evil.",
			Category:  "Programming",
			UpdatedAt: now,
		},
		{
			ID:        "seed-5",
			Text:      "The best time to plant a tree was twenty years ago. The second best time is now.",
			Category:  "Wisdom",
			UpdatedAt: now,
		},
		{
			ID:        "seed-6",
			Text:      "Whether you think you can or you think you can't, you're right.",
			Category:  "Motivation",
			UpdatedAt: now,
		},
	}
}
