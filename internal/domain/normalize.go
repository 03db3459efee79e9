package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// rawQuote is the loosely typed shape of an incoming record before
// normalization. Pointer fields distinguish "absent" from "empty",
// and a type mismatch (e.g. a numeric text) fails the element decode.
type rawQuote struct {
	ID        *string    `json:"id"`
	Text      *string    `json:"text"`
	Category  *string    `json:"category"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// ContentID derives a stable identifier from a record's text and
// category. Records that arrive without an ID get one of these, so
// the same keyless record always normalizes to the same identifier
// no matter how many times it is imported.
func ContentID(text, category string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(text+"\x1f"+category)).String()
}

// Rejection records why a single incoming element was dropped.
type Rejection struct {
	// Index is the element's position in the incoming array.
	Index int

	// Reason is a short human-readable explanation.
	Reason string
}

// NormalizeResult is the outcome of normalizing an incoming batch:
// the accepted quotes plus an explicit record of everything dropped.
type NormalizeResult struct {
	Accepted []Quote
	Rejected []Rejection
}

// Normalizer turns raw incoming records into well-formed quotes.
// The clock is injectable for tests.
type Normalizer struct {
	Now func() time.Time
}

// NewNormalizer creates a Normalizer backed by the system clock.
func NewNormalizer() *Normalizer {
	return &Normalizer{Now: time.Now}
}

// NormalizeOne validates and completes a single raw element.
// Text and category must be present, string-typed, and non-blank.
// A missing ID gets a content-derived one; a missing UpdatedAt gets
// the current time.
func (n *Normalizer) NormalizeOne(raw json.RawMessage) (Quote, error) {
	var candidate rawQuote
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return Quote{}, NewValidationError("record", "not a well-formed quote object")
	}

	if candidate.Text == nil || strings.TrimSpace(*candidate.Text) == "" {
		return Quote{}, NewValidationError("text", "is required")
	}

	if candidate.Category == nil || strings.TrimSpace(*candidate.Category) == "" {
		return Quote{}, NewValidationError("category", "is required")
	}

	quote := Quote{
		Text:     *candidate.Text,
		Category: *candidate.Category,
	}

	if candidate.ID != nil && *candidate.ID != "" {
		quote.ID = *candidate.ID
	} else {
		quote.ID = ContentID(quote.Text, quote.Category)
	}

	if candidate.UpdatedAt != nil && !candidate.UpdatedAt.IsZero() {
		quote.UpdatedAt = *candidate.UpdatedAt
	} else {
		quote.UpdatedAt = n.Now()
	}

	return quote, nil
}

// NormalizeAll normalizes a batch of raw elements. Invalid elements
// are dropped and reported as rejections; they never fail the batch.
func (n *Normalizer) NormalizeAll(raws []json.RawMessage) NormalizeResult {
	result := NormalizeResult{
		Accepted: make([]Quote, 0, len(raws)),
	}

	for i, raw := range raws {
		quote, err := n.NormalizeOne(raw)
		if err != nil {
			result.Rejected = append(result.Rejected, Rejection{Index: i, Reason: err.Error()})

			continue
		}

		result.Accepted = append(result.Accepted, quote)
	}

	return result
}

// ParseIncoming decodes an import payload into its raw elements.
// A top-level value that is not a JSON array fails with
// MalformedInputError before any normalization happens.
func ParseIncoming(payload []byte) ([]json.RawMessage, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(payload, &elements); err != nil {
		return nil, NewMalformedInputError("top-level JSON value is not an array", err)
	}

	return elements, nil
}
