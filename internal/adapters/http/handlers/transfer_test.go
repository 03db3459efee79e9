package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotevault/internal/app"
)

func TestQuoteHandler_Export(t *testing.T) {
	handler := setupQuoteHandler(t, testQuotes())

	w := performJSON(handler.Export, http.MethodGet, "/api/v1/quotes/export", nil)
	require.Equal(t, http.StatusOK, w.Code)

	disposition := w.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "quotes-")
	assert.Contains(t, disposition, ".json")

	var exported []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exported))
	assert.Len(t, exported, 3)
}

func TestQuoteHandler_Export_EmptyCollection(t *testing.T) {
	handler := setupQuoteHandler(t, nil)

	w := performJSON(handler.Export, http.MethodGet, "/api/v1/quotes/export", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// An empty collection exports as an empty array, not null
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestQuoteHandler_Import(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		checkResult    func(*testing.T, app.ImportResult)
	}{
		{
			name: "adds new quotes",
			body: `[
				{"id":"imp-1","text":"Imported one.","category":"Imported"},
				{"text":"Imported two.","category":"Imported"}
			]`,
			expectedStatus: http.StatusOK,
			checkResult: func(t *testing.T, r app.ImportResult) {
				t.Helper()
				assert.Equal(t, 2, r.Added)
				assert.Zero(t, r.Replaced)
				assert.Equal(t, 5, r.Total)
			},
		},
		{
			name:           "replaces an existing id",
			body:           `[{"id":"q-1","text":"Rewritten first quote.","category":"Wisdom"}]`,
			expectedStatus: http.StatusOK,
			checkResult: func(t *testing.T, r app.ImportResult) {
				t.Helper()
				assert.Zero(t, r.Added)
				assert.Equal(t, 1, r.Replaced)
				assert.Equal(t, 3, r.Total)
			},
		},
		{
			name: "counts rejected elements",
			body: `[
				{"text":"Valid.","category":"Imported"},
				{"text":"","category":"Imported"}
			]`,
			expectedStatus: http.StatusOK,
			checkResult: func(t *testing.T, r app.ImportResult) {
				t.Helper()
				assert.Equal(t, 1, r.Added)
				assert.Equal(t, 1, r.Rejected)
			},
		},
		{
			name:           "top-level object is malformed",
			body:           `{"not":"an array"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty payload is malformed",
			body:           `   `,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "truncated JSON is malformed",
			body:           `[{"text":"oops"`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := setupQuoteHandler(t, testQuotes())

			w := performJSON(handler.Import, http.MethodPost, "/api/v1/quotes/import", []byte(tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.checkResult != nil {
				var result app.ImportResult
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
				tt.checkResult(t, result)
			}
		})
	}
}

func TestQuoteHandler_Import_FailureLeavesCollectionUntouched(t *testing.T) {
	service := setupService(t, testQuotes())
	handler := NewQuoteHandler(service)

	w := performJSON(handler.Import, http.MethodPost, "/api/v1/quotes/import", []byte(`42`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 3, service.Count())
}
