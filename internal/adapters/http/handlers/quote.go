package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/domain"
)

// QuoteHandler handles the quote collection HTTP endpoints.
type QuoteHandler struct {
	service *app.CollectionService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.CollectionService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// QuoteResponse is the HTTP response structure for a quote.
type QuoteResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Category  string `json:"category"`
	UpdatedAt string `json:"updatedAt"`
}

// QuoteListResponse wraps a list of quotes.
type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
	Count int             `json:"count"`
}

// CategoriesResponse lists the distinct categories in the collection.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// toQuoteResponse converts a domain Quote to an HTTP response.
func toQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        q.ID,
		Text:      q.Text,
		Category:  q.Category,
		UpdatedAt: q.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toQuoteListResponse(quotes []domain.Quote) QuoteListResponse {
	items := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		items = append(items, toQuoteResponse(q))
	}

	return QuoteListResponse{
		Items: items,
		Count: len(items),
	}
}

// categoryQuery binds the optional category filter.
// An empty value or "all" means no filter.
type categoryQuery struct {
	Category string `form:"category"`
}

// AddQuoteRequest is the request body for adding a quote.
type AddQuoteRequest struct {
	Text     string `json:"text" validate:"required,notempty"`
	Category string `json:"category" validate:"required,notempty"`
}

// Validate rejects the reserved filter sentinel as a category name.
func (r *AddQuoteRequest) Validate() error {
	if strings.EqualFold(strings.TrimSpace(r.Category), domain.CategoryAll) {
		return domain.NewValidationError("category", `"all" is reserved`)
	}

	return nil
}

// GetRandomQuote handles GET /api/v1/quotes/random?category=
// Returns a random quote, optionally filtered by category.
// An empty collection or an unknown category yields 404.
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	var query categoryQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"invalid query parameters",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	quote, err := h.service.RandomQuote(c.Request.Context(), query.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// ListQuotes handles GET /api/v1/quotes?category=
// Returns the collection, optionally filtered by category.
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var query categoryQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"invalid query parameters",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	quotes := h.service.ListQuotes(c.Request.Context(), query.Category)

	c.JSON(http.StatusOK, toQuoteListResponse(quotes))
}

// AddQuote handles POST /api/v1/quotes
// Adds a user quote to the collection. Duplicate text/category pairs
// yield 409.
func (h *QuoteHandler) AddQuote(c *gin.Context) {
	var req AddQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"request body is not valid JSON",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	if err := dto.ValidateAll(&req); err != nil {
		if fieldErrors := dto.ValidationErrors(err); len(fieldErrors) > 0 {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
				dto.ErrorCodeValidation,
				"request validation failed",
				fieldErrors,
			).WithTraceID(dto.GetTraceID(c)))

			return
		}

		dto.HandleError(c, err)

		return
	}

	quote, err := h.service.AddQuote(c.Request.Context(), req.Text, req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toQuoteResponse(quote))
}

// Categories handles GET /api/v1/categories
// Returns the distinct categories present in the collection.
func (h *QuoteHandler) Categories(c *gin.Context) {
	categories := h.service.Categories(c.Request.Context())

	c.JSON(http.StatusOK, CategoriesResponse{Categories: categories})
}

// LastViewed handles GET /api/v1/quotes/last-viewed
// Returns the quote most recently shown this session, 404 if none.
func (h *QuoteHandler) LastViewed(c *gin.Context) {
	quote, err := h.service.LastViewed(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(*quote))
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.AddQuote)
	quotes.GET("/random", h.GetRandomQuote)
	quotes.GET("/last-viewed", h.LastViewed)
	quotes.GET("/export", h.Export)
	quotes.POST("/import", h.Import)

	rg.GET("/categories", h.Categories)
}
