package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
)

// Export handles GET /api/v1/quotes/export
// Streams the full collection as pretty-printed JSON with a dated
// download filename.
func (h *QuoteHandler) Export(c *gin.Context) {
	data, filename, err := h.service.Export(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// Import handles POST /api/v1/quotes/import
// Merges a JSON array of quotes into the collection. A payload that is
// not a JSON array yields 400 and leaves the collection untouched;
// invalid elements are dropped individually. Responds with the merge
// counts.
func (h *QuoteHandler) Import(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"reading request body failed",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	result, err := h.service.Import(c.Request.Context(), payload)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
