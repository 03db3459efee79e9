package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotevault/internal/app"
)

// SyncHandler handles the remote sync HTTP endpoints.
type SyncHandler struct {
	service *app.CollectionService
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(service *app.CollectionService) *SyncHandler {
	return &SyncHandler{
		service: service,
	}
}

// TriggerSync handles POST /api/v1/sync
// Runs one sync cycle against the remote feed and returns the merge
// counts. An unreachable feed yields 503; the collection is untouched.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	result, err := h.service.ApplySync(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Status handles GET /api/v1/sync/status
// Reports the outcome of the most recent sync cycle. The snapshot is
// in-memory only and resets on restart.
func (h *SyncHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.SyncStatus())
}

// RegisterSyncRoutes registers sync routes on the given router group.
func (h *SyncHandler) RegisterSyncRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	sync.POST("", h.TriggerSync)
	sync.GET("/status", h.Status)
}
