package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopmirror/internal/catalog"
	"shopmirror/internal/logger"
)

type SyncHandler struct {
	sync   *catalog.Synchronizer
	logger *logger.Logger
}

func NewSyncHandler(sync *catalog.Synchronizer, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		sync:   sync,
		logger: logger,
	}
}

// Trigger runs a full catalog sync on demand. The same synchronizer runs at
// process start and on the worker's schedule; this endpoint lets an operator
// re-mirror without a restart.
func (h *SyncHandler) Trigger(c *gin.Context) {
	count, err := h.sync.SyncAll(c.Request.Context())
	if err != nil {
		h.logger.Error("operator-triggered sync failed: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Catalog synced successfully",
		"synced_count": count,
	})
}
