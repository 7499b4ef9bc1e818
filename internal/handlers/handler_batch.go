package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/dto"
	"github.com/finbooks/journal-engine/internal/middleware"
)

// batchHandler handles HTTP requests for bulk journal operations.
type batchHandler struct {
	batchService portssvc.BatchSvcFacade
}

func newBatchHandler(batchService portssvc.BatchSvcFacade) *batchHandler {
	return &batchHandler{batchService: batchService}
}

// batchCreate handles POST /companies/:companyID/entries/batch
func (h *batchHandler) batchCreate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.BatchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for batchCreate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.batchService.BatchCreate(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, err, "batch create entries")
		return
	}

	c.JSON(http.StatusOK, result)
}

// batchApprove handles POST /companies/:companyID/entries/batch/approve
func (h *batchHandler) batchApprove(c *gin.Context) {
	companyID := c.Param("companyID")

	var req dto.BatchEntryIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.batchService.BatchApprove(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, err, "batch approve entries")
		return
	}

	c.JSON(http.StatusOK, result)
}

// batchPost handles POST /companies/:companyID/entries/batch/post
func (h *batchHandler) batchPost(c *gin.Context) {
	companyID := c.Param("companyID")

	var req dto.BatchEntryIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.batchService.BatchPost(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, err, "batch post entries")
		return
	}

	c.JSON(http.StatusOK, result)
}

// batchReverse handles POST /companies/:companyID/entries/batch/reverse
func (h *batchHandler) batchReverse(c *gin.Context) {
	companyID := c.Param("companyID")

	var req dto.BatchReverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.batchService.BatchReverse(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, err, "batch reverse entries")
		return
	}

	c.JSON(http.StatusOK, result)
}

// registerBatchRoutes registers bulk operation routes.
func registerBatchRoutes(group *gin.RouterGroup, batchService portssvc.BatchSvcFacade) {
	h := newBatchHandler(batchService)

	batch := group.Group("/entries/batch")
	{
		batch.POST("", h.batchCreate)
		batch.POST("/approve", h.batchApprove)
		batch.POST("/post", h.batchPost)
		batch.POST("/reverse", h.batchReverse)
	}
}
