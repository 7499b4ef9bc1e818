package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/dto"
	"github.com/finbooks/journal-engine/internal/middleware"
)

// entryTypeHandler handles HTTP requests for entry type policies.
type entryTypeHandler struct {
	entryTypeService portssvc.EntryTypeSvcFacade
}

func newEntryTypeHandler(entryTypeService portssvc.EntryTypeSvcFacade) *entryTypeHandler {
	return &entryTypeHandler{entryTypeService: entryTypeService}
}

// createEntryType handles POST /companies/:companyID/entry-types
func (h *entryTypeHandler) createEntryType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.CreateEntryTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createEntryType", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	entryType, err := h.entryTypeService.CreateEntryType(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, err, "create entry type")
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryTypeResponse(entryType))
}

// getEntryType handles GET /companies/:companyID/entry-types/:entryTypeID
func (h *entryTypeHandler) getEntryType(c *gin.Context) {
	companyID := c.Param("companyID")
	entryTypeID := c.Param("entryTypeID")

	entryType, err := h.entryTypeService.GetEntryTypeByID(c.Request.Context(), companyID, entryTypeID)
	if err != nil {
		respondError(c, err, "retrieve entry type")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryTypeResponse(entryType))
}

// listEntryTypes handles GET /companies/:companyID/entry-types
func (h *entryTypeHandler) listEntryTypes(c *gin.Context) {
	companyID := c.Param("companyID")

	entryTypes, err := h.entryTypeService.ListEntryTypes(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, err, "list entry types")
		return
	}

	c.JSON(http.StatusOK, gin.H{"entryTypes": dto.ToEntryTypeResponses(entryTypes)})
}

// registerEntryTypeRoutes registers entry type policy routes.
func registerEntryTypeRoutes(group *gin.RouterGroup, entryTypeService portssvc.EntryTypeSvcFacade) {
	h := newEntryTypeHandler(entryTypeService)

	entryTypes := group.Group("/entry-types")
	{
		entryTypes.POST("", h.createEntryType)
		entryTypes.GET("", h.listEntryTypes)
		entryTypes.GET("/:entryTypeID", h.getEntryType)
	}
}
