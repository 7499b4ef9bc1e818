package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/dto"
	"github.com/finbooks/journal-engine/internal/middleware"
)

// journalHandler handles HTTP requests for the journal entry lifecycle.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

// createEntry handles POST /companies/:companyID/entries
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, err, "create journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry handles GET /companies/:companyID/entries/:entryID
func (h *journalHandler) getEntry(c *gin.Context) {
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetEntryByID(c.Request.Context(), companyID, entryID)
	if err != nil {
		respondError(c, err, "retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries handles GET /companies/:companyID/entries
func (h *journalHandler) listEntries(c *gin.Context) {
	companyID := c.Param("companyID")

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, err, "list journal entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// postEntry handles POST /companies/:companyID/entries/:entryID/post
func (h *journalHandler) postEntry(c *gin.Context) {
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), companyID, entryID, actorID)
	if err != nil {
		respondError(c, err, "post journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// voidEntry handles POST /companies/:companyID/entries/:entryID/void
func (h *journalHandler) voidEntry(c *gin.Context) {
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	var req dto.VoidEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	entry, err := h.journalService.VoidEntry(c.Request.Context(), companyID, entryID, req.Reason, actorID)
	if err != nil {
		respondError(c, err, "void journal entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// reverseEntry handles POST /companies/:companyID/entries/:entryID/reverse
func (h *journalHandler) reverseEntry(c *gin.Context) {
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.journalService.ReverseEntry(c.Request.Context(), companyID, entryID, req, actorID)
	if err != nil {
		respondError(c, err, "reverse journal entry")
		return
	}

	c.JSON(http.StatusCreated, result)
}

// adjustEntry handles POST /companies/:companyID/entries/:entryID/adjust
func (h *journalHandler) adjustEntry(c *gin.Context) {
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	var req dto.AdjustEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	entry, err := h.journalService.AdjustEntry(c.Request.Context(), companyID, entryID, req, actorID)
	if err != nil {
		respondError(c, err, "adjust journal entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// listAudit handles GET /companies/:companyID/entries/:entryID/audit
func (h *journalHandler) listAudit(c *gin.Context) {
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	records, err := h.journalService.ListAuditForEntry(c.Request.Context(), companyID, entryID)
	if err != nil {
		respondError(c, err, "list entry audit trail")
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditResponses(records))
}

// registerJournalRoutes registers journal entry lifecycle routes.
func registerJournalRoutes(group *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := group.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/void", h.voidEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
		entries.POST("/:entryID/adjust", h.adjustEntry)
		entries.GET("/:entryID/audit", h.listAudit)
	}
}
