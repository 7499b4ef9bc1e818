package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/dto"
)

// recurringHandler handles HTTP triggers for recurring template processing.
type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
}

func newRecurringHandler(recurringService portssvc.RecurringSvcFacade) *recurringHandler {
	return &recurringHandler{recurringService: recurringService}
}

// processRecurring handles POST /companies/:companyID/recurring/process
func (h *recurringHandler) processRecurring(c *gin.Context) {
	companyID := c.Param("companyID")

	var req dto.ProcessRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	asOf := time.Now().UTC()
	if req.AsOfDate != nil {
		asOf = *req.AsOfDate
	}

	result, err := h.recurringService.ProcessRecurring(c.Request.Context(), companyID, asOf, actorID)
	if err != nil {
		respondError(c, err, "process recurring templates")
		return
	}

	c.JSON(http.StatusOK, result)
}

// registerRecurringRoutes registers recurring processing routes.
func registerRecurringRoutes(group *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := newRecurringHandler(recurringService)

	group.POST("/recurring/process", h.processRecurring)
}
