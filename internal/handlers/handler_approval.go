package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/dto"
	"github.com/finbooks/journal-engine/internal/middleware"
)

// approvalHandler handles HTTP requests for the approval workflow.
type approvalHandler struct {
	approvalService portssvc.ApprovalSvcFacade
}

func newApprovalHandler(approvalService portssvc.ApprovalSvcFacade) *approvalHandler {
	return &approvalHandler{approvalService: approvalService}
}

// requestApproval handles POST /companies/:companyID/entries/:entryID/approvals
func (h *approvalHandler) requestApproval(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	var req dto.RequestApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for requestApproval", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.approvalService.RequestApproval(c.Request.Context(), companyID, entryID, req, actorID)
	if err != nil {
		respondError(c, err, "request approval")
		return
	}

	c.JSON(http.StatusCreated, result)
}

// listApprovals handles GET /companies/:companyID/entries/:entryID/approvals
func (h *approvalHandler) listApprovals(c *gin.Context) {
	companyID := c.Param("companyID")
	entryID := c.Param("entryID")

	approvals, err := h.approvalService.ListApprovalsForEntry(c.Request.Context(), companyID, entryID)
	if err != nil {
		respondError(c, err, "list approvals")
		return
	}

	c.JSON(http.StatusOK, gin.H{"approvals": dto.ToApprovalResponses(approvals)})
}

// approve handles POST /companies/:companyID/approvals/:approvalID/approve
func (h *approvalHandler) approve(c *gin.Context) {
	companyID := c.Param("companyID")
	approvalID := c.Param("approvalID")

	var req dto.ResolveApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.approvalService.Approve(c.Request.Context(), companyID, approvalID, req.Comments, actorID)
	if err != nil {
		respondError(c, err, "approve entry")
		return
	}

	c.JSON(http.StatusOK, result)
}

// reject handles POST /companies/:companyID/approvals/:approvalID/reject
func (h *approvalHandler) reject(c *gin.Context) {
	companyID := c.Param("companyID")
	approvalID := c.Param("approvalID")

	var req dto.ResolveApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.approvalService.Reject(c.Request.Context(), companyID, approvalID, req.Comments, actorID)
	if err != nil {
		respondError(c, err, "reject entry")
		return
	}

	c.JSON(http.StatusOK, result)
}

// registerApprovalRoutes registers approval workflow routes.
func registerApprovalRoutes(group *gin.RouterGroup, approvalService portssvc.ApprovalSvcFacade) {
	h := newApprovalHandler(approvalService)

	group.POST("/entries/:entryID/approvals", h.requestApproval)
	group.GET("/entries/:entryID/approvals", h.listApprovals)

	approvals := group.Group("/approvals")
	{
		approvals.POST("/:approvalID/approve", h.approve)
		approvals.POST("/:approvalID/reject", h.reject)
	}
}
