package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/dto"
	"github.com/finbooks/journal-engine/internal/middleware"
)

// templateHandler handles HTTP requests for entry templates.
type templateHandler struct {
	templateService portssvc.TemplateSvcFacade
}

func newTemplateHandler(templateService portssvc.TemplateSvcFacade) *templateHandler {
	return &templateHandler{templateService: templateService}
}

// createTemplate handles POST /companies/:companyID/templates
func (h *templateHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := requireActor(c)
	if !ok {
		return
	}

	template, err := h.templateService.CreateTemplate(c.Request.Context(), companyID, req, actorID)
	if err != nil {
		respondError(c, err, "create template")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTemplateResponse(template))
}

// getTemplate handles GET /companies/:companyID/templates/:templateID
func (h *templateHandler) getTemplate(c *gin.Context) {
	companyID := c.Param("companyID")
	templateID := c.Param("templateID")

	template, err := h.templateService.GetTemplateByID(c.Request.Context(), companyID, templateID)
	if err != nil {
		respondError(c, err, "retrieve template")
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponse(template))
}

// listTemplates handles GET /companies/:companyID/templates
func (h *templateHandler) listTemplates(c *gin.Context) {
	companyID := c.Param("companyID")

	var params dto.ListTemplatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	templates, err := h.templateService.ListTemplates(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, err, "list templates")
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": dto.ToTemplateResponses(templates)})
}

// registerTemplateRoutes registers entry template routes.
func registerTemplateRoutes(group *gin.RouterGroup, templateService portssvc.TemplateSvcFacade) {
	h := newTemplateHandler(templateService)

	templates := group.Group("/templates")
	{
		templates.POST("", h.createTemplate)
		templates.GET("", h.listTemplates)
		templates.GET("/:templateID", h.getTemplate)
	}
}
