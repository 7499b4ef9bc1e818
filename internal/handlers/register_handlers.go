package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using
// interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerBindingValidations()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations. Every resource is scoped under a company, the
// tenancy boundary.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1")
	company := v1.Group("/companies/:companyID")

	registerAccountRoutes(company, services.Account)
	registerEntryTypeRoutes(company, services.EntryType)
	registerJournalRoutes(company, services.Journal)
	registerApprovalRoutes(company, services.Approval)
	registerBatchRoutes(company, services.Batch)
	registerTemplateRoutes(company, services.Template)
	registerRecurringRoutes(company, services.Recurring)
}
