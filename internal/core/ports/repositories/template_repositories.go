package repositories

import (
	"context"
	"time"

	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TemplateReader defines read operations for entry templates.
type TemplateReader interface {
	// FindTemplateByID retrieves a template with its lines within a company scope.
	FindTemplateByID(ctx context.Context, companyID, templateID string) (*domain.EntryTemplate, error)

	// ListTemplates retrieves a paginated list of templates for a company.
	ListTemplates(ctx context.Context, companyID string, limit int, offset int) ([]domain.EntryTemplate, error)

	// FindDueTemplates retrieves active recurring templates whose next run date
	// is on or before asOf and whose end date has not passed, lines populated.
	FindDueTemplates(ctx context.Context, companyID string, asOf time.Time) ([]domain.EntryTemplate, error)

	// ListCompaniesWithDueTemplates returns the distinct companies that have at
	// least one due recurring template. Used by the recurring runner.
	ListCompaniesWithDueTemplates(ctx context.Context, asOf time.Time) ([]string, error)
}

// TemplateWriter defines write operations for entry templates.
type TemplateWriter interface {
	// SaveTemplate persists a new template with its lines.
	SaveTemplate(ctx context.Context, template domain.EntryTemplate) error

	// AdvanceNextRunDateInTx moves a template's next run date forward within the
	// given transaction, after a successful materialization.
	AdvanceNextRunDateInTx(ctx context.Context, tx pgx.Tx, templateID string, next time.Time, actorID string, now time.Time) error
}

// TemplateRepositoryFacade combines all template repository interfaces.
type TemplateRepositoryFacade interface {
	TemplateReader
	TemplateWriter
}
