package services

import (
	"context"
	"time"

	"github.com/finbooks/journal-engine/internal/dto"
)

// RecurringSvcFacade defines recurring template processing. Runs are triggered
// externally (HTTP or the recurring runner), never self-scheduled by the core.
type RecurringSvcFacade interface {
	ProcessRecurring(ctx context.Context, companyID string, asOfDate time.Time, actorID string) (*dto.RecurringRunResult, error)

	// ListDueCompanies returns companies that have at least one due template.
	ListDueCompanies(ctx context.Context, asOf time.Time) ([]string, error)
}
