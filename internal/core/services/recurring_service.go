package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/journal-engine/internal/core/domain"
	portsrepo "github.com/finbooks/journal-engine/internal/core/ports/repositories"
	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/dto"
	"github.com/finbooks/journal-engine/internal/middleware"
	"github.com/finbooks/journal-engine/internal/utils/formula"
)

// recurringService materializes due recurring templates into posted journal
// entries. Each template runs in its own transaction so one bad template never
// blocks the rest of the run.
type recurringService struct {
	templateRepo portsrepo.TemplateRepositoryFacade
	txManager    portsrepo.TransactionManager
	journalSvc   portssvc.JournalSvcFacade
}

// NewRecurringService creates a new RecurringService.
func NewRecurringService(
	templateRepo portsrepo.TemplateRepositoryFacade,
	txManager portsrepo.TransactionManager,
	journalSvc portssvc.JournalSvcFacade,
) portssvc.RecurringSvcFacade {
	return &recurringService{
		templateRepo: templateRepo,
		txManager:    txManager,
		journalSvc:   journalSvc,
	}
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

// formulaVars exposes the date context template formulas may reference.
func formulaVars(asOf time.Time) map[string]decimal.Decimal {
	year, month, day := asOf.Date()
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, asOf.Location()).Day()
	return map[string]decimal.Decimal{
		"day":           decimal.NewFromInt(int64(day)),
		"month":         decimal.NewFromInt(int64(month)),
		"year":          decimal.NewFromInt(int64(year)),
		"days_in_month": decimal.NewFromInt(int64(daysInMonth)),
	}
}

// ProcessRecurring materializes every due template of the company as of the
// given date. Failures are collected per template; the run itself only fails
// when the due templates cannot be loaded.
func (s *recurringService) ProcessRecurring(ctx context.Context, companyID string, asOfDate time.Time, actorID string) (*dto.RecurringRunResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	templates, err := s.templateRepo.FindDueTemplates(ctx, companyID, asOfDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load due templates: %w", err)
	}

	result := &dto.RecurringRunResult{Created: []dto.EntryResponse{}}
	for i := range templates {
		entry, err := s.materializeTemplate(ctx, &templates[i], asOfDate, actorID)
		if err != nil {
			logger.Warn("Template materialization failed",
				slog.String("template_id", templates[i].TemplateID),
				slog.String("company_id", companyID),
				slog.String("error", err.Error()),
			)
			result.Errors = append(result.Errors, dto.RecurringItemError{
				TemplateID: templates[i].TemplateID,
				Error:      err.Error(),
			})
			continue
		}
		result.Created = append(result.Created, dto.ToEntryResponse(entry))
	}

	logger.Info("Recurring run completed",
		slog.String("company_id", companyID),
		slog.Time("as_of", asOfDate),
		slog.Int("created", len(result.Created)),
		slog.Int("failed", len(result.Errors)),
	)
	return result, nil
}

// materializeTemplate creates one posted entry from the template and advances
// its next run date, atomically.
func (s *recurringService) materializeTemplate(ctx context.Context, template *domain.EntryTemplate, asOfDate time.Time, actorID string) (*domain.JournalEntry, error) {
	req, err := buildEntryRequest(template, asOfDate)
	if err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.txManager.Rollback(ctx, tx) }()

	entry, err := s.journalSvc.CreateEntryInTx(ctx, tx, template.CompanyID, req, actorID)
	if err != nil {
		return nil, err
	}

	// Advance from the scheduled date, not the run date: a run on the 20th of
	// a template due on the 15th still schedules the next month's 15th.
	if template.NextRunDate != nil {
		next := template.Frequency.NextAfter(*template.NextRunDate)
		now := time.Now().UTC()
		if err := s.templateRepo.AdvanceNextRunDateInTx(ctx, tx, template.TemplateID, next, actorID, now); err != nil {
			return nil, fmt.Errorf("failed to advance next run date: %w", err)
		}
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return entry, nil
}

// buildEntryRequest evaluates the template's line formulas against the run
// date and assembles an auto-posting entry request.
func buildEntryRequest(template *domain.EntryTemplate, asOfDate time.Time) (dto.CreateEntryRequest, error) {
	vars := formulaVars(asOfDate)

	lines := make([]dto.CreateLineRequest, len(template.Lines))
	for i, line := range template.Lines {
		debit, err := formula.Eval(line.DebitFormula, vars)
		if err != nil {
			return dto.CreateEntryRequest{}, fmt.Errorf("line %d debit formula: %w", i, err)
		}
		credit, err := formula.Eval(line.CreditFormula, vars)
		if err != nil {
			return dto.CreateEntryRequest{}, fmt.Errorf("line %d credit formula: %w", i, err)
		}
		lines[i] = dto.CreateLineRequest{
			AccountID:  line.AccountID,
			Debit:      debit,
			Credit:     credit,
			Memo:       line.Memo,
			Department: line.Department,
			Project:    line.Project,
			Location:   line.Location,
		}
	}

	memo := template.Memo
	if memo == "" {
		memo = template.Name
	}

	return dto.CreateEntryRequest{
		Date:        asOfDate,
		Memo:        memo,
		EntryTypeID: template.EntryTypeID,
		Lines:       lines,
		AutoPost:    true,
	}, nil
}

// ListDueCompanies returns every company holding at least one due template.
func (s *recurringService) ListDueCompanies(ctx context.Context, asOf time.Time) ([]string, error) {
	companies, err := s.templateRepo.ListCompaniesWithDueTemplates(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies with due templates: %w", err)
	}
	return companies, nil
}
