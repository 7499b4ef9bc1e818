package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/journal-engine/internal/apperrors"
	"github.com/finbooks/journal-engine/internal/core/domain"
	portsrepo "github.com/finbooks/journal-engine/internal/core/ports/repositories"
	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/dto"
	"github.com/finbooks/journal-engine/internal/middleware"
	"github.com/finbooks/journal-engine/internal/utils/formula"
)

// templateService manages entry templates. Amount formulas are validated
// against the closed formula grammar at save time so a recurring run never
// meets an unparseable template.
type templateService struct {
	templateRepo  portsrepo.TemplateRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
	entryTypeRepo portsrepo.EntryTypeRepositoryFacade
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(
	templateRepo portsrepo.TemplateRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	entryTypeRepo portsrepo.EntryTypeRepositoryFacade,
) portssvc.TemplateSvcFacade {
	return &templateService{
		templateRepo:  templateRepo,
		accountRepo:   accountRepo,
		entryTypeRepo: entryTypeRepo,
	}
}

var _ portssvc.TemplateSvcFacade = (*templateService)(nil)

func validFrequency(f domain.Frequency) bool {
	switch f {
	case domain.Daily, domain.Weekly, domain.Monthly, domain.Quarterly, domain.Yearly:
		return true
	}
	return false
}

// CreateTemplate validates and persists a new template with its lines.
func (s *templateService) CreateTemplate(ctx context.Context, companyID string, req dto.CreateTemplateRequest, actorID string) (*domain.EntryTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.IsRecurring {
		if !validFrequency(domain.Frequency(req.Frequency)) {
			return nil, fmt.Errorf("%w: unknown frequency %q", apperrors.ErrValidation, req.Frequency)
		}
		if req.NextRunDate == nil {
			return nil, fmt.Errorf("%w: recurring templates need a nextRunDate", apperrors.ErrValidation)
		}
		if req.EndDate != nil && req.EndDate.Before(*req.NextRunDate) {
			return nil, fmt.Errorf("%w: endDate precedes nextRunDate", apperrors.ErrValidation)
		}
	}

	if req.EntryTypeID != nil {
		if _, err := s.entryTypeRepo.FindEntryTypeByID(ctx, companyID, *req.EntryTypeID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrInvalidEntryType, *req.EntryTypeID)
			}
			return nil, fmt.Errorf("failed to load entry type: %w", err)
		}
	}

	accountIDs := make([]string, 0, len(req.Lines))
	for i, line := range req.Lines {
		if err := formula.Validate(line.DebitFormula); err != nil {
			return nil, fmt.Errorf("%w: line %d debit formula: %v", apperrors.ErrValidation, i, err)
		}
		if err := formula.Validate(line.CreditFormula); err != nil {
			return nil, fmt.Errorf("%w: line %d credit formula: %v", apperrors.ErrValidation, i, err)
		}
		accountIDs = append(accountIDs, line.AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to check template accounts: %w", err)
	}
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
		}
	}

	now := time.Now().UTC()
	template := domain.EntryTemplate{
		TemplateID:  uuid.NewString(),
		CompanyID:   companyID,
		Name:        req.Name,
		Memo:        req.Memo,
		EntryTypeID: req.EntryTypeID,
		IsRecurring: req.IsRecurring,
		Frequency:   domain.Frequency(req.Frequency),
		NextRunDate: req.NextRunDate,
		EndDate:     req.EndDate,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	template.Lines = make([]domain.TemplateLine, len(req.Lines))
	for i, line := range req.Lines {
		template.Lines[i] = domain.TemplateLine{
			TemplateLineID: uuid.NewString(),
			TemplateID:     template.TemplateID,
			AccountID:      line.AccountID,
			DebitFormula:   line.DebitFormula,
			CreditFormula:  line.CreditFormula,
			Memo:           line.Memo,
			Department:     line.Department,
			Project:        line.Project,
			Location:       line.Location,
		}
	}

	if err := s.templateRepo.SaveTemplate(ctx, template); err != nil {
		logger.Error("Failed to save template", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	logger.Info("Template created",
		slog.String("template_id", template.TemplateID),
		slog.String("company_id", companyID),
		slog.Bool("recurring", template.IsRecurring),
	)
	return &template, nil
}

// GetTemplateByID retrieves a template with its lines.
func (s *templateService) GetTemplateByID(ctx context.Context, companyID, templateID string) (*domain.EntryTemplate, error) {
	template, err := s.templateRepo.FindTemplateByID(ctx, companyID, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	return template, nil
}

// ListTemplates retrieves a paginated template listing for a company.
func (s *templateService) ListTemplates(ctx context.Context, companyID string, params dto.ListTemplatesParams) ([]domain.EntryTemplate, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	templates, err := s.templateRepo.ListTemplates(ctx, companyID, limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}
