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
	"github.com/finbooks/journal-engine/internal/utils/accounting"
)

// entryTypeService manages entry-type policies and enforces them on candidate
// entries.
type entryTypeService struct {
	entryTypeRepo portsrepo.EntryTypeRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
}

// NewEntryTypeService creates a new EntryTypeService.
func NewEntryTypeService(entryTypeRepo portsrepo.EntryTypeRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.EntryTypeSvcFacade {
	return &entryTypeService{entryTypeRepo: entryTypeRepo, accountRepo: accountRepo}
}

var _ portssvc.EntryTypeSvcFacade = (*entryTypeService)(nil)

// CreateEntryType persists a new policy after checking the allowed accounts exist.
func (s *entryTypeService) CreateEntryType(ctx context.Context, companyID string, req dto.CreateEntryTypeRequest, actorID string) (*domain.JournalEntryType, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.MaxAmount != nil && req.MaxAmount.IsNegative() {
		return nil, fmt.Errorf("%w: maxAmount must not be negative", apperrors.ErrValidation)
	}

	if len(req.AllowedAccountIDs) > 0 {
		found, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, req.AllowedAccountIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to check allowed accounts: %w", err)
		}
		for _, id := range req.AllowedAccountIDs {
			if _, ok := found[id]; !ok {
				return nil, fmt.Errorf("%w: allowed account %s does not exist", apperrors.ErrValidation, id)
			}
		}
	}

	now := time.Now().UTC()
	entryType := domain.JournalEntryType{
		EntryTypeID:       uuid.NewString(),
		CompanyID:         companyID,
		Name:              req.Name,
		Category:          req.Category,
		RequiresApproval:  req.RequiresApproval,
		MaxAmount:         req.MaxAmount,
		AllowedAccountIDs: req.AllowedAccountIDs,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.entryTypeRepo.SaveEntryType(ctx, entryType); err != nil {
		logger.Error("Failed to save entry type", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save entry type: %w", err)
	}

	logger.Info("Entry type created", slog.String("entry_type_id", entryType.EntryTypeID), slog.String("company_id", companyID))
	return &entryType, nil
}

// GetEntryTypeByID retrieves a single entry type within the company scope.
func (s *entryTypeService) GetEntryTypeByID(ctx context.Context, companyID, entryTypeID string) (*domain.JournalEntryType, error) {
	entryType, err := s.entryTypeRepo.FindEntryTypeByID(ctx, companyID, entryTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry type %s: %w", entryTypeID, err)
	}
	return entryType, nil
}

// ListEntryTypes retrieves all entry types of a company.
func (s *entryTypeService) ListEntryTypes(ctx context.Context, companyID string) ([]domain.JournalEntryType, error) {
	entryTypes, err := s.entryTypeRepo.ListEntryTypes(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry types: %w", err)
	}
	return entryTypes, nil
}

// ValidateEntryPolicy checks candidate lines against the entry type's allowed
// accounts and amount cap. An unknown entry type fails closed.
func (s *entryTypeService) ValidateEntryPolicy(ctx context.Context, companyID, entryTypeID string, lines []domain.JournalLine) (*domain.JournalEntryType, error) {
	entryType, err := s.entryTypeRepo.FindEntryTypeByID(ctx, companyID, entryTypeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidEntryType, entryTypeID)
		}
		return nil, fmt.Errorf("failed to load entry type %s: %w", entryTypeID, err)
	}

	for i := range lines {
		if !entryType.Allows(lines[i].AccountID) {
			return nil, fmt.Errorf("%w: account %s is not allowed for entry type %s",
				ErrInvalidAccountsForEntryType, lines[i].AccountID, entryType.Name)
		}
	}

	if entryType.MaxAmount != nil {
		total := accounting.CombinedTotal(lines)
		if total.GreaterThan(*entryType.MaxAmount) {
			return nil, fmt.Errorf("%w: total %s exceeds limit %s for entry type %s",
				ErrAmountExceedsPolicyLimit, total.StringFixed(2), entryType.MaxAmount.StringFixed(2), entryType.Name)
		}
	}

	return entryType, nil
}
