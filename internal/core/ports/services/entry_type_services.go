package services

import (
	"context"

	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/finbooks/journal-engine/internal/dto"
)

// EntryTypeSvcFacade defines entry-type policy operations.
type EntryTypeSvcFacade interface {
	CreateEntryType(ctx context.Context, companyID string, req dto.CreateEntryTypeRequest, actorID string) (*domain.JournalEntryType, error)
	GetEntryTypeByID(ctx context.Context, companyID, entryTypeID string) (*domain.JournalEntryType, error)
	ListEntryTypes(ctx context.Context, companyID string) ([]domain.JournalEntryType, error)

	// ValidateEntryPolicy checks the candidate lines against the entry type's
	// allowed-account set and maximum combined amount, returning the type for
	// further use (approval requirement). Fails closed before any persistence.
	ValidateEntryPolicy(ctx context.Context, companyID, entryTypeID string, lines []domain.JournalLine) (*domain.JournalEntryType, error)
}
