package repositories

import (
	"context"

	"github.com/finbooks/journal-engine/internal/core/domain"
)

// EntryTypeReader defines read operations for entry type policies.
type EntryTypeReader interface {
	// FindEntryTypeByID retrieves a specific entry type within a company scope.
	FindEntryTypeByID(ctx context.Context, companyID, entryTypeID string) (*domain.JournalEntryType, error)

	// ListEntryTypes retrieves all entry types for a company.
	ListEntryTypes(ctx context.Context, companyID string) ([]domain.JournalEntryType, error)
}

// EntryTypeWriter defines write operations for entry type policies.
type EntryTypeWriter interface {
	// SaveEntryType persists a new entry type.
	SaveEntryType(ctx context.Context, entryType domain.JournalEntryType) error
}

// EntryTypeRepositoryFacade combines all entry-type repository interfaces.
type EntryTypeRepositoryFacade interface {
	EntryTypeReader
	EntryTypeWriter
}
