package repositories

import (
	"context"
	"time"

	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// JournalEntryReader defines read operations for journal entries and lines.
type JournalEntryReader interface {
	// FindEntryByID retrieves a journal entry within a company scope (lines not populated).
	FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves the lines of a journal entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// ListEntries retrieves a token-paginated list of entries for a company.
	ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalEntryTransactionSupport defines operations executed inside a caller-owned
// database transaction. All lifecycle writes go through these.
type JournalEntryTransactionSupport interface {
	// SaveEntryInTx inserts an entry and all of its lines within the given transaction.
	// A unique-constraint violation on (company_id, reference) surfaces as apperrors.ErrDuplicate.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error

	// FindEntryForUpdateInTx selects an entry and row-locks it within the transaction.
	FindEntryForUpdateInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryIDInTx retrieves an entry's lines within the transaction.
	FindLinesByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.JournalLine, error)

	// UpdateEntryStatusInTx transitions an entry's status and maintains the
	// posted-at timestamp and reversal link columns.
	UpdateEntryStatusInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, status domain.EntryStatus, postedAt *time.Time, reversingEntryID *string, actorID string, now time.Time) error

	// SetApprovalPolicyInTx records the approval completion policy chosen when
	// approval was requested for the entry.
	SetApprovalPolicyInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, policy domain.ApprovalPolicy, actorID string, now time.Time) error

	// MaxReferenceSequenceInTx returns the highest NNNN suffix among references
	// matching the given JE-YYYYMMDD prefix for the company, or 0 when none exist.
	MaxReferenceSequenceInTx(ctx context.Context, tx pgx.Tx, companyID, prefix string) (int, error)

	// ReferenceExistsInTx reports whether an explicit reference is already taken
	// within the company scope.
	ReferenceExistsInTx(ctx context.Context, tx pgx.Tx, companyID, reference string) (bool, error)
}

// JournalEntryRepositoryFacade combines all journal-entry repository interfaces.
type JournalEntryRepositoryFacade interface {
	JournalEntryReader
	JournalEntryTransactionSupport
}

// JournalEntryRepositoryWithTx extends the facade with transaction capabilities.
type JournalEntryRepositoryWithTx interface {
	JournalEntryRepositoryFacade
	TransactionManager
}
