package services

import (
	"context"

	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/finbooks/journal-engine/internal/dto"
	"github.com/jackc/pgx/v5"
)

// JournalSvcFacade defines the journal entry lifecycle operations. The InTx
// variants run inside a caller-owned transaction; the batch processor uses
// them to share one outer transaction across many items.
type JournalSvcFacade interface {
	CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error)
	CreateEntryInTx(ctx context.Context, tx pgx.Tx, companyID string, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error)

	GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	PostEntry(ctx context.Context, companyID, entryID string, actorID string) (*domain.JournalEntry, error)
	PostEntryInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, actorID string) (*domain.JournalEntry, error)

	VoidEntry(ctx context.Context, companyID, entryID string, reason string, actorID string) (*domain.JournalEntry, error)

	ReverseEntry(ctx context.Context, companyID, entryID string, req dto.ReverseEntryRequest, actorID string) (*dto.ReversalResult, error)
	ReverseEntryInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, req dto.ReverseEntryRequest, actorID string) (*dto.ReversalResult, error)

	AdjustEntry(ctx context.Context, companyID, entryID string, req dto.AdjustEntryRequest, actorID string) (*domain.JournalEntry, error)

	ListAuditForEntry(ctx context.Context, companyID, entryID string) ([]domain.AuditRecord, error)
}
