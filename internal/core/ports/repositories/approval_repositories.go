package repositories

import (
	"context"
	"time"

	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ApprovalReader defines read operations for approval records.
type ApprovalReader interface {
	// FindApprovalByID retrieves an approval record within a company scope.
	FindApprovalByID(ctx context.Context, companyID, approvalID string) (*domain.EntryApproval, error)

	// FindApprovalsByEntryID retrieves all approval records for an entry.
	FindApprovalsByEntryID(ctx context.Context, entryID string) ([]domain.EntryApproval, error)
}

// ApprovalTransactionSupport defines approval operations executed inside a
// caller-owned database transaction.
type ApprovalTransactionSupport interface {
	// SaveApprovalsInTx inserts approval records within the transaction.
	SaveApprovalsInTx(ctx context.Context, tx pgx.Tx, approvals []domain.EntryApproval) error

	// FindApprovalForUpdateInTx selects an approval and row-locks it.
	FindApprovalForUpdateInTx(ctx context.Context, tx pgx.Tx, companyID, approvalID string) (*domain.EntryApproval, error)

	// FindPendingByEntryIDInTx retrieves the PENDING approvals of an entry.
	FindPendingByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.EntryApproval, error)

	// UpdateApprovalStatusInTx resolves a single approval record.
	UpdateApprovalStatusInTx(ctx context.Context, tx pgx.Tx, approvalID string, status domain.ApprovalStatus, comments string, actorID string, now time.Time) error

	// CancelPendingByEntryIDInTx marks every remaining PENDING approval of the
	// entry as CANCELLED, except the one identified by exceptApprovalID.
	CancelPendingByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID, exceptApprovalID string, actorID string, now time.Time) error
}

// ApprovalRepositoryFacade combines all approval repository interfaces.
type ApprovalRepositoryFacade interface {
	ApprovalReader
	ApprovalTransactionSupport
}
