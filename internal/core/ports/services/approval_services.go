package services

import (
	"context"

	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/finbooks/journal-engine/internal/dto"
	"github.com/jackc/pgx/v5"
)

// ApprovalSvcFacade defines the approval workflow operations gating the
// POSTED transition.
type ApprovalSvcFacade interface {
	RequestApproval(ctx context.Context, companyID, entryID string, req dto.RequestApprovalRequest, actorID string) (*dto.RequestApprovalResult, error)

	Approve(ctx context.Context, companyID, approvalID string, comments string, actorID string) (*dto.ApprovalResult, error)
	Reject(ctx context.Context, companyID, approvalID string, comments string, actorID string) (*dto.ApprovalResult, error)

	// ApproveEntryInTx approves every pending approval of the entry inside the
	// given transaction, posting it per its policy. Used by the batch processor.
	ApproveEntryInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, comments string, actorID string) (*domain.JournalEntry, error)

	ListApprovalsForEntry(ctx context.Context, companyID, entryID string) ([]domain.EntryApproval, error)
}
