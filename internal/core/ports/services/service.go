package services

import (
	"context"

	"github.com/finbooks/journal-engine/internal/core/domain"
)

// ApprovalNotifier delivers approval notifications. Implementations may fail;
// callers treat notification as fire-and-forget and never let a failure affect
// the lifecycle outcome.
type ApprovalNotifier interface {
	// NotifyApprovalRequested informs the designated approvers of a new request.
	NotifyApprovalRequested(ctx context.Context, entry domain.JournalEntry, approvals []domain.EntryApproval) error

	// NotifyApprovalResolved informs the requester of an approve/reject decision.
	NotifyApprovalResolved(ctx context.Context, entry domain.JournalEntry, approval domain.EntryApproval) error
}

// InventoryAdjuster is the capability interface the inventory subsystem
// implements so that reversing a journal entry that originated from an
// inventory movement also restores the moved stock. The journal engine knows
// nothing about inventory internals beyond this port.
type InventoryAdjuster interface {
	// ReverseMovements compensates the inventory movements identified by
	// sourceID, restoring stock quantities.
	ReverseMovements(ctx context.Context, companyID, sourceID, actorID string) error
}
