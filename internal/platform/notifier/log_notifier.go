package notifier

import (
	"context"
	"log/slog"

	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/finbooks/journal-engine/internal/middleware"
)

// LogNotifier records approval events to the structured log. It stands in for
// a real delivery channel (email, webhook) in deployments that do not
// configure one.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) NotifyApprovalRequested(ctx context.Context, entry domain.JournalEntry, approvals []domain.EntryApproval) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	approverIDs := make([]string, 0, len(approvals))
	for _, a := range approvals {
		approverIDs = append(approverIDs, a.ApproverID)
	}
	logger.Info("Approval requested",
		slog.String("entryID", entry.EntryID),
		slog.String("reference", entry.Reference),
		slog.Any("approverIDs", approverIDs),
	)
	return nil
}

func (n *LogNotifier) NotifyApprovalResolved(ctx context.Context, entry domain.JournalEntry, approval domain.EntryApproval) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Approval resolved",
		slog.String("entryID", entry.EntryID),
		slog.String("reference", entry.Reference),
		slog.String("approvalID", approval.ApprovalID),
		slog.String("status", string(approval.Status)),
	)
	return nil
}
