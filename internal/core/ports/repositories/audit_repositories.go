package repositories

import (
	"context"

	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AuditRepository defines operations for the append-only audit trail.
// Records are written inside the same transaction as the transition they
// capture; there are no update or delete operations.
type AuditRepository interface {
	// SaveAuditInTx appends an audit record within the transaction.
	SaveAuditInTx(ctx context.Context, tx pgx.Tx, record domain.AuditRecord) error

	// ListAuditByEntryID retrieves the audit trail of an entry, oldest first.
	ListAuditByEntryID(ctx context.Context, companyID, entryID string) ([]domain.AuditRecord, error)
}
