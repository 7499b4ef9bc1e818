package pgsql

import (
	"context"

	"github.com/finbooks/journal-engine/internal/apperrors"
	"github.com/finbooks/journal-engine/internal/core/domain"
	portsrepo "github.com/finbooks/journal-engine/internal/core/ports/repositories"
	"github.com/finbooks/journal-engine/internal/models"
	"github.com/finbooks/journal-engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the append-only audit
// trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

const auditColumns = `
	audit_id, company_id, entry_id, actor_id, action, before_status,
	after_status, detail, created_at`

// SaveAuditInTx appends an audit record within the transaction.
func (r *PgxAuditRepository) SaveAuditInTx(ctx context.Context, tx pgx.Tx, record domain.AuditRecord) error {
	m := mapping.ToModelAuditRecord(record)
	query := `
		INSERT INTO entry_audit (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := tx.Exec(ctx, query,
		m.AuditID,
		m.CompanyID,
		m.EntryID,
		m.ActorID,
		m.Action,
		m.BeforeStatus,
		m.AfterStatus,
		m.Detail,
		m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit record for entry "+m.EntryID, err)
	}
	return nil
}

// ListAuditByEntryID retrieves the audit trail of an entry, oldest first.
func (r *PgxAuditRepository) ListAuditByEntryID(ctx context.Context, companyID, entryID string) ([]domain.AuditRecord, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM entry_audit
		WHERE company_id = $1 AND entry_id = $2
		ORDER BY created_at, audit_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit records for entry "+entryID, err)
	}
	defer rows.Close()

	records := []domain.AuditRecord{}
	for rows.Next() {
		var m models.AuditRecord
		err := rows.Scan(
			&m.AuditID,
			&m.CompanyID,
			&m.EntryID,
			&m.ActorID,
			&m.Action,
			&m.BeforeStatus,
			&m.AfterStatus,
			&m.Detail,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit row for entry "+entryID, err)
		}
		records = append(records, mapping.ToDomainAuditRecord(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit rows for entry "+entryID, err)
	}
	return records, nil
}
