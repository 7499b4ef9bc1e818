package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/finbooks/journal-engine/internal/apperrors"
	"github.com/finbooks/journal-engine/internal/core/domain"
	portsrepo "github.com/finbooks/journal-engine/internal/core/ports/repositories"
	"github.com/finbooks/journal-engine/internal/models"
	"github.com/finbooks/journal-engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxApprovalRepository struct {
	BaseRepository
}

// newPgxApprovalRepository creates a new repository for entry approvals.
func newPgxApprovalRepository(pool *pgxpool.Pool) portsrepo.ApprovalRepositoryFacade {
	return &PgxApprovalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ApprovalRepositoryFacade = (*PgxApprovalRepository)(nil)

const approvalColumns = `
	approval_id, entry_id, company_id, requester_id, approver_id, status,
	comments, resolved_at, created_at, created_by, last_updated_at, last_updated_by`

func scanApproval(row pgx.Row) (*models.EntryApproval, error) {
	var m models.EntryApproval
	err := row.Scan(
		&m.ApprovalID,
		&m.EntryID,
		&m.CompanyID,
		&m.RequesterID,
		&m.ApproverID,
		&m.Status,
		&m.Comments,
		&m.ResolvedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveApprovalsInTx inserts approval records within the transaction.
func (r *PgxApprovalRepository) SaveApprovalsInTx(ctx context.Context, tx pgx.Tx, approvals []domain.EntryApproval) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO entry_approvals (` + approvalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, approval := range approvals {
		m := mapping.ToModelApproval(approval)
		batch.Queue(query,
			m.ApprovalID,
			m.EntryID,
			m.CompanyID,
			m.RequesterID,
			m.ApproverID,
			m.Status,
			m.Comments,
			m.ResolvedAt,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert approval records", err)
	}
	return nil
}

// FindApprovalByID retrieves an approval record within a company scope.
func (r *PgxApprovalRepository) FindApprovalByID(ctx context.Context, companyID, approvalID string) (*domain.EntryApproval, error) {
	query := `
		SELECT ` + approvalColumns + `
		FROM entry_approvals
		WHERE company_id = $1 AND approval_id = $2;
	`
	m, err := scanApproval(r.Pool.QueryRow(ctx, query, companyID, approvalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find approval by ID "+approvalID, err)
	}
	approval := mapping.ToDomainApproval(*m)
	return &approval, nil
}

// FindApprovalForUpdateInTx selects an approval and row-locks it.
func (r *PgxApprovalRepository) FindApprovalForUpdateInTx(ctx context.Context, tx pgx.Tx, companyID, approvalID string) (*domain.EntryApproval, error) {
	query := `
		SELECT ` + approvalColumns + `
		FROM entry_approvals
		WHERE company_id = $1 AND approval_id = $2
		FOR UPDATE;
	`
	m, err := scanApproval(tx.QueryRow(ctx, query, companyID, approvalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock approval "+approvalID, err)
	}
	approval := mapping.ToDomainApproval(*m)
	return &approval, nil
}

func (r *PgxApprovalRepository) findByEntry(ctx context.Context, q querier, entryID string, onlyPending bool) ([]domain.EntryApproval, error) {
	query := `
		SELECT ` + approvalColumns + `
		FROM entry_approvals
		WHERE entry_id = $1
	`
	if onlyPending {
		query += ` AND status = 'PENDING'`
	}
	query += ` ORDER BY created_at, approval_id;`

	rows, err := q.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query approvals for entry "+entryID, err)
	}
	defer rows.Close()

	approvals := []models.EntryApproval{}
	for rows.Next() {
		m, err := scanApproval(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan approval row for entry "+entryID, err)
		}
		approvals = append(approvals, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating approval rows for entry "+entryID, err)
	}
	return mapping.ToDomainApprovalSlice(approvals), nil
}

// FindApprovalsByEntryID retrieves all approval records for an entry.
func (r *PgxApprovalRepository) FindApprovalsByEntryID(ctx context.Context, entryID string) ([]domain.EntryApproval, error) {
	return r.findByEntry(ctx, r.Pool, entryID, false)
}

// FindPendingByEntryIDInTx retrieves the PENDING approvals of an entry within
// the transaction.
func (r *PgxApprovalRepository) FindPendingByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.EntryApproval, error) {
	return r.findByEntry(ctx, tx, entryID, true)
}

// UpdateApprovalStatusInTx resolves a single approval record.
func (r *PgxApprovalRepository) UpdateApprovalStatusInTx(ctx context.Context, tx pgx.Tx, approvalID string, status domain.ApprovalStatus, comments string, actorID string, now time.Time) error {
	query := `
		UPDATE entry_approvals
		SET status = $2, comments = $3, resolved_at = $4,
		    last_updated_at = $4, last_updated_by = $5
		WHERE approval_id = $1;
	`
	tag, err := tx.Exec(ctx, query, approvalID, string(status), comments, now, actorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update approval "+approvalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CancelPendingByEntryIDInTx marks every remaining PENDING approval of the
// entry as CANCELLED, except the one identified by exceptApprovalID.
func (r *PgxApprovalRepository) CancelPendingByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID, exceptApprovalID string, actorID string, now time.Time) error {
	query := `
		UPDATE entry_approvals
		SET status = 'CANCELLED', resolved_at = $3,
		    last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status = 'PENDING' AND approval_id != $2;
	`
	_, err := tx.Exec(ctx, query, entryID, exceptApprovalID, now, actorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to cancel pending approvals for entry "+entryID, err)
	}
	return nil
}
