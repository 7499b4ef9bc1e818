package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/finbooks/journal-engine/internal/apperrors"
	"github.com/finbooks/journal-engine/internal/core/domain"
	portsrepo "github.com/finbooks/journal-engine/internal/core/ports/repositories"
	"github.com/finbooks/journal-engine/internal/models"
	"github.com/finbooks/journal-engine/internal/utils/mapping"
	"github.com/finbooks/journal-engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalEntryRepository struct {
	BaseRepository
}

// newPgxJournalEntryRepository creates a new repository for journal entries
// and their lines.
func newPgxJournalEntryRepository(pool *pgxpool.Pool) portsrepo.JournalEntryRepositoryWithTx {
	return &PgxJournalEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.JournalEntryRepositoryWithTx = (*PgxJournalEntryRepository)(nil)

const entryColumns = `
	entry_id, company_id, entry_date, memo, reference, status, entry_type_id,
	approval_policy, source_domain, source_id, original_entry_id,
	reversing_entry_id, posted_at, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `
	line_id, entry_id, account_id, debit, credit, memo, department, project,
	location, created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.CompanyID,
		&m.EntryDate,
		&m.Memo,
		&m.Reference,
		&m.Status,
		&m.EntryTypeID,
		&m.ApprovalPolicy,
		&m.SourceDomain,
		&m.SourceID,
		&m.OriginalEntryID,
		&m.ReversingEntryID,
		&m.PostedAt,
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

func scanLine(row pgx.Row) (*models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.Debit,
		&m.Credit,
		&m.Memo,
		&m.Department,
		&m.Project,
		&m.Location,
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

// SaveEntryInTx inserts an entry and all of its lines within the given
// transaction. A unique violation on (company_id, reference) surfaces as
// apperrors.ErrDuplicate so the service can retry with a fresh reference.
func (r *PgxJournalEntryRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	m := mapping.ToModelEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, entryQuery,
		m.EntryID,
		m.CompanyID,
		m.EntryDate,
		m.Memo,
		m.Reference,
		m.Status,
		m.EntryTypeID,
		m.ApprovalPolicy,
		m.SourceDomain,
		m.SourceID,
		m.OriginalEntryID,
		m.ReversingEntryID,
		m.PostedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+m.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, line := range lines {
		ml := mapping.ToModelLine(line)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.EntryID,
			ml.AccountID,
			ml.Debit,
			ml.Credit,
			ml.Memo,
			ml.Department,
			ml.Project,
			ml.Location,
			ml.CreatedAt,
			ml.CreatedBy,
			ml.LastUpdatedAt,
			ml.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for entry "+m.EntryID, err)
	}
	return nil
}

// FindEntryByID retrieves a journal entry within a company scope.
func (r *PgxJournalEntryRepository) FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND entry_id = $2;
	`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, companyID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by ID "+entryID, err)
	}
	entry := mapping.ToDomainEntry(*m)
	return &entry, nil
}

// FindEntryForUpdateInTx selects an entry and row-locks it for the remainder
// of the transaction.
func (r *PgxJournalEntryRepository) FindEntryForUpdateInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND entry_id = $2
		FOR UPDATE;
	`
	m, err := scanEntry(tx.QueryRow(ctx, query, companyID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock entry "+entryID, err)
	}
	entry := mapping.ToDomainEntry(*m)
	return &entry, nil
}

func (r *PgxJournalEntryRepository) findLines(ctx context.Context, q querier, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY created_at, line_id;
	`
	rows, err := q.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}
	return mapping.ToDomainLineSlice(lines), nil
}

// FindLinesByEntryID retrieves the lines of a journal entry.
func (r *PgxJournalEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	return r.findLines(ctx, r.Pool, entryID)
}

// FindLinesByEntryIDInTx retrieves an entry's lines within the transaction.
func (r *PgxJournalEntryRepository) FindLinesByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.JournalLine, error) {
	return r.findLines(ctx, tx, entryID)
}

// ListEntries retrieves a token-paginated list of entries for a company,
// newest first.
func (r *PgxJournalEntryRepository) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to decide whether there is a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1
	`
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	args := []any{companyID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (entry_date, created_at) < ($2, $3)`
		args = append(args, lastEntryDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for company "+companyID, err)
	}
	defer rows.Close()

	entries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		entries = append(entries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows", err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
	}

	result := make([]domain.JournalEntry, len(entries))
	for i, m := range entries {
		result[i] = mapping.ToDomainEntry(m)
	}
	return result, nextTokenVal, nil
}

// UpdateEntryStatusInTx transitions an entry's status. posted_at and
// reversing_entry_id are only written when non-nil, so earlier values survive
// later transitions.
func (r *PgxJournalEntryRepository) UpdateEntryStatusInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, status domain.EntryStatus, postedAt *time.Time, reversingEntryID *string, actorID string, now time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $3,
		    posted_at = COALESCE($4, posted_at),
		    reversing_entry_id = COALESCE($5, reversing_entry_id),
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE company_id = $1 AND entry_id = $2;
	`
	tag, err := tx.Exec(ctx, query, companyID, entryID, string(status), postedAt, reversingEntryID, now, actorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetApprovalPolicyInTx records the approval completion policy on the entry.
func (r *PgxJournalEntryRepository) SetApprovalPolicyInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, policy domain.ApprovalPolicy, actorID string, now time.Time) error {
	query := `
		UPDATE journal_entries
		SET approval_policy = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1 AND entry_id = $2;
	`
	tag, err := tx.Exec(ctx, query, companyID, entryID, string(policy), now, actorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set approval policy of entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MaxReferenceSequenceInTx returns the highest numeric suffix among generated
// references with the given prefix, or 0 when none exist.
func (r *PgxJournalEntryRepository) MaxReferenceSequenceInTx(ctx context.Context, tx pgx.Tx, companyID, prefix string) (int, error) {
	query := `
		SELECT COALESCE(MAX(CAST(SUBSTRING(reference FROM LENGTH($2) + 2) AS INTEGER)), 0)
		FROM journal_entries
		WHERE company_id = $1
		  AND reference LIKE $2 || '-%'
		  AND SUBSTRING(reference FROM LENGTH($2) + 2) ~ '^[0-9]+$';
	`
	var maxSeq int
	if err := tx.QueryRow(ctx, query, companyID, prefix).Scan(&maxSeq); err != nil {
		return 0, apperrors.NewAppError(500, "failed to compute reference sequence for prefix "+prefix, err)
	}
	return maxSeq, nil
}

// ReferenceExistsInTx reports whether a reference is already taken within the
// company scope.
func (r *PgxJournalEntryRepository) ReferenceExistsInTx(ctx context.Context, tx pgx.Tx, companyID, reference string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM journal_entries WHERE company_id = $1 AND reference = $2);`
	var exists bool
	if err := tx.QueryRow(ctx, query, companyID, reference).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check reference "+reference, err)
	}
	return exists, nil
}
