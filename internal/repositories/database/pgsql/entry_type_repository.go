package pgsql

import (
	"context"
	"errors"

	"github.com/finbooks/journal-engine/internal/apperrors"
	"github.com/finbooks/journal-engine/internal/core/domain"
	portsrepo "github.com/finbooks/journal-engine/internal/core/ports/repositories"
	"github.com/finbooks/journal-engine/internal/models"
	"github.com/finbooks/journal-engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEntryTypeRepository struct {
	BaseRepository
}

// newPgxEntryTypeRepository creates a new repository for entry type policies.
func newPgxEntryTypeRepository(pool *pgxpool.Pool) portsrepo.EntryTypeRepositoryFacade {
	return &PgxEntryTypeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.EntryTypeRepositoryFacade = (*PgxEntryTypeRepository)(nil)

const entryTypeColumns = `
	entry_type_id, company_id, name, category, requires_approval, max_amount,
	allowed_account_ids, created_at, created_by, last_updated_at, last_updated_by`

func scanEntryType(row pgx.Row) (*models.JournalEntryType, error) {
	var m models.JournalEntryType
	err := row.Scan(
		&m.EntryTypeID,
		&m.CompanyID,
		&m.Name,
		&m.Category,
		&m.RequiresApproval,
		&m.MaxAmount,
		&m.AllowedAccountIDs,
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

// SaveEntryType persists a new entry type policy.
func (r *PgxEntryTypeRepository) SaveEntryType(ctx context.Context, entryType domain.JournalEntryType) error {
	m := mapping.ToModelEntryType(entryType)
	query := `
		INSERT INTO journal_entry_types (` + entryTypeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EntryTypeID,
		m.CompanyID,
		m.Name,
		m.Category,
		m.RequiresApproval,
		m.MaxAmount,
		m.AllowedAccountIDs,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert entry type "+m.EntryTypeID, err)
	}
	return nil
}

// FindEntryTypeByID retrieves a specific entry type within a company scope.
func (r *PgxEntryTypeRepository) FindEntryTypeByID(ctx context.Context, companyID, entryTypeID string) (*domain.JournalEntryType, error) {
	query := `
		SELECT ` + entryTypeColumns + `
		FROM journal_entry_types
		WHERE company_id = $1 AND entry_type_id = $2;
	`
	m, err := scanEntryType(r.Pool.QueryRow(ctx, query, companyID, entryTypeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry type by ID "+entryTypeID, err)
	}
	entryType := mapping.ToDomainEntryType(*m)
	return &entryType, nil
}

// ListEntryTypes retrieves all entry types for a company.
func (r *PgxEntryTypeRepository) ListEntryTypes(ctx context.Context, companyID string) ([]domain.JournalEntryType, error) {
	query := `
		SELECT ` + entryTypeColumns + `
		FROM journal_entry_types
		WHERE company_id = $1
		ORDER BY name, entry_type_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entry types for company "+companyID, err)
	}
	defer rows.Close()

	entryTypes := []domain.JournalEntryType{}
	for rows.Next() {
		m, err := scanEntryType(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry type row", err)
		}
		entryTypes = append(entryTypes, mapping.ToDomainEntryType(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry type rows", err)
	}
	return entryTypes, nil
}
