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

type PgxTemplateRepository struct {
	BaseRepository
}

// newPgxTemplateRepository creates a new repository for entry templates.
func newPgxTemplateRepository(pool *pgxpool.Pool) portsrepo.TemplateRepositoryFacade {
	return &PgxTemplateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TemplateRepositoryFacade = (*PgxTemplateRepository)(nil)

const templateColumns = `
	template_id, company_id, name, memo, entry_type_id, is_recurring, frequency,
	next_run_date, end_date, is_active, created_at, created_by, last_updated_at, last_updated_by`

const templateLineColumns = `
	template_line_id, template_id, account_id, debit_formula, credit_formula,
	memo, department, project, location`

func scanTemplate(row pgx.Row) (*models.EntryTemplate, error) {
	var m models.EntryTemplate
	err := row.Scan(
		&m.TemplateID,
		&m.CompanyID,
		&m.Name,
		&m.Memo,
		&m.EntryTypeID,
		&m.IsRecurring,
		&m.Frequency,
		&m.NextRunDate,
		&m.EndDate,
		&m.IsActive,
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

func scanTemplateLine(row pgx.Row) (*models.TemplateLine, error) {
	var m models.TemplateLine
	err := row.Scan(
		&m.TemplateLineID,
		&m.TemplateID,
		&m.AccountID,
		&m.DebitFormula,
		&m.CreditFormula,
		&m.Memo,
		&m.Department,
		&m.Project,
		&m.Location,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveTemplate persists a new template with its lines in one transaction.
func (r *PgxTemplateRepository) SaveTemplate(ctx context.Context, template domain.EntryTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelTemplate(template)
	templateQuery := `
		INSERT INTO entry_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, templateQuery,
		m.TemplateID,
		m.CompanyID,
		m.Name,
		m.Memo,
		m.EntryTypeID,
		m.IsRecurring,
		m.Frequency,
		m.NextRunDate,
		m.EndDate,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert template "+m.TemplateID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO template_lines (` + templateLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, line := range template.Lines {
		ml := mapping.ToModelTemplateLine(line)
		batch.Queue(lineQuery,
			ml.TemplateLineID,
			ml.TemplateID,
			ml.AccountID,
			ml.DebitFormula,
			ml.CreditFormula,
			ml.Memo,
			ml.Department,
			ml.Project,
			ml.Location,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for template "+m.TemplateID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTemplateRepository) findTemplateLines(ctx context.Context, templateID string) ([]domain.TemplateLine, error) {
	query := `
		SELECT ` + templateLineColumns + `
		FROM template_lines
		WHERE template_id = $1
		ORDER BY template_line_id;
	`
	rows, err := r.Pool.Query(ctx, query, templateID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for template "+templateID, err)
	}
	defer rows.Close()

	lines := []domain.TemplateLine{}
	for rows.Next() {
		m, err := scanTemplateLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan template line row", err)
		}
		lines = append(lines, mapping.ToDomainTemplateLine(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating template line rows", err)
	}
	return lines, nil
}

// FindTemplateByID retrieves a template with its lines within a company scope.
func (r *PgxTemplateRepository) FindTemplateByID(ctx context.Context, companyID, templateID string) (*domain.EntryTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM entry_templates
		WHERE company_id = $1 AND template_id = $2;
	`
	m, err := scanTemplate(r.Pool.QueryRow(ctx, query, companyID, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find template by ID "+templateID, err)
	}

	template := mapping.ToDomainTemplate(*m)
	template.Lines, err = r.findTemplateLines(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// ListTemplates retrieves a paginated list of templates for a company.
func (r *PgxTemplateRepository) ListTemplates(ctx context.Context, companyID string, limit int, offset int) ([]domain.EntryTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM entry_templates
		WHERE company_id = $1
		ORDER BY name, template_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query templates for company "+companyID, err)
	}
	defer rows.Close()

	templates := []domain.EntryTemplate{}
	for rows.Next() {
		m, err := scanTemplate(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan template row", err)
		}
		templates = append(templates, mapping.ToDomainTemplate(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating template rows", err)
	}
	return templates, nil
}

// FindDueTemplates retrieves active recurring templates whose next run date is
// on or before asOf and whose end date has not passed, lines populated.
func (r *PgxTemplateRepository) FindDueTemplates(ctx context.Context, companyID string, asOf time.Time) ([]domain.EntryTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM entry_templates
		WHERE company_id = $1
		  AND is_recurring = TRUE
		  AND is_active = TRUE
		  AND next_run_date IS NOT NULL
		  AND next_run_date <= $2
		  AND (end_date IS NULL OR end_date >= $2)
		ORDER BY next_run_date, template_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query due templates for company "+companyID, err)
	}
	defer rows.Close()

	templates := []domain.EntryTemplate{}
	for rows.Next() {
		m, err := scanTemplate(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan template row", err)
		}
		templates = append(templates, mapping.ToDomainTemplate(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating template rows", err)
	}

	for i := range templates {
		templates[i].Lines, err = r.findTemplateLines(ctx, templates[i].TemplateID)
		if err != nil {
			return nil, err
		}
	}
	return templates, nil
}

// ListCompaniesWithDueTemplates returns the distinct companies holding at
// least one due recurring template.
func (r *PgxTemplateRepository) ListCompaniesWithDueTemplates(ctx context.Context, asOf time.Time) ([]string, error) {
	query := `
		SELECT DISTINCT company_id
		FROM entry_templates
		WHERE is_recurring = TRUE
		  AND is_active = TRUE
		  AND next_run_date IS NOT NULL
		  AND next_run_date <= $1
		  AND (end_date IS NULL OR end_date >= $1)
		ORDER BY company_id;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query companies with due templates", err)
	}
	defer rows.Close()

	companies := []string{}
	for rows.Next() {
		var companyID string
		if err := rows.Scan(&companyID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan company row", err)
		}
		companies = append(companies, companyID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating company rows", err)
	}
	return companies, nil
}

// AdvanceNextRunDateInTx moves a template's next run date forward within the
// given transaction.
func (r *PgxTemplateRepository) AdvanceNextRunDateInTx(ctx context.Context, tx pgx.Tx, templateID string, next time.Time, actorID string, now time.Time) error {
	query := `
		UPDATE entry_templates
		SET next_run_date = $2, last_updated_at = $3, last_updated_by = $4
		WHERE template_id = $1;
	`
	tag, err := tx.Exec(ctx, query, templateID, next, now, actorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to advance next run date of template "+templateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
