package pgsql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks/journal-engine/internal/apperrors"
	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/finbooks/journal-engine/internal/models"
)

var accountColumnNames = []string{
	"account_id", "company_id", "code", "name", "account_type", "parent_account_id",
	"description", "is_active", "created_at", "created_by", "last_updated_at", "last_updated_by",
}

func testAccount(companyID string) domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.Account{
		AccountID:   uuid.NewString(),
		CompanyID:   companyID,
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
		Description: "Operating cash",
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "tester",
			LastUpdatedAt: now,
			LastUpdatedBy: "tester",
		},
	}
}

func TestAccountRepository_SaveAccount(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PgxAccountRepository{BaseRepository: BaseRepository{Pool: mock}}
	companyID := uuid.NewString()
	acc := testAccount(companyID)

	query := `INSERT INTO accounts .+ VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8, \$9, \$10, \$11, \$12\)`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.AccountID, acc.CompanyID, acc.Code, acc.Name, models.AccountType(acc.AccountType), (*string)(nil),
				acc.Description, acc.IsActive, acc.CreatedAt, acc.CreatedBy, acc.LastUpdatedAt, acc.LastUpdatedBy).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.SaveAccount(ctx, acc)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate code", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.AccountID, acc.CompanyID, acc.Code, acc.Name, models.AccountType(acc.AccountType), (*string)(nil),
				acc.Description, acc.IsActive, acc.CreatedAt, acc.CreatedBy, acc.LastUpdatedAt, acc.LastUpdatedBy).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.SaveAccount(ctx, acc)
		assert.ErrorIs(t, err, apperrors.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs(acc.AccountID, acc.CompanyID, acc.Code, acc.Name, models.AccountType(acc.AccountType), (*string)(nil),
				acc.Description, acc.IsActive, acc.CreatedAt, acc.CreatedBy, acc.LastUpdatedAt, acc.LastUpdatedBy).
			WillReturnError(dbErr)

		err := repo.SaveAccount(ctx, acc)
		assert.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_FindAccountByID(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PgxAccountRepository{BaseRepository: BaseRepository{Pool: mock}}
	companyID := uuid.NewString()
	acc := testAccount(companyID)

	query := `SELECT .+ FROM accounts WHERE company_id = \$1 AND account_id = \$2`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows(accountColumnNames).
			AddRow(acc.AccountID, acc.CompanyID, acc.Code, acc.Name, models.AccountType(acc.AccountType), nil,
				acc.Description, acc.IsActive, acc.CreatedAt, acc.CreatedBy, acc.LastUpdatedAt, acc.LastUpdatedBy)
		mock.ExpectQuery(query).WithArgs(companyID, acc.AccountID).WillReturnRows(rows)

		got, err := repo.FindAccountByID(ctx, companyID, acc.AccountID)
		require.NoError(t, err)
		assert.Equal(t, &acc, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(companyID, acc.AccountID).WillReturnError(pgx.ErrNoRows)

		got, err := repo.FindAccountByID(ctx, companyID, acc.AccountID)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_FindAccountsByIDs(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PgxAccountRepository{BaseRepository: BaseRepository{Pool: mock}}
	companyID := uuid.NewString()
	first := testAccount(companyID)
	second := testAccount(companyID)
	second.Code = "2000"
	second.Name = "Accounts Payable"
	second.AccountType = domain.Liability

	query := `SELECT .+ FROM accounts WHERE company_id = \$1 AND account_id = ANY\(\$2\)`

	t.Run("returns only existing accounts", func(t *testing.T) {
		missingID := uuid.NewString()
		rows := pgxmock.NewRows(accountColumnNames).
			AddRow(first.AccountID, first.CompanyID, first.Code, first.Name, models.AccountType(first.AccountType), nil,
				first.Description, first.IsActive, first.CreatedAt, first.CreatedBy, first.LastUpdatedAt, first.LastUpdatedBy).
			AddRow(second.AccountID, second.CompanyID, second.Code, second.Name, models.AccountType(second.AccountType), nil,
				second.Description, second.IsActive, second.CreatedAt, second.CreatedBy, second.LastUpdatedAt, second.LastUpdatedBy)
		mock.ExpectQuery(query).
			WithArgs(companyID, []string{first.AccountID, second.AccountID, missingID}).
			WillReturnRows(rows)

		got, err := repo.FindAccountsByIDs(ctx, companyID, []string{first.AccountID, second.AccountID, missingID})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, first, got[first.AccountID])
		assert.Equal(t, second, got[second.AccountID])
		assert.NotContains(t, got, missingID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty input skips the query", func(t *testing.T) {
		got, err := repo.FindAccountsByIDs(ctx, companyID, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_UpdateAccount(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PgxAccountRepository{BaseRepository: BaseRepository{Pool: mock}}
	companyID := uuid.NewString()
	acc := testAccount(companyID)

	query := `UPDATE accounts SET code = \$3, name = \$4, description = \$5, last_updated_at = \$6, last_updated_by = \$7 WHERE company_id = \$1 AND account_id = \$2`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.CompanyID, acc.AccountID, acc.Code, acc.Name, acc.Description, acc.LastUpdatedAt, acc.LastUpdatedBy).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateAccount(ctx, acc)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(acc.CompanyID, acc.AccountID, acc.Code, acc.Name, acc.Description, acc.LastUpdatedAt, acc.LastUpdatedBy).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateAccount(ctx, acc)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_DeactivateAccount(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &PgxAccountRepository{BaseRepository: BaseRepository{Pool: mock}}
	companyID := uuid.NewString()
	accountID := uuid.NewString()
	now := time.Now().UTC()

	query := `UPDATE accounts SET is_active = FALSE, last_updated_at = \$3, last_updated_by = \$4 WHERE company_id = \$1 AND account_id = \$2`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(companyID, accountID, now, "tester").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.DeactivateAccount(ctx, companyID, accountID, "tester", now)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(companyID, accountID, now, "tester").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.DeactivateAccount(ctx, companyID, accountID, "tester", now)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBaseRepository_TransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &BaseRepository{Pool: mock}

	t.Run("begin and commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()

		tx, err := repo.Begin(ctx)
		require.NoError(t, err)
		assert.NoError(t, repo.Commit(ctx, tx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin and rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()

		tx, err := repo.Begin(ctx)
		require.NoError(t, err)
		assert.NoError(t, repo.Rollback(ctx, tx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
