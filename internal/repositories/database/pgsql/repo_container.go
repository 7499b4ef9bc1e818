package pgsql

import (
	portsrepo "github.com/finbooks/journal-engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgx-backed repository over one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		EntryTypeRepo: newPgxEntryTypeRepository(dbPool),
		JournalRepo:   newPgxJournalEntryRepository(dbPool),
		ApprovalRepo:  newPgxApprovalRepository(dbPool),
		TemplateRepo:  newPgxTemplateRepository(dbPool),
		AuditRepo:     newPgxAuditRepository(dbPool),
	}
}
