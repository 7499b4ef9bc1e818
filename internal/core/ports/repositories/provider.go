package repositories

// RepositoryProvider bundles every repository facade for dependency injection
// into the service container.
type RepositoryProvider struct {
	AccountRepo   AccountRepositoryFacade
	EntryTypeRepo EntryTypeRepositoryFacade
	JournalRepo   JournalEntryRepositoryWithTx
	ApprovalRepo  ApprovalRepositoryFacade
	TemplateRepo  TemplateRepositoryFacade
	AuditRepo     AuditRepository
}
