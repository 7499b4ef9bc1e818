package services

// ServiceContainer holds every service facade the delivery layer depends on.
type ServiceContainer struct {
	Account   AccountSvcFacade
	EntryType EntryTypeSvcFacade
	Journal   JournalSvcFacade
	Approval  ApprovalSvcFacade
	Batch     BatchSvcFacade
	Recurring RecurringSvcFacade
	Template  TemplateSvcFacade
}
