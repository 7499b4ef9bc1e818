package services

import (
	"github.com/finbooks/journal-engine/internal/core/domain"
	portsrepo "github.com/finbooks/journal-engine/internal/core/ports/repositories"
	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/platform/config"
)

// ContainerOption customizes the service container with optional collaborators.
type ContainerOption func(*containerDeps)

type containerDeps struct {
	notifier  portssvc.ApprovalNotifier
	inventory portssvc.InventoryAdjuster
}

// WithApprovalNotifier wires a notification channel for approval events.
func WithApprovalNotifier(notifier portssvc.ApprovalNotifier) ContainerOption {
	return func(d *containerDeps) { d.notifier = notifier }
}

// WithInventoryAdjuster wires the inventory subsystem for reversal dispatch.
func WithInventoryAdjuster(inventory portssvc.InventoryAdjuster) ContainerOption {
	return func(d *containerDeps) { d.inventory = inventory }
}

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, opts ...ContainerOption) *portssvc.ServiceContainer {
	deps := &containerDeps{}
	for _, opt := range opts {
		opt(deps)
	}

	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.EntryType = NewEntryTypeService(repos.EntryTypeRepo, repos.AccountRepo)

	container.Journal = NewJournalService(
		repos.JournalRepo,
		repos.AccountRepo,
		repos.ApprovalRepo,
		repos.AuditRepo,
		container.EntryType,
		deps.inventory,
	)

	container.Approval = NewApprovalService(
		repos.JournalRepo,
		repos.ApprovalRepo,
		repos.AuditRepo,
		deps.notifier,
		domain.ApprovalPolicy(cfg.DefaultApprovalPolicy),
	)

	container.Batch = NewBatchService(repos.JournalRepo, container.Journal, container.Approval)
	container.Recurring = NewRecurringService(repos.TemplateRepo, repos.JournalRepo, container.Journal)
	container.Template = NewTemplateService(repos.TemplateRepo, repos.AccountRepo, repos.EntryTypeRepo)

	return container
}
