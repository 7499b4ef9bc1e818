package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/finbooks/journal-engine/internal/core/domain"
	portsrepo "github.com/finbooks/journal-engine/internal/core/ports/repositories"
	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/dto"
)

// stubTx is a minimal pgx.Tx stand-in for service tests. The repositories are
// mocked, so no method beyond savepoint plumbing is ever reached.
type stubTx struct {
	pgx.Tx
}

func (t *stubTx) Begin(ctx context.Context) (pgx.Tx, error) { return &stubTx{}, nil }
func (t *stubTx) Commit(ctx context.Context) error          { return nil }
func (t *stubTx) Rollback(ctx context.Context) error        { return nil }

// --- Mock JournalEntryRepository ---

type MockJournalEntryRepo struct {
	mock.Mock
}

var _ portsrepo.JournalEntryRepositoryWithTx = (*MockJournalEntryRepo)(nil)

func (m *MockJournalEntryRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockJournalEntryRepo) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalEntryRepo) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalEntryRepo) FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepo) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalEntryRepo) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		v := args.Get(1).(string)
		token = &v
	}
	return args.Get(0).([]domain.JournalEntry), token, args.Error(2)
}

func (m *MockJournalEntryRepo) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, tx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalEntryRepo) FindEntryForUpdateInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalEntryRepo) FindLinesByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, tx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalEntryRepo) UpdateEntryStatusInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, status domain.EntryStatus, postedAt *time.Time, reversingEntryID *string, actorID string, now time.Time) error {
	args := m.Called(ctx, tx, companyID, entryID, status, postedAt, reversingEntryID, actorID, now)
	return args.Error(0)
}

func (m *MockJournalEntryRepo) SetApprovalPolicyInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, policy domain.ApprovalPolicy, actorID string, now time.Time) error {
	args := m.Called(ctx, tx, companyID, entryID, policy, actorID, now)
	return args.Error(0)
}

func (m *MockJournalEntryRepo) MaxReferenceSequenceInTx(ctx context.Context, tx pgx.Tx, companyID, prefix string) (int, error) {
	args := m.Called(ctx, tx, companyID, prefix)
	return args.Int(0), args.Error(1)
}

func (m *MockJournalEntryRepo) ReferenceExistsInTx(ctx context.Context, tx pgx.Tx, companyID, reference string) (bool, error) {
	args := m.Called(ctx, tx, companyID, reference)
	return args.Bool(0), args.Error(1)
}

// --- Mock AccountRepository ---

type MockAccountRepo struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepo)(nil)

func (m *MockAccountRepo) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepo) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepo) DeactivateAccount(ctx context.Context, companyID, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, companyID, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepo) FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepo) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock ApprovalRepository ---

type MockApprovalRepo struct {
	mock.Mock
}

var _ portsrepo.ApprovalRepositoryFacade = (*MockApprovalRepo)(nil)

func (m *MockApprovalRepo) FindApprovalByID(ctx context.Context, companyID, approvalID string) (*domain.EntryApproval, error) {
	args := m.Called(ctx, companyID, approvalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryApproval), args.Error(1)
}

func (m *MockApprovalRepo) FindApprovalsByEntryID(ctx context.Context, entryID string) ([]domain.EntryApproval, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntryApproval), args.Error(1)
}

func (m *MockApprovalRepo) SaveApprovalsInTx(ctx context.Context, tx pgx.Tx, approvals []domain.EntryApproval) error {
	args := m.Called(ctx, tx, approvals)
	return args.Error(0)
}

func (m *MockApprovalRepo) FindApprovalForUpdateInTx(ctx context.Context, tx pgx.Tx, companyID, approvalID string) (*domain.EntryApproval, error) {
	args := m.Called(ctx, tx, companyID, approvalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryApproval), args.Error(1)
}

func (m *MockApprovalRepo) FindPendingByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.EntryApproval, error) {
	args := m.Called(ctx, tx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntryApproval), args.Error(1)
}

func (m *MockApprovalRepo) UpdateApprovalStatusInTx(ctx context.Context, tx pgx.Tx, approvalID string, status domain.ApprovalStatus, comments string, actorID string, now time.Time) error {
	args := m.Called(ctx, tx, approvalID, status, comments, actorID, now)
	return args.Error(0)
}

func (m *MockApprovalRepo) CancelPendingByEntryIDInTx(ctx context.Context, tx pgx.Tx, entryID, exceptApprovalID string, actorID string, now time.Time) error {
	args := m.Called(ctx, tx, entryID, exceptApprovalID, actorID, now)
	return args.Error(0)
}

// --- Mock AuditRepository ---

type MockAuditRepo struct {
	mock.Mock
}

var _ portsrepo.AuditRepository = (*MockAuditRepo)(nil)

func (m *MockAuditRepo) SaveAuditInTx(ctx context.Context, tx pgx.Tx, record domain.AuditRecord) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

func (m *MockAuditRepo) ListAuditByEntryID(ctx context.Context, companyID, entryID string) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

// --- Mock EntryTypeRepository ---

type MockEntryTypeRepo struct {
	mock.Mock
}

var _ portsrepo.EntryTypeRepositoryFacade = (*MockEntryTypeRepo)(nil)

func (m *MockEntryTypeRepo) SaveEntryType(ctx context.Context, entryType domain.JournalEntryType) error {
	args := m.Called(ctx, entryType)
	return args.Error(0)
}

func (m *MockEntryTypeRepo) FindEntryTypeByID(ctx context.Context, companyID, entryTypeID string) (*domain.JournalEntryType, error) {
	args := m.Called(ctx, companyID, entryTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntryType), args.Error(1)
}

func (m *MockEntryTypeRepo) ListEntryTypes(ctx context.Context, companyID string) ([]domain.JournalEntryType, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryType), args.Error(1)
}

// --- Mock TemplateRepository ---

type MockTemplateRepo struct {
	mock.Mock
}

var _ portsrepo.TemplateRepositoryFacade = (*MockTemplateRepo)(nil)

func (m *MockTemplateRepo) SaveTemplate(ctx context.Context, template domain.EntryTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepo) FindTemplateByID(ctx context.Context, companyID, templateID string) (*domain.EntryTemplate, error) {
	args := m.Called(ctx, companyID, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryTemplate), args.Error(1)
}

func (m *MockTemplateRepo) ListTemplates(ctx context.Context, companyID string, limit int, offset int) ([]domain.EntryTemplate, error) {
	args := m.Called(ctx, companyID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntryTemplate), args.Error(1)
}

func (m *MockTemplateRepo) FindDueTemplates(ctx context.Context, companyID string, asOf time.Time) ([]domain.EntryTemplate, error) {
	args := m.Called(ctx, companyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntryTemplate), args.Error(1)
}

func (m *MockTemplateRepo) ListCompaniesWithDueTemplates(ctx context.Context, asOf time.Time) ([]string, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTemplateRepo) AdvanceNextRunDateInTx(ctx context.Context, tx pgx.Tx, templateID string, next time.Time, actorID string, now time.Time) error {
	args := m.Called(ctx, tx, templateID, next, actorID, now)
	return args.Error(0)
}

// --- Mock TransactionManager ---

type MockTxManager struct {
	mock.Mock
}

var _ portsrepo.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock EntryTypeService ---

type MockEntryTypeSvc struct {
	mock.Mock
}

var _ portssvc.EntryTypeSvcFacade = (*MockEntryTypeSvc)(nil)

func (m *MockEntryTypeSvc) CreateEntryType(ctx context.Context, companyID string, req dto.CreateEntryTypeRequest, actorID string) (*domain.JournalEntryType, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntryType), args.Error(1)
}

func (m *MockEntryTypeSvc) GetEntryTypeByID(ctx context.Context, companyID, entryTypeID string) (*domain.JournalEntryType, error) {
	args := m.Called(ctx, companyID, entryTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntryType), args.Error(1)
}

func (m *MockEntryTypeSvc) ListEntryTypes(ctx context.Context, companyID string) ([]domain.JournalEntryType, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryType), args.Error(1)
}

func (m *MockEntryTypeSvc) ValidateEntryPolicy(ctx context.Context, companyID, entryTypeID string, lines []domain.JournalLine) (*domain.JournalEntryType, error) {
	args := m.Called(ctx, companyID, entryTypeID, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntryType), args.Error(1)
}

// --- Mock JournalService (for batch/recurring tests) ---

type MockJournalSvc struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalSvc)(nil)

func (m *MockJournalSvc) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalSvc) CreateEntryInTx(ctx context.Context, tx pgx.Tx, companyID string, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalSvc) GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalSvc) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func (m *MockJournalSvc) PostEntry(ctx context.Context, companyID, entryID string, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalSvc) PostEntryInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tx, companyID, entryID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalSvc) VoidEntry(ctx context.Context, companyID, entryID string, reason string, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalSvc) ReverseEntry(ctx context.Context, companyID, entryID string, req dto.ReverseEntryRequest, actorID string) (*dto.ReversalResult, error) {
	args := m.Called(ctx, companyID, entryID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReversalResult), args.Error(1)
}

func (m *MockJournalSvc) ReverseEntryInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, req dto.ReverseEntryRequest, actorID string) (*dto.ReversalResult, error) {
	args := m.Called(ctx, tx, companyID, entryID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReversalResult), args.Error(1)
}

func (m *MockJournalSvc) AdjustEntry(ctx context.Context, companyID, entryID string, req dto.AdjustEntryRequest, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalSvc) ListAuditForEntry(ctx context.Context, companyID, entryID string) ([]domain.AuditRecord, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditRecord), args.Error(1)
}

// --- Mock ApprovalService (for batch tests) ---

type MockApprovalSvc struct {
	mock.Mock
}

var _ portssvc.ApprovalSvcFacade = (*MockApprovalSvc)(nil)

func (m *MockApprovalSvc) RequestApproval(ctx context.Context, companyID, entryID string, req dto.RequestApprovalRequest, actorID string) (*dto.RequestApprovalResult, error) {
	args := m.Called(ctx, companyID, entryID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RequestApprovalResult), args.Error(1)
}

func (m *MockApprovalSvc) Approve(ctx context.Context, companyID, approvalID string, comments string, actorID string) (*dto.ApprovalResult, error) {
	args := m.Called(ctx, companyID, approvalID, comments, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ApprovalResult), args.Error(1)
}

func (m *MockApprovalSvc) Reject(ctx context.Context, companyID, approvalID string, comments string, actorID string) (*dto.ApprovalResult, error) {
	args := m.Called(ctx, companyID, approvalID, comments, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ApprovalResult), args.Error(1)
}

func (m *MockApprovalSvc) ApproveEntryInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, comments string, actorID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tx, companyID, entryID, comments, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockApprovalSvc) ListApprovalsForEntry(ctx context.Context, companyID, entryID string) ([]domain.EntryApproval, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntryApproval), args.Error(1)
}

// --- Mock ApprovalNotifier ---

type MockNotifier struct {
	mock.Mock
}

var _ portssvc.ApprovalNotifier = (*MockNotifier)(nil)

func (m *MockNotifier) NotifyApprovalRequested(ctx context.Context, entry domain.JournalEntry, approvals []domain.EntryApproval) error {
	args := m.Called(ctx, entry, approvals)
	return args.Error(0)
}

func (m *MockNotifier) NotifyApprovalResolved(ctx context.Context, entry domain.JournalEntry, approval domain.EntryApproval) error {
	args := m.Called(ctx, entry, approval)
	return args.Error(0)
}

// --- Mock InventoryAdjuster ---

type MockInventoryAdjuster struct {
	mock.Mock
}

var _ portssvc.InventoryAdjuster = (*MockInventoryAdjuster)(nil)

func (m *MockInventoryAdjuster) ReverseMovements(ctx context.Context, companyID, sourceID, actorID string) error {
	args := m.Called(ctx, companyID, sourceID, actorID)
	return args.Error(0)
}
