package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbooks/journal-engine/internal/core/domain"
	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/core/services"
	"github.com/finbooks/journal-engine/internal/dto"
)

type ApprovalServiceTestSuite struct {
	suite.Suite
	mockEntryRepo    *MockJournalEntryRepo
	mockApprovalRepo *MockApprovalRepo
	mockAuditRepo    *MockAuditRepo
	mockNotifier     *MockNotifier
	service          portssvc.ApprovalSvcFacade

	companyID string
	actorID   string
	tx        *stubTx
}

func (suite *ApprovalServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockJournalEntryRepo)
	suite.mockApprovalRepo = new(MockApprovalRepo)
	suite.mockAuditRepo = new(MockAuditRepo)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewApprovalService(
		suite.mockEntryRepo,
		suite.mockApprovalRepo,
		suite.mockAuditRepo,
		suite.mockNotifier,
		domain.ApproveAnyOne,
	)

	suite.companyID = uuid.NewString()
	suite.actorID = uuid.NewString()
	suite.tx = &stubTx{}
}

func (suite *ApprovalServiceTestSuite) expectTx() {
	suite.mockEntryRepo.On("Begin", mock.Anything).Return(suite.tx, nil).Once()
	suite.mockEntryRepo.On("Commit", mock.Anything, suite.tx).Return(nil).Once()
	suite.mockEntryRepo.On("Rollback", mock.Anything, suite.tx).Return(nil).Maybe()
}

func (suite *ApprovalServiceTestSuite) expectTxRollbackOnly() {
	suite.mockEntryRepo.On("Begin", mock.Anything).Return(suite.tx, nil).Once()
	suite.mockEntryRepo.On("Rollback", mock.Anything, suite.tx).Return(nil).Maybe()
}

func balancedLines(entryID string) []domain.JournalLine {
	return []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: uuid.NewString(), Debit: decimal.NewFromInt(40)},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: uuid.NewString(), Credit: decimal.NewFromInt(40)},
	}
}

func (suite *ApprovalServiceTestSuite) TestRequestApproval_FansOutToApprovers() {
	ctx := context.Background()
	entryID := uuid.NewString()
	draft := &domain.JournalEntry{EntryID: entryID, CompanyID: suite.companyID, Status: domain.Draft}
	approverA := uuid.NewString()
	approverB := uuid.NewString()

	suite.expectTx()
	suite.mockEntryRepo.On("FindEntryForUpdateInTx", ctx, suite.tx, suite.companyID, entryID).Return(draft, nil).Once()
	suite.mockApprovalRepo.On("SaveApprovalsInTx", ctx, suite.tx, mock.MatchedBy(func(approvals []domain.EntryApproval) bool {
		return len(approvals) == 2 &&
			approvals[0].ApproverID == approverA && approvals[1].ApproverID == approverB &&
			approvals[0].Status == domain.ApprovalPending
	})).Return(nil).Once()
	suite.mockEntryRepo.On("SetApprovalPolicyInTx", ctx, suite.tx, suite.companyID, entryID, domain.ApproveAllRequired, suite.actorID, mock.Anything).Return(nil).Once()
	suite.mockEntryRepo.On("UpdateEntryStatusInTx", ctx, suite.tx, suite.companyID, entryID, domain.PendingApproval, (*time.Time)(nil), (*string)(nil), suite.actorID, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("SaveAuditInTx", ctx, suite.tx, mock.MatchedBy(func(r domain.AuditRecord) bool {
		return r.Action == domain.AuditApprovalRequested && r.AfterStatus == domain.PendingApproval
	})).Return(nil).Once()
	suite.mockNotifier.On("NotifyApprovalRequested", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.RequestApproval(ctx, suite.companyID, entryID, dto.RequestApprovalRequest{
		ApproverIDs: []string{approverA, approverB},
		Policy:      "ALL_REQUIRED",
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("PENDING_APPROVAL", result.Entry.Status)
	suite.Len(result.Approvals, 2)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestRequestApproval_NonDraftRejected() {
	ctx := context.Background()
	entryID := uuid.NewString()
	posted := &domain.JournalEntry{EntryID: entryID, CompanyID: suite.companyID, Status: domain.Posted}

	suite.expectTxRollbackOnly()
	suite.mockEntryRepo.On("FindEntryForUpdateInTx", ctx, suite.tx, suite.companyID, entryID).Return(posted, nil).Once()

	_, err := suite.service.RequestApproval(ctx, suite.companyID, entryID, dto.RequestApprovalRequest{
		ApproverIDs: []string{uuid.NewString()},
	}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidStatus)
}

func (suite *ApprovalServiceTestSuite) TestApprove_AnyOnePostsAndCancelsSiblings() {
	ctx := context.Background()
	entryID := uuid.NewString()
	approvalID := uuid.NewString()
	approval := &domain.EntryApproval{
		ApprovalID: approvalID,
		EntryID:    entryID,
		CompanyID:  suite.companyID,
		Status:     domain.ApprovalPending,
	}
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		CompanyID:      suite.companyID,
		Status:         domain.PendingApproval,
		ApprovalPolicy: domain.ApproveAnyOne,
	}

	suite.expectTx()
	suite.mockApprovalRepo.On("FindApprovalForUpdateInTx", ctx, suite.tx, suite.companyID, approvalID).Return(approval, nil).Once()
	suite.mockEntryRepo.On("FindEntryForUpdateInTx", ctx, suite.tx, suite.companyID, entryID).Return(entry, nil).Once()
	suite.mockApprovalRepo.On("UpdateApprovalStatusInTx", ctx, suite.tx, approvalID, domain.ApprovalApproved, "looks right", suite.actorID, mock.Anything).Return(nil).Once()
	suite.mockApprovalRepo.On("CancelPendingByEntryIDInTx", ctx, suite.tx, entryID, approvalID, suite.actorID, mock.Anything).Return(nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryIDInTx", ctx, suite.tx, entryID).Return(balancedLines(entryID), nil).Once()
	suite.mockEntryRepo.On("UpdateEntryStatusInTx", ctx, suite.tx, suite.companyID, entryID, domain.Posted, mock.Anything, (*string)(nil), suite.actorID, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("SaveAuditInTx", ctx, suite.tx, mock.MatchedBy(func(r domain.AuditRecord) bool {
		return r.Action == domain.AuditApproved && r.AfterStatus == domain.Posted
	})).Return(nil).Once()
	suite.mockNotifier.On("NotifyApprovalResolved", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.Approve(ctx, suite.companyID, approvalID, "looks right", suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("APPROVED", result.Approval.Status)
	suite.Equal("POSTED", result.Entry.Status)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestApprove_AllRequiredWaitsForRemaining() {
	ctx := context.Background()
	entryID := uuid.NewString()
	approvalID := uuid.NewString()
	approval := &domain.EntryApproval{
		ApprovalID: approvalID,
		EntryID:    entryID,
		CompanyID:  suite.companyID,
		Status:     domain.ApprovalPending,
	}
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		CompanyID:      suite.companyID,
		Status:         domain.PendingApproval,
		ApprovalPolicy: domain.ApproveAllRequired,
	}
	remaining := []domain.EntryApproval{{ApprovalID: uuid.NewString(), EntryID: entryID, Status: domain.ApprovalPending}}

	suite.expectTx()
	suite.mockApprovalRepo.On("FindApprovalForUpdateInTx", ctx, suite.tx, suite.companyID, approvalID).Return(approval, nil).Once()
	suite.mockEntryRepo.On("FindEntryForUpdateInTx", ctx, suite.tx, suite.companyID, entryID).Return(entry, nil).Once()
	suite.mockApprovalRepo.On("UpdateApprovalStatusInTx", ctx, suite.tx, approvalID, domain.ApprovalApproved, "", suite.actorID, mock.Anything).Return(nil).Once()
	suite.mockApprovalRepo.On("FindPendingByEntryIDInTx", ctx, suite.tx, entryID).Return(remaining, nil).Once()
	suite.mockAuditRepo.On("SaveAuditInTx", ctx, suite.tx, mock.MatchedBy(func(r domain.AuditRecord) bool {
		return r.Action == domain.AuditApproved && r.AfterStatus == domain.PendingApproval
	})).Return(nil).Once()
	suite.mockNotifier.On("NotifyApprovalResolved", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.Approve(ctx, suite.companyID, approvalID, "", suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("PENDING_APPROVAL", result.Entry.Status)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "UpdateEntryStatusInTx",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestApprove_AllRequiredLastApprovalPosts() {
	ctx := context.Background()
	entryID := uuid.NewString()
	approvalID := uuid.NewString()
	approval := &domain.EntryApproval{
		ApprovalID: approvalID,
		EntryID:    entryID,
		CompanyID:  suite.companyID,
		Status:     domain.ApprovalPending,
	}
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		CompanyID:      suite.companyID,
		Status:         domain.PendingApproval,
		ApprovalPolicy: domain.ApproveAllRequired,
	}

	suite.expectTx()
	suite.mockApprovalRepo.On("FindApprovalForUpdateInTx", ctx, suite.tx, suite.companyID, approvalID).Return(approval, nil).Once()
	suite.mockEntryRepo.On("FindEntryForUpdateInTx", ctx, suite.tx, suite.companyID, entryID).Return(entry, nil).Once()
	suite.mockApprovalRepo.On("UpdateApprovalStatusInTx", ctx, suite.tx, approvalID, domain.ApprovalApproved, "", suite.actorID, mock.Anything).Return(nil).Once()
	suite.mockApprovalRepo.On("FindPendingByEntryIDInTx", ctx, suite.tx, entryID).Return([]domain.EntryApproval{}, nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryIDInTx", ctx, suite.tx, entryID).Return(balancedLines(entryID), nil).Once()
	suite.mockEntryRepo.On("UpdateEntryStatusInTx", ctx, suite.tx, suite.companyID, entryID, domain.Posted, mock.Anything, (*string)(nil), suite.actorID, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("SaveAuditInTx", ctx, suite.tx, mock.Anything).Return(nil).Once()
	suite.mockNotifier.On("NotifyApprovalResolved", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.Approve(ctx, suite.companyID, approvalID, "", suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("POSTED", result.Entry.Status)
	// No sibling cancellation under ALL_REQUIRED; every approval was resolved.
	suite.mockApprovalRepo.AssertNotCalled(suite.T(), "CancelPendingByEntryIDInTx",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestApprove_AlreadyResolvedRejected() {
	ctx := context.Background()
	approvalID := uuid.NewString()
	resolved := &domain.EntryApproval{
		ApprovalID: approvalID,
		CompanyID:  suite.companyID,
		Status:     domain.ApprovalApproved,
	}

	suite.expectTxRollbackOnly()
	suite.mockApprovalRepo.On("FindApprovalForUpdateInTx", ctx, suite.tx, suite.companyID, approvalID).Return(resolved, nil).Once()

	_, err := suite.service.Approve(ctx, suite.companyID, approvalID, "", suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyProcessed)
}

func (suite *ApprovalServiceTestSuite) TestApprove_UnbalancedEntryRefusesToPost() {
	ctx := context.Background()
	entryID := uuid.NewString()
	approvalID := uuid.NewString()
	approval := &domain.EntryApproval{
		ApprovalID: approvalID,
		EntryID:    entryID,
		CompanyID:  suite.companyID,
		Status:     domain.ApprovalPending,
	}
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		CompanyID:      suite.companyID,
		Status:         domain.PendingApproval,
		ApprovalPolicy: domain.ApproveAnyOne,
	}
	crookedLines := []domain.JournalLine{
		{EntryID: entryID, AccountID: uuid.NewString(), Debit: decimal.NewFromInt(40)},
		{EntryID: entryID, AccountID: uuid.NewString(), Credit: decimal.NewFromInt(35)},
	}

	suite.expectTxRollbackOnly()
	suite.mockApprovalRepo.On("FindApprovalForUpdateInTx", ctx, suite.tx, suite.companyID, approvalID).Return(approval, nil).Once()
	suite.mockEntryRepo.On("FindEntryForUpdateInTx", ctx, suite.tx, suite.companyID, entryID).Return(entry, nil).Once()
	suite.mockApprovalRepo.On("UpdateApprovalStatusInTx", ctx, suite.tx, approvalID, domain.ApprovalApproved, "", suite.actorID, mock.Anything).Return(nil).Once()
	suite.mockApprovalRepo.On("CancelPendingByEntryIDInTx", ctx, suite.tx, entryID, approvalID, suite.actorID, mock.Anything).Return(nil).Once()
	suite.mockEntryRepo.On("FindLinesByEntryIDInTx", ctx, suite.tx, entryID).Return(crookedLines, nil).Once()

	_, err := suite.service.Approve(ctx, suite.companyID, approvalID, "", suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrUnbalancedEntry)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestReject_ReturnsEntryToDraft() {
	ctx := context.Background()
	entryID := uuid.NewString()
	approvalID := uuid.NewString()
	approval := &domain.EntryApproval{
		ApprovalID: approvalID,
		EntryID:    entryID,
		CompanyID:  suite.companyID,
		Status:     domain.ApprovalPending,
	}
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		CompanyID:      suite.companyID,
		Status:         domain.PendingApproval,
		ApprovalPolicy: domain.ApproveAllRequired,
	}

	suite.expectTx()
	suite.mockApprovalRepo.On("FindApprovalForUpdateInTx", ctx, suite.tx, suite.companyID, approvalID).Return(approval, nil).Once()
	suite.mockEntryRepo.On("FindEntryForUpdateInTx", ctx, suite.tx, suite.companyID, entryID).Return(entry, nil).Once()
	suite.mockApprovalRepo.On("UpdateApprovalStatusInTx", ctx, suite.tx, approvalID, domain.ApprovalRejected, "amount looks wrong", suite.actorID, mock.Anything).Return(nil).Once()
	suite.mockApprovalRepo.On("CancelPendingByEntryIDInTx", ctx, suite.tx, entryID, approvalID, suite.actorID, mock.Anything).Return(nil).Once()
	suite.mockEntryRepo.On("UpdateEntryStatusInTx", ctx, suite.tx, suite.companyID, entryID, domain.Draft, (*time.Time)(nil), (*string)(nil), suite.actorID, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("SaveAuditInTx", ctx, suite.tx, mock.MatchedBy(func(r domain.AuditRecord) bool {
		return r.Action == domain.AuditRejected && r.AfterStatus == domain.Draft && r.Detail == "amount looks wrong"
	})).Return(nil).Once()
	suite.mockNotifier.On("NotifyApprovalResolved", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.Reject(ctx, suite.companyID, approvalID, "amount looks wrong", suite.actorID)

	suite.Require().NoError(err)
	suite.Equal("REJECTED", result.Approval.Status)
	suite.Equal("DRAFT", result.Entry.Status)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestApproveEntryInTx_ApprovesAllPending() {
	ctx := context.Background()
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		CompanyID:      suite.companyID,
		Status:         domain.PendingApproval,
		ApprovalPolicy: domain.ApproveAllRequired,
	}
	pending := []domain.EntryApproval{
		{ApprovalID: uuid.NewString(), EntryID: entryID, Status: domain.ApprovalPending},
		{ApprovalID: uuid.NewString(), EntryID: entryID, Status: domain.ApprovalPending},
	}

	suite.mockEntryRepo.On("FindEntryForUpdateInTx", ctx, suite.tx, suite.companyID, entryID).Return(entry, nil).Once()
	suite.mockApprovalRepo.On("FindPendingByEntryIDInTx", ctx, suite.tx, entryID).Return(pending, nil).Once()
	suite.mockApprovalRepo.On("UpdateApprovalStatusInTx", ctx, suite.tx, mock.Anything, domain.ApprovalApproved, "batch", suite.actorID, mock.Anything).Return(nil).Twice()
	suite.mockEntryRepo.On("FindLinesByEntryIDInTx", ctx, suite.tx, entryID).Return(balancedLines(entryID), nil).Once()
	suite.mockEntryRepo.On("UpdateEntryStatusInTx", ctx, suite.tx, suite.companyID, entryID, domain.Posted, mock.Anything, (*string)(nil), suite.actorID, mock.Anything).Return(nil).Once()
	suite.mockAuditRepo.On("SaveAuditInTx", ctx, suite.tx, mock.Anything).Return(nil).Once()

	result, err := suite.service.ApproveEntryInTx(ctx, suite.tx, suite.companyID, entryID, "batch", suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, result.Status)
	suite.mockApprovalRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestApproveEntryInTx_NoPendingApprovals() {
	ctx := context.Background()
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:   entryID,
		CompanyID: suite.companyID,
		Status:    domain.PendingApproval,
	}

	suite.mockEntryRepo.On("FindEntryForUpdateInTx", ctx, suite.tx, suite.companyID, entryID).Return(entry, nil).Once()
	suite.mockApprovalRepo.On("FindPendingByEntryIDInTx", ctx, suite.tx, entryID).Return([]domain.EntryApproval{}, nil).Once()

	_, err := suite.service.ApproveEntryInTx(ctx, suite.tx, suite.companyID, entryID, "", suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyProcessed)
}

func TestApprovalService(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}
