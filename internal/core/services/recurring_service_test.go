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

type RecurringServiceTestSuite struct {
	suite.Suite
	mockTemplateRepo *MockTemplateRepo
	mockTxManager    *MockTxManager
	mockJournalSvc   *MockJournalSvc
	service          portssvc.RecurringSvcFacade

	companyID string
	actorID   string
	tx        *stubTx
}

func (suite *RecurringServiceTestSuite) SetupTest() {
	suite.mockTemplateRepo = new(MockTemplateRepo)
	suite.mockTxManager = new(MockTxManager)
	suite.mockJournalSvc = new(MockJournalSvc)
	suite.service = services.NewRecurringService(suite.mockTemplateRepo, suite.mockTxManager, suite.mockJournalSvc)

	suite.companyID = uuid.NewString()
	suite.actorID = uuid.NewString()
	suite.tx = &stubTx{}
}

func (suite *RecurringServiceTestSuite) monthlyTemplate(scheduled time.Time) domain.EntryTemplate {
	return domain.EntryTemplate{
		TemplateID:  uuid.NewString(),
		CompanyID:   suite.companyID,
		Name:        "Office rent",
		IsRecurring: true,
		Frequency:   domain.Monthly,
		NextRunDate: &scheduled,
		IsActive:    true,
		Lines: []domain.TemplateLine{
			{TemplateLineID: uuid.NewString(), AccountID: uuid.NewString(), DebitFormula: "1500"},
			{TemplateLineID: uuid.NewString(), AccountID: uuid.NewString(), CreditFormula: "1500"},
		},
	}
}

func (suite *RecurringServiceTestSuite) TestProcessRecurring_MaterializesDueTemplate() {
	ctx := context.Background()
	asOf := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
	scheduled := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	template := suite.monthlyTemplate(scheduled)

	created := &domain.JournalEntry{
		EntryID:   uuid.NewString(),
		CompanyID: suite.companyID,
		Status:    domain.Posted,
		Reference: "JE-20250420-0001",
	}

	suite.mockTemplateRepo.On("FindDueTemplates", ctx, suite.companyID, asOf).Return([]domain.EntryTemplate{template}, nil).Once()
	suite.mockTxManager.On("Begin", mock.Anything).Return(suite.tx, nil).Once()
	suite.mockTxManager.On("Commit", mock.Anything, suite.tx).Return(nil).Once()
	suite.mockTxManager.On("Rollback", mock.Anything, suite.tx).Return(nil).Maybe()
	suite.mockJournalSvc.On("CreateEntryInTx", ctx, suite.tx, suite.companyID, mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
		return req.AutoPost &&
			req.Memo == "Office rent" &&
			len(req.Lines) == 2 &&
			req.Lines[0].Debit.Equal(decimal.NewFromInt(1500)) &&
			req.Lines[1].Credit.Equal(decimal.NewFromInt(1500))
	}), suite.actorID).Return(created, nil).Once()
	// Next run advances from the scheduled 15th, not the run date.
	expectedNext := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	suite.mockTemplateRepo.On("AdvanceNextRunDateInTx", ctx, suite.tx, template.TemplateID, expectedNext, suite.actorID, mock.Anything).Return(nil).Once()

	result, err := suite.service.ProcessRecurring(ctx, suite.companyID, asOf, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(result.Created, 1)
	suite.Empty(result.Errors)
	suite.mockTemplateRepo.AssertExpectations(suite.T())
	suite.mockJournalSvc.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestProcessRecurring_EvaluatesDateFormulas() {
	ctx := context.Background()
	// April has 30 days.
	asOf := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	scheduled := asOf
	template := suite.monthlyTemplate(scheduled)
	template.Lines[0].DebitFormula = "100 * days_in_month"
	template.Lines[1].CreditFormula = "100 * days_in_month"

	created := &domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted}

	suite.mockTemplateRepo.On("FindDueTemplates", ctx, suite.companyID, asOf).Return([]domain.EntryTemplate{template}, nil).Once()
	suite.mockTxManager.On("Begin", mock.Anything).Return(suite.tx, nil).Once()
	suite.mockTxManager.On("Commit", mock.Anything, suite.tx).Return(nil).Once()
	suite.mockTxManager.On("Rollback", mock.Anything, suite.tx).Return(nil).Maybe()
	suite.mockJournalSvc.On("CreateEntryInTx", ctx, suite.tx, suite.companyID, mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
		return req.Lines[0].Debit.Equal(decimal.NewFromInt(3000))
	}), suite.actorID).Return(created, nil).Once()
	suite.mockTemplateRepo.On("AdvanceNextRunDateInTx", ctx, suite.tx, template.TemplateID, mock.Anything, suite.actorID, mock.Anything).Return(nil).Once()

	result, err := suite.service.ProcessRecurring(ctx, suite.companyID, asOf, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(result.Created, 1)
}

func (suite *RecurringServiceTestSuite) TestProcessRecurring_BadTemplateDoesNotAbortRun() {
	ctx := context.Background()
	asOf := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	broken := suite.monthlyTemplate(asOf)
	broken.Lines[0].DebitFormula = "100 +"
	healthy := suite.monthlyTemplate(asOf)

	created := &domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Posted}

	suite.mockTemplateRepo.On("FindDueTemplates", ctx, suite.companyID, asOf).Return([]domain.EntryTemplate{broken, healthy}, nil).Once()
	// Only the healthy template reaches the transaction.
	suite.mockTxManager.On("Begin", mock.Anything).Return(suite.tx, nil).Once()
	suite.mockTxManager.On("Commit", mock.Anything, suite.tx).Return(nil).Once()
	suite.mockTxManager.On("Rollback", mock.Anything, suite.tx).Return(nil).Maybe()
	suite.mockJournalSvc.On("CreateEntryInTx", ctx, suite.tx, suite.companyID, mock.Anything, suite.actorID).Return(created, nil).Once()
	suite.mockTemplateRepo.On("AdvanceNextRunDateInTx", ctx, suite.tx, healthy.TemplateID, mock.Anything, suite.actorID, mock.Anything).Return(nil).Once()

	result, err := suite.service.ProcessRecurring(ctx, suite.companyID, asOf, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(result.Created, 1)
	suite.Require().Len(result.Errors, 1)
	suite.Equal(broken.TemplateID, result.Errors[0].TemplateID)
}

func (suite *RecurringServiceTestSuite) TestProcessRecurring_NothingDue() {
	ctx := context.Background()
	asOf := time.Now().UTC()

	suite.mockTemplateRepo.On("FindDueTemplates", ctx, suite.companyID, asOf).Return([]domain.EntryTemplate{}, nil).Once()

	result, err := suite.service.ProcessRecurring(ctx, suite.companyID, asOf, suite.actorID)

	suite.Require().NoError(err)
	suite.Empty(result.Created)
	suite.Empty(result.Errors)
	suite.mockTxManager.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestListDueCompanies() {
	ctx := context.Background()
	asOf := time.Now().UTC()
	companies := []string{uuid.NewString(), uuid.NewString()}

	suite.mockTemplateRepo.On("ListCompaniesWithDueTemplates", ctx, asOf).Return(companies, nil).Once()

	got, err := suite.service.ListDueCompanies(ctx, asOf)

	suite.Require().NoError(err)
	suite.Equal(companies, got)
}

func TestRecurringService(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}
