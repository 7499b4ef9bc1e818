package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/finbooks/journal-engine/internal/apperrors"
	"github.com/finbooks/journal-engine/internal/core/domain"
	portsrepo "github.com/finbooks/journal-engine/internal/core/ports/repositories"
	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/dto"
	"github.com/finbooks/journal-engine/internal/middleware"
	"github.com/finbooks/journal-engine/internal/utils/accounting"
)

const (
	// maxReferenceRetries bounds how often entry creation retries after a
	// generated reference lost a race on the (company_id, reference) index.
	maxReferenceRetries = 3

	defaultListLimit = 20
	maxListLimit     = 100
)

// journalService implements the journal entry lifecycle: creation, posting,
// voiding, reversal and adjustment. All writes run inside transactions; the
// InTx variants let the batch processor share one outer transaction.
type journalService struct {
	entryRepo    portsrepo.JournalEntryRepositoryWithTx
	accountRepo  portsrepo.AccountRepositoryFacade
	approvalRepo portsrepo.ApprovalRepositoryFacade
	auditRepo    portsrepo.AuditRepository
	entryTypeSvc portssvc.EntryTypeSvcFacade
	inventory    portssvc.InventoryAdjuster // nil when no inventory subsystem is wired
}

// NewJournalService creates a new JournalService. inventory may be nil.
func NewJournalService(
	entryRepo portsrepo.JournalEntryRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	approvalRepo portsrepo.ApprovalRepositoryFacade,
	auditRepo portsrepo.AuditRepository,
	entryTypeSvc portssvc.EntryTypeSvcFacade,
	inventory portssvc.InventoryAdjuster,
) portssvc.JournalSvcFacade {
	return &journalService{
		entryRepo:    entryRepo,
		accountRepo:  accountRepo,
		approvalRepo: approvalRepo,
		auditRepo:    auditRepo,
		entryTypeSvc: entryTypeSvc,
		inventory:    inventory,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines materializes request lines into domain lines owned by entryID.
func buildLines(entryID string, reqs []dto.CreateLineRequest, actorID string, now time.Time) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqs))
	for i, req := range reqs {
		lines[i] = domain.JournalLine{
			LineID:     uuid.NewString(),
			EntryID:    entryID,
			AccountID:  req.AccountID,
			Debit:      req.Debit,
			Credit:     req.Credit,
			Memo:       req.Memo,
			Department: req.Department,
			Project:    req.Project,
			Location:   req.Location,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}
	return lines
}

// validateLines enforces the structural rules every entry must satisfy before
// any policy or balance checks: at least two lines touching at least two
// distinct accounts, non-negative amounts, no amountless lines.
func validateLines(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return ErrEntryMinLines
	}
	accounts := make(map[string]struct{}, len(lines))
	for i := range lines {
		line := &lines[i]
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d", ErrNegativeAmount, i)
		}
		if line.Debit.IsZero() && line.Credit.IsZero() {
			return fmt.Errorf("%w: line %d carries neither a debit nor a credit", apperrors.ErrValidation, i)
		}
		accounts[line.AccountID] = struct{}{}
	}
	if len(accounts) < 2 {
		return ErrEntryMinAccounts
	}
	return nil
}

func checkBalanced(lines []domain.JournalLine) error {
	if accounting.IsBalanced(lines) {
		return nil
	}
	totalDebit, totalCredit := accounting.Totals(lines)
	return fmt.Errorf("%w: debits %s, credits %s",
		ErrUnbalancedEntry, totalDebit.StringFixed(2), totalCredit.StringFixed(2))
}

// checkAccounts verifies every referenced account exists and is active within
// the company scope.
func (s *journalService) checkAccounts(ctx context.Context, companyID string, lines []domain.JournalLine) error {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for i := range lines {
		if _, ok := seen[lines[i].AccountID]; ok {
			continue
		}
		seen[lines[i].AccountID] = struct{}{}
		ids = append(ids, lines[i].AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, ids)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	for _, id := range ids {
		account, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, id)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}
	return nil
}

// generateReferenceInTx produces the next JE-YYYYMMDD-NNNN reference for the
// company and entry date. The unique index on (company_id, reference) is the
// real arbiter under concurrency; callers retry on a duplicate.
func (s *journalService) generateReferenceInTx(ctx context.Context, tx pgx.Tx, companyID string, entryDate time.Time) (string, error) {
	prefix := "JE-" + entryDate.Format("20060102")
	seq, err := s.entryRepo.MaxReferenceSequenceInTx(ctx, tx, companyID, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to compute reference sequence: %w", err)
	}
	return fmt.Sprintf("%s-%04d", prefix, seq+1), nil
}

func parseApprovalPolicy(raw string) (domain.ApprovalPolicy, error) {
	switch domain.ApprovalPolicy(raw) {
	case "":
		return domain.ApproveAnyOne, nil
	case domain.ApproveAnyOne:
		return domain.ApproveAnyOne, nil
	case domain.ApproveAllRequired:
		return domain.ApproveAllRequired, nil
	}
	return "", fmt.Errorf("%w: unknown approval policy %q", apperrors.ErrValidation, raw)
}

// CreateEntry creates a journal entry in its own transaction. When the
// reference was generated rather than supplied, a lost race on the uniqueness
// index is retried with a freshly generated reference.
func (s *journalService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	attempts := 1
	if req.Reference == "" {
		attempts = maxReferenceRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		entry, err := s.createEntryTx(ctx, companyID, req, actorID)
		if err == nil {
			return entry, nil
		}
		if req.Reference != "" || !errors.Is(err, ErrDuplicateReference) {
			return nil, err
		}
		lastErr = err
		logger.Warn("Generated reference collided, retrying",
			slog.String("company_id", companyID),
			slog.Int("attempt", attempt+1),
		)
	}
	return nil, lastErr
}

func (s *journalService) createEntryTx(ctx context.Context, companyID string, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error) {
	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.entryRepo.Rollback(ctx, tx) }()

	entry, err := s.CreateEntryInTx(ctx, tx, companyID, req, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return entry, nil
}

// CreateEntryInTx validates and persists a new entry within a caller-owned
// transaction. Depending on the request and the entry type's policy the entry
// lands in DRAFT, PENDING_APPROVAL (approval fan-out written too) or POSTED
// (autoPost).
func (s *journalService) CreateEntryInTx(ctx context.Context, tx pgx.Tx, companyID string, req dto.CreateEntryRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.AutoPost && req.SubmitForApproval {
		return nil, fmt.Errorf("%w: autoPost and submitForApproval are mutually exclusive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	lines := buildLines(entryID, req.Lines, actorID, now)

	if err := validateLines(lines); err != nil {
		return nil, err
	}
	if err := checkBalanced(lines); err != nil {
		return nil, err
	}
	if err := s.checkAccounts(ctx, companyID, lines); err != nil {
		return nil, err
	}

	submitForApproval := req.SubmitForApproval
	if req.EntryTypeID != nil {
		entryType, err := s.entryTypeSvc.ValidateEntryPolicy(ctx, companyID, *req.EntryTypeID, lines)
		if err != nil {
			return nil, err
		}
		if entryType.RequiresApproval {
			if req.AutoPost {
				return nil, fmt.Errorf("%w: entry type %s requires approval and cannot auto-post", ErrInvalidStatus, entryType.Name)
			}
			// The entry type's policy routes the entry into approval even when
			// the caller did not ask for it.
			submitForApproval = true
		}
	}

	status := domain.Draft
	var postedAt *time.Time
	var policy domain.ApprovalPolicy
	if req.AutoPost {
		status = domain.Posted
		postedAt = &now
	} else if submitForApproval {
		parsed, err := parseApprovalPolicy(req.ApprovalPolicy)
		if err != nil {
			return nil, err
		}
		status = domain.PendingApproval
		policy = parsed
	}

	reference := req.Reference
	if reference == "" {
		generated, err := s.generateReferenceInTx(ctx, tx, companyID, req.Date)
		if err != nil {
			return nil, err
		}
		reference = generated
	} else {
		taken, err := s.entryRepo.ReferenceExistsInTx(ctx, tx, companyID, reference)
		if err != nil {
			return nil, fmt.Errorf("failed to check reference: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateReference, reference)
		}
	}

	entry := domain.JournalEntry{
		EntryID:        entryID,
		CompanyID:      companyID,
		EntryDate:      req.Date,
		Memo:           req.Memo,
		Reference:      reference,
		Status:         status,
		EntryTypeID:    req.EntryTypeID,
		ApprovalPolicy: policy,
		SourceDomain:   req.SourceDomain,
		SourceID:       req.SourceID,
		PostedAt:       postedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.entryRepo.SaveEntryInTx(ctx, tx, entry, lines); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateReference, reference)
		}
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	if status == domain.PendingApproval {
		approvals := buildApprovals(&entry, req.ApproverIDs, actorID, now)
		if err := s.approvalRepo.SaveApprovalsInTx(ctx, tx, approvals); err != nil {
			return nil, fmt.Errorf("failed to save approvals: %w", err)
		}
	}

	if err := s.auditRepo.SaveAuditInTx(ctx, tx, domain.AuditRecord{
		AuditID:     uuid.NewString(),
		CompanyID:   companyID,
		EntryID:     entryID,
		ActorID:     actorID,
		Action:      domain.AuditCreated,
		AfterStatus: status,
		Detail:      reference,
		CreatedAt:   now,
	}); err != nil {
		return nil, fmt.Errorf("failed to write audit record: %w", err)
	}

	logger.Info("Journal entry created",
		slog.String("entry_id", entryID),
		slog.String("company_id", companyID),
		slog.String("reference", reference),
		slog.String("status", string(status)),
	)

	entry.Lines = lines
	return &entry, nil
}

// buildApprovals fans a request out to one approval record per approver. An
// empty approver list yields a single open record any approver may resolve.
func buildApprovals(entry *domain.JournalEntry, approverIDs []string, requesterID string, now time.Time) []domain.EntryApproval {
	if len(approverIDs) == 0 {
		approverIDs = []string{""}
	}
	approvals := make([]domain.EntryApproval, len(approverIDs))
	for i, approverID := range approverIDs {
		approvals[i] = domain.EntryApproval{
			ApprovalID:  uuid.NewString(),
			EntryID:     entry.EntryID,
			CompanyID:   entry.CompanyID,
			RequesterID: requesterID,
			ApproverID:  approverID,
			Status:      domain.ApprovalPending,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     requesterID,
				LastUpdatedAt: now,
				LastUpdatedBy: requesterID,
			},
		}
	}
	return approvals
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines of entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a token-paginated listing, optionally with lines.
func (s *journalService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	entries, nextToken, err := s.entryRepo.ListEntries(ctx, companyID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	if params.IncludeLines {
		for i := range entries {
			lines, err := s.entryRepo.FindLinesByEntryID(ctx, entries[i].EntryID)
			if err != nil {
				return nil, fmt.Errorf("failed to load lines of entry %s: %w", entries[i].EntryID, err)
			}
			entries[i].Lines = lines
		}
	}

	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// PostEntry transitions a draft entry to POSTED in its own transaction.
func (s *journalService) PostEntry(ctx context.Context, companyID, entryID string, actorID string) (*domain.JournalEntry, error) {
	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.entryRepo.Rollback(ctx, tx) }()

	entry, err := s.PostEntryInTx(ctx, tx, companyID, entryID, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return entry, nil
}

// PostEntryInTx posts a draft entry within a caller-owned transaction. The
// balance invariant is re-checked against the stored lines at the transition,
// not only at creation.
func (s *journalService) PostEntryInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryForUpdateInTx(ctx, tx, companyID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: cannot post entry in status %s", ErrInvalidStatus, entry.Status)
	}

	if entry.EntryTypeID != nil {
		entryType, err := s.entryTypeSvc.GetEntryTypeByID(ctx, companyID, *entry.EntryTypeID)
		if err != nil {
			return nil, err
		}
		if entryType.RequiresApproval {
			return nil, fmt.Errorf("%w: entry type %s requires approval before posting", ErrInvalidStatus, entryType.Name)
		}
	}

	lines, err := s.entryRepo.FindLinesByEntryIDInTx(ctx, tx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines of entry %s: %w", entryID, err)
	}
	if err := checkBalanced(lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.entryRepo.UpdateEntryStatusInTx(ctx, tx, companyID, entryID, domain.Posted, &now, nil, actorID, now); err != nil {
		return nil, fmt.Errorf("failed to post entry %s: %w", entryID, err)
	}

	if err := s.auditRepo.SaveAuditInTx(ctx, tx, domain.AuditRecord{
		AuditID:      uuid.NewString(),
		CompanyID:    companyID,
		EntryID:      entryID,
		ActorID:      actorID,
		Action:       domain.AuditPosted,
		BeforeStatus: domain.Draft,
		AfterStatus:  domain.Posted,
		CreatedAt:    now,
	}); err != nil {
		return nil, fmt.Errorf("failed to write audit record: %w", err)
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entryID), slog.String("company_id", companyID))

	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.Lines = lines
	return entry, nil
}

// VoidEntry discards a DRAFT or PENDING_APPROVAL entry. Posted entries can
// never be voided; they are corrected by reversal.
func (s *journalService) VoidEntry(ctx context.Context, companyID, entryID string, reason string, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.entryRepo.Rollback(ctx, tx) }()

	entry, err := s.entryRepo.FindEntryForUpdateInTx(ctx, tx, companyID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status != domain.Draft && entry.Status != domain.PendingApproval {
		return nil, fmt.Errorf("%w: cannot void entry in status %s", ErrInvalidStatus, entry.Status)
	}

	now := time.Now().UTC()
	if entry.Status == domain.PendingApproval {
		if err := s.approvalRepo.CancelPendingByEntryIDInTx(ctx, tx, entryID, "", actorID, now); err != nil {
			return nil, fmt.Errorf("failed to cancel pending approvals: %w", err)
		}
	}

	before := entry.Status
	if err := s.entryRepo.UpdateEntryStatusInTx(ctx, tx, companyID, entryID, domain.Voided, nil, nil, actorID, now); err != nil {
		return nil, fmt.Errorf("failed to void entry %s: %w", entryID, err)
	}

	if err := s.auditRepo.SaveAuditInTx(ctx, tx, domain.AuditRecord{
		AuditID:      uuid.NewString(),
		CompanyID:    companyID,
		EntryID:      entryID,
		ActorID:      actorID,
		Action:       domain.AuditVoided,
		BeforeStatus: before,
		AfterStatus:  domain.Voided,
		Detail:       reason,
		CreatedAt:    now,
	}); err != nil {
		return nil, fmt.Errorf("failed to write audit record: %w", err)
	}

	if err := s.entryRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Journal entry voided",
		slog.String("entry_id", entryID),
		slog.String("company_id", companyID),
		slog.String("reason", reason),
	)

	entry.Status = domain.Voided
	return entry, nil
}

// ReverseEntry reverses a posted entry in its own transaction.
func (s *journalService) ReverseEntry(ctx context.Context, companyID, entryID string, req dto.ReverseEntryRequest, actorID string) (*dto.ReversalResult, error) {
	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.entryRepo.Rollback(ctx, tx) }()

	result, err := s.ReverseEntryInTx(ctx, tx, companyID, entryID, req, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}

// ReverseEntryInTx creates a posted mirror entry with every line's debit and
// credit swapped, links the pair and marks the original REVERSED. Entries that
// originated from an inventory movement also trigger the inventory port.
func (s *journalService) ReverseEntryInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, req dto.ReverseEntryRequest, actorID string) (*dto.ReversalResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.entryRepo.FindEntryForUpdateInTx(ctx, tx, companyID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: entry is %s", ErrInvalidStatusForReversal, original.Status)
	}
	if original.OriginalEntryID != nil {
		return nil, fmt.Errorf("%w: cannot reverse an entry that offsets another entry", ErrInvalidStatusForReversal)
	}

	originalLines, err := s.entryRepo.FindLinesByEntryIDInTx(ctx, tx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines of entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	reverseDate := original.EntryDate
	if req.ReverseDate != nil {
		reverseDate = *req.ReverseDate
	}

	reversal := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		CompanyID:       companyID,
		EntryDate:       reverseDate,
		Memo:            fmt.Sprintf("Reversal of %s: %s", original.Reference, req.Reason),
		Reference:       "REV-" + original.Reference,
		Status:          domain.Posted,
		EntryTypeID:     original.EntryTypeID,
		SourceDomain:    original.SourceDomain,
		SourceID:        original.SourceID,
		OriginalEntryID: &original.EntryID,
		PostedAt:        &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	reversalLines := make([]domain.JournalLine, len(originalLines))
	for i, line := range originalLines {
		reversalLines[i] = domain.JournalLine{
			LineID:     uuid.NewString(),
			EntryID:    reversal.EntryID,
			AccountID:  line.AccountID,
			Debit:      line.Credit,
			Credit:     line.Debit,
			Memo:       line.Memo,
			Department: line.Department,
			Project:    line.Project,
			Location:   line.Location,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}

	if err := s.entryRepo.SaveEntryInTx(ctx, tx, reversal, reversalLines); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateReference, reversal.Reference)
		}
		return nil, fmt.Errorf("failed to save reversal entry: %w", err)
	}

	if original.SourceDomain == domain.SourceDomainInventory && original.SourceID != "" {
		if s.inventory == nil {
			logger.Warn("Entry originates from inventory but no inventory adjuster is wired",
				slog.String("entry_id", entryID),
				slog.String("source_id", original.SourceID),
			)
		} else if err := s.inventory.ReverseMovements(ctx, companyID, original.SourceID, actorID); err != nil {
			return nil, fmt.Errorf("failed to reverse inventory movements for source %s: %w", original.SourceID, err)
		}
	}

	if err := s.entryRepo.UpdateEntryStatusInTx(ctx, tx, companyID, entryID, domain.Reversed, nil, &reversal.EntryID, actorID, now); err != nil {
		return nil, fmt.Errorf("failed to mark entry %s reversed: %w", entryID, err)
	}

	if err := s.auditRepo.SaveAuditInTx(ctx, tx, domain.AuditRecord{
		AuditID:      uuid.NewString(),
		CompanyID:    companyID,
		EntryID:      entryID,
		ActorID:      actorID,
		Action:       domain.AuditReversed,
		BeforeStatus: domain.Posted,
		AfterStatus:  domain.Reversed,
		Detail:       fmt.Sprintf("%s: %s", reversal.Reference, req.Reason),
		CreatedAt:    now,
	}); err != nil {
		return nil, fmt.Errorf("failed to write audit record: %w", err)
	}
	if err := s.auditRepo.SaveAuditInTx(ctx, tx, domain.AuditRecord{
		AuditID:     uuid.NewString(),
		CompanyID:   companyID,
		EntryID:     reversal.EntryID,
		ActorID:     actorID,
		Action:      domain.AuditCreated,
		AfterStatus: domain.Posted,
		Detail:      fmt.Sprintf("reverses %s", original.Reference),
		CreatedAt:   now,
	}); err != nil {
		return nil, fmt.Errorf("failed to write audit record: %w", err)
	}

	logger.Info("Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversal_entry_id", reversal.EntryID),
		slog.String("company_id", companyID),
	)

	original.Status = domain.Reversed
	original.ReversingEntryID = &reversal.EntryID
	original.Lines = originalLines
	reversal.Lines = reversalLines

	return &dto.ReversalResult{
		Original: dto.ToEntryResponse(original),
		Reversal: dto.ToEntryResponse(&reversal),
	}, nil
}

// AdjustEntry records a correcting entry against a posted original. The
// original stays POSTED and untouched; the adjustment is itself a posted,
// balanced entry linked back through OriginalEntryID.
func (s *journalService) AdjustEntry(ctx context.Context, companyID, entryID string, req dto.AdjustEntryRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.entryRepo.Rollback(ctx, tx) }()

	original, err := s.entryRepo.FindEntryForUpdateInTx(ctx, tx, companyID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: only posted entries can be adjusted, entry is %s", ErrInvalidStatusForReversal, original.Status)
	}

	now := time.Now().UTC()
	adjustmentID := uuid.NewString()
	lines := buildLines(adjustmentID, req.Adjustments, actorID, now)

	if err := validateLines(lines); err != nil {
		return nil, err
	}
	if err := checkBalanced(lines); err != nil {
		return nil, err
	}
	if err := s.checkAccounts(ctx, companyID, lines); err != nil {
		return nil, err
	}
	if original.EntryTypeID != nil {
		if _, err := s.entryTypeSvc.ValidateEntryPolicy(ctx, companyID, *original.EntryTypeID, lines); err != nil {
			return nil, err
		}
	}

	reference, err := s.generateReferenceInTx(ctx, tx, companyID, now)
	if err != nil {
		return nil, err
	}

	adjustment := domain.JournalEntry{
		EntryID:         adjustmentID,
		CompanyID:       companyID,
		EntryDate:       now,
		Memo:            fmt.Sprintf("Adjustment of %s: %s", original.Reference, req.Reason),
		Reference:       reference,
		Status:          domain.Posted,
		EntryTypeID:     original.EntryTypeID,
		OriginalEntryID: &original.EntryID,
		PostedAt:        &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.entryRepo.SaveEntryInTx(ctx, tx, adjustment, lines); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateReference, reference)
		}
		return nil, fmt.Errorf("failed to save adjustment entry: %w", err)
	}

	if err := s.auditRepo.SaveAuditInTx(ctx, tx, domain.AuditRecord{
		AuditID:      uuid.NewString(),
		CompanyID:    companyID,
		EntryID:      entryID,
		ActorID:      actorID,
		Action:       domain.AuditAdjusted,
		BeforeStatus: domain.Posted,
		AfterStatus:  domain.Posted,
		Detail:       fmt.Sprintf("%s: %s", reference, req.Reason),
		CreatedAt:    now,
	}); err != nil {
		return nil, fmt.Errorf("failed to write audit record: %w", err)
	}
	if err := s.auditRepo.SaveAuditInTx(ctx, tx, domain.AuditRecord{
		AuditID:     uuid.NewString(),
		CompanyID:   companyID,
		EntryID:     adjustmentID,
		ActorID:     actorID,
		Action:      domain.AuditCreated,
		AfterStatus: domain.Posted,
		Detail:      fmt.Sprintf("adjusts %s", original.Reference),
		CreatedAt:   now,
	}); err != nil {
		return nil, fmt.Errorf("failed to write audit record: %w", err)
	}

	if err := s.entryRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("Adjustment entry created",
		slog.String("entry_id", entryID),
		slog.String("adjustment_entry_id", adjustmentID),
		slog.String("company_id", companyID),
	)

	adjustment.Lines = lines
	return &adjustment, nil
}

// ListAuditForEntry returns the audit trail of an entry, oldest first.
func (s *journalService) ListAuditForEntry(ctx context.Context, companyID, entryID string) ([]domain.AuditRecord, error) {
	if _, err := s.entryRepo.FindEntryByID(ctx, companyID, entryID); err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	records, err := s.auditRepo.ListAuditByEntryID(ctx, companyID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	return records, nil
}
