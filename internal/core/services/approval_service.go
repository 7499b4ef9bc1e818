package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/finbooks/journal-engine/internal/core/domain"
	portsrepo "github.com/finbooks/journal-engine/internal/core/ports/repositories"
	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/dto"
	"github.com/finbooks/journal-engine/internal/middleware"
)

// approvalService implements the approval workflow gating the POSTED
// transition. Notification delivery is fire-and-forget: a notifier failure is
// logged and never affects the lifecycle outcome.
type approvalService struct {
	entryRepo     portsrepo.JournalEntryRepositoryWithTx
	approvalRepo  portsrepo.ApprovalRepositoryFacade
	auditRepo     portsrepo.AuditRepository
	notifier      portssvc.ApprovalNotifier // nil disables notifications
	defaultPolicy domain.ApprovalPolicy
}

// NewApprovalService creates a new ApprovalService. notifier may be nil;
// defaultPolicy applies when a request names none.
func NewApprovalService(
	entryRepo portsrepo.JournalEntryRepositoryWithTx,
	approvalRepo portsrepo.ApprovalRepositoryFacade,
	auditRepo portsrepo.AuditRepository,
	notifier portssvc.ApprovalNotifier,
	defaultPolicy domain.ApprovalPolicy,
) portssvc.ApprovalSvcFacade {
	if defaultPolicy == "" {
		defaultPolicy = domain.ApproveAnyOne
	}
	return &approvalService{
		entryRepo:     entryRepo,
		approvalRepo:  approvalRepo,
		auditRepo:     auditRepo,
		notifier:      notifier,
		defaultPolicy: defaultPolicy,
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// RequestApproval moves a draft entry to PENDING_APPROVAL, fanning the request
// out to one approval record per approver.
func (s *approvalService) RequestApproval(ctx context.Context, companyID, entryID string, req dto.RequestApprovalRequest, actorID string) (*dto.RequestApprovalResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	policy := s.defaultPolicy
	if req.Policy != "" {
		parsed, err := parseApprovalPolicy(req.Policy)
		if err != nil {
			return nil, err
		}
		policy = parsed
	}

	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.entryRepo.Rollback(ctx, tx) }()

	entry, err := s.entryRepo.FindEntryForUpdateInTx(ctx, tx, companyID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: cannot request approval for entry in status %s", ErrInvalidStatus, entry.Status)
	}

	now := time.Now().UTC()
	approvals := buildApprovals(entry, req.ApproverIDs, actorID, now)
	for i := range approvals {
		approvals[i].Comments = req.Comments
	}

	if err := s.approvalRepo.SaveApprovalsInTx(ctx, tx, approvals); err != nil {
		return nil, fmt.Errorf("failed to save approvals: %w", err)
	}
	if err := s.entryRepo.SetApprovalPolicyInTx(ctx, tx, companyID, entryID, policy, actorID, now); err != nil {
		return nil, fmt.Errorf("failed to set approval policy: %w", err)
	}
	if err := s.entryRepo.UpdateEntryStatusInTx(ctx, tx, companyID, entryID, domain.PendingApproval, nil, nil, actorID, now); err != nil {
		return nil, fmt.Errorf("failed to transition entry %s: %w", entryID, err)
	}

	if err := s.auditRepo.SaveAuditInTx(ctx, tx, domain.AuditRecord{
		AuditID:      uuid.NewString(),
		CompanyID:    companyID,
		EntryID:      entryID,
		ActorID:      actorID,
		Action:       domain.AuditApprovalRequested,
		BeforeStatus: domain.Draft,
		AfterStatus:  domain.PendingApproval,
		Detail:       fmt.Sprintf("policy %s, %d approver(s)", policy, len(approvals)),
		CreatedAt:    now,
	}); err != nil {
		return nil, fmt.Errorf("failed to write audit record: %w", err)
	}

	if err := s.entryRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	entry.Status = domain.PendingApproval
	entry.ApprovalPolicy = policy

	s.notifyRequested(ctx, *entry, approvals)

	logger.Info("Approval requested",
		slog.String("entry_id", entryID),
		slog.String("company_id", companyID),
		slog.String("policy", string(policy)),
		slog.Int("approvers", len(approvals)),
	)

	return &dto.RequestApprovalResult{
		Entry:     dto.ToEntryResponse(entry),
		Approvals: dto.ToApprovalResponses(approvals),
	}, nil
}

// Approve grants one approval. Under ANY_ONE the entry posts immediately and
// sibling approvals are cancelled; under ALL_REQUIRED it posts once the last
// pending approval resolves.
func (s *approvalService) Approve(ctx context.Context, companyID, approvalID string, comments string, actorID string) (*dto.ApprovalResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.entryRepo.Rollback(ctx, tx) }()

	approval, err := s.approvalRepo.FindApprovalForUpdateInTx(ctx, tx, companyID, approvalID)
	if err != nil {
		return nil, fmt.Errorf("failed to find approval %s: %w", approvalID, err)
	}
	if approval.Status != domain.ApprovalPending {
		return nil, fmt.Errorf("%w: approval is %s", ErrAlreadyProcessed, approval.Status)
	}

	entry, err := s.entryRepo.FindEntryForUpdateInTx(ctx, tx, companyID, approval.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", approval.EntryID, err)
	}
	if entry.Status != domain.PendingApproval {
		return nil, fmt.Errorf("%w: entry is %s", ErrInvalidStatus, entry.Status)
	}

	now := time.Now().UTC()
	if err := s.approvalRepo.UpdateApprovalStatusInTx(ctx, tx, approvalID, domain.ApprovalApproved, comments, actorID, now); err != nil {
		return nil, fmt.Errorf("failed to approve: %w", err)
	}

	shouldPost := true
	if entry.ApprovalPolicy == domain.ApproveAllRequired {
		pending, err := s.approvalRepo.FindPendingByEntryIDInTx(ctx, tx, entry.EntryID)
		if err != nil {
			return nil, fmt.Errorf("failed to check pending approvals: %w", err)
		}
		shouldPost = len(pending) == 0
	}

	if shouldPost {
		if entry.ApprovalPolicy != domain.ApproveAllRequired {
			if err := s.approvalRepo.CancelPendingByEntryIDInTx(ctx, tx, entry.EntryID, approvalID, actorID, now); err != nil {
				return nil, fmt.Errorf("failed to cancel sibling approvals: %w", err)
			}
		}
		if err := s.postApprovedEntryInTx(ctx, tx, entry, actorID, now); err != nil {
			return nil, err
		}
		entry.Status = domain.Posted
		entry.PostedAt = &now
	} else {
		if err := s.auditRepo.SaveAuditInTx(ctx, tx, domain.AuditRecord{
			AuditID:      uuid.NewString(),
			CompanyID:    companyID,
			EntryID:      entry.EntryID,
			ActorID:      actorID,
			Action:       domain.AuditApproved,
			BeforeStatus: domain.PendingApproval,
			AfterStatus:  domain.PendingApproval,
			Detail:       "awaiting remaining approvals",
			CreatedAt:    now,
		}); err != nil {
			return nil, fmt.Errorf("failed to write audit record: %w", err)
		}
	}

	if err := s.entryRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	approval.Status = domain.ApprovalApproved
	approval.Comments = comments
	approval.ResolvedAt = &now

	s.notifyResolved(ctx, *entry, *approval)

	logger.Info("Approval granted",
		slog.String("approval_id", approvalID),
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_status", string(entry.Status)),
	)

	return &dto.ApprovalResult{
		Approval: dto.ToApprovalResponse(approval),
		Entry:    dto.ToEntryResponse(entry),
	}, nil
}

// Reject denies an approval, cancels the remaining pending siblings and sends
// the entry back to DRAFT for correction.
func (s *approvalService) Reject(ctx context.Context, companyID, approvalID string, comments string, actorID string) (*dto.ApprovalResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.entryRepo.Rollback(ctx, tx) }()

	approval, err := s.approvalRepo.FindApprovalForUpdateInTx(ctx, tx, companyID, approvalID)
	if err != nil {
		return nil, fmt.Errorf("failed to find approval %s: %w", approvalID, err)
	}
	if approval.Status != domain.ApprovalPending {
		return nil, fmt.Errorf("%w: approval is %s", ErrAlreadyProcessed, approval.Status)
	}

	entry, err := s.entryRepo.FindEntryForUpdateInTx(ctx, tx, companyID, approval.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", approval.EntryID, err)
	}
	if entry.Status != domain.PendingApproval {
		return nil, fmt.Errorf("%w: entry is %s", ErrInvalidStatus, entry.Status)
	}

	now := time.Now().UTC()
	if err := s.approvalRepo.UpdateApprovalStatusInTx(ctx, tx, approvalID, domain.ApprovalRejected, comments, actorID, now); err != nil {
		return nil, fmt.Errorf("failed to reject: %w", err)
	}
	if err := s.approvalRepo.CancelPendingByEntryIDInTx(ctx, tx, entry.EntryID, approvalID, actorID, now); err != nil {
		return nil, fmt.Errorf("failed to cancel sibling approvals: %w", err)
	}
	if err := s.entryRepo.UpdateEntryStatusInTx(ctx, tx, companyID, entry.EntryID, domain.Draft, nil, nil, actorID, now); err != nil {
		return nil, fmt.Errorf("failed to transition entry %s: %w", entry.EntryID, err)
	}

	if err := s.auditRepo.SaveAuditInTx(ctx, tx, domain.AuditRecord{
		AuditID:      uuid.NewString(),
		CompanyID:    companyID,
		EntryID:      entry.EntryID,
		ActorID:      actorID,
		Action:       domain.AuditRejected,
		BeforeStatus: domain.PendingApproval,
		AfterStatus:  domain.Draft,
		Detail:       comments,
		CreatedAt:    now,
	}); err != nil {
		return nil, fmt.Errorf("failed to write audit record: %w", err)
	}

	if err := s.entryRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	approval.Status = domain.ApprovalRejected
	approval.Comments = comments
	approval.ResolvedAt = &now
	entry.Status = domain.Draft

	s.notifyResolved(ctx, *entry, *approval)

	logger.Info("Approval rejected",
		slog.String("approval_id", approvalID),
		slog.String("entry_id", entry.EntryID),
	)

	return &dto.ApprovalResult{
		Approval: dto.ToApprovalResponse(approval),
		Entry:    dto.ToEntryResponse(entry),
	}, nil
}

// ApproveEntryInTx approves every pending approval of an entry within a
// caller-owned transaction and posts it. The batch processor uses this to
// approve by entry ID under one outer transaction.
func (s *approvalService) ApproveEntryInTx(ctx context.Context, tx pgx.Tx, companyID, entryID string, comments string, actorID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryForUpdateInTx(ctx, tx, companyID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status != domain.PendingApproval {
		return nil, fmt.Errorf("%w: entry is %s", ErrInvalidStatus, entry.Status)
	}

	pending, err := s.approvalRepo.FindPendingByEntryIDInTx(ctx, tx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending approvals: %w", err)
	}
	if len(pending) == 0 {
		return nil, fmt.Errorf("%w: no pending approvals for entry %s", ErrAlreadyProcessed, entryID)
	}

	now := time.Now().UTC()
	for i := range pending {
		if err := s.approvalRepo.UpdateApprovalStatusInTx(ctx, tx, pending[i].ApprovalID, domain.ApprovalApproved, comments, actorID, now); err != nil {
			return nil, fmt.Errorf("failed to approve %s: %w", pending[i].ApprovalID, err)
		}
	}

	if err := s.postApprovedEntryInTx(ctx, tx, entry, actorID, now); err != nil {
		return nil, err
	}

	entry.Status = domain.Posted
	entry.PostedAt = &now
	return entry, nil
}

// postApprovedEntryInTx re-checks the balance invariant and transitions an
// approved entry to POSTED, writing the audit record.
func (s *approvalService) postApprovedEntryInTx(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry, actorID string, now time.Time) error {
	lines, err := s.entryRepo.FindLinesByEntryIDInTx(ctx, tx, entry.EntryID)
	if err != nil {
		return fmt.Errorf("failed to load lines of entry %s: %w", entry.EntryID, err)
	}
	if err := checkBalanced(lines); err != nil {
		return err
	}

	if err := s.entryRepo.UpdateEntryStatusInTx(ctx, tx, entry.CompanyID, entry.EntryID, domain.Posted, &now, nil, actorID, now); err != nil {
		return fmt.Errorf("failed to post entry %s: %w", entry.EntryID, err)
	}

	if err := s.auditRepo.SaveAuditInTx(ctx, tx, domain.AuditRecord{
		AuditID:      uuid.NewString(),
		CompanyID:    entry.CompanyID,
		EntryID:      entry.EntryID,
		ActorID:      actorID,
		Action:       domain.AuditApproved,
		BeforeStatus: domain.PendingApproval,
		AfterStatus:  domain.Posted,
		CreatedAt:    now,
	}); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// ListApprovalsForEntry returns every approval record of an entry.
func (s *approvalService) ListApprovalsForEntry(ctx context.Context, companyID, entryID string) ([]domain.EntryApproval, error) {
	if _, err := s.entryRepo.FindEntryByID(ctx, companyID, entryID); err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	approvals, err := s.approvalRepo.FindApprovalsByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}
	return approvals, nil
}

func (s *approvalService) notifyRequested(ctx context.Context, entry domain.JournalEntry, approvals []domain.EntryApproval) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyApprovalRequested(ctx, entry, approvals); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Approval request notification failed",
			slog.String("entry_id", entry.EntryID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *approvalService) notifyResolved(ctx context.Context, entry domain.JournalEntry, approval domain.EntryApproval) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyApprovalResolved(ctx, entry, approval); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Approval resolution notification failed",
			slog.String("entry_id", entry.EntryID),
			slog.String("approval_id", approval.ApprovalID),
			slog.String("error", err.Error()),
		)
	}
}
