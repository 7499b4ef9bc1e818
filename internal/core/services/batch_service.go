package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	portsrepo "github.com/finbooks/journal-engine/internal/core/ports/repositories"
	portssvc "github.com/finbooks/journal-engine/internal/core/ports/services"
	"github.com/finbooks/journal-engine/internal/dto"
	"github.com/finbooks/journal-engine/internal/middleware"
)

// Per-operation batch size caps. Reversals are the heaviest items (extra
// entry, inventory dispatch), so they get the smallest cap.
const (
	BatchCreateLimit  = 100
	BatchApproveLimit = 50
	BatchPostLimit    = 50
	BatchReverseLimit = 25
)

// batchService runs bulk operations under one outer transaction with a
// savepoint per item. With stopOnError unset, failed items roll back to their
// savepoint while the rest commit; with it set, the first failure discards the
// whole batch.
type batchService struct {
	txManager   portsrepo.TransactionManager
	journalSvc  portssvc.JournalSvcFacade
	approvalSvc portssvc.ApprovalSvcFacade
}

// NewBatchService creates a new BatchService.
func NewBatchService(
	txManager portsrepo.TransactionManager,
	journalSvc portssvc.JournalSvcFacade,
	approvalSvc portssvc.ApprovalSvcFacade,
) portssvc.BatchSvcFacade {
	return &batchService{
		txManager:   txManager,
		journalSvc:  journalSvc,
		approvalSvc: approvalSvc,
	}
}

var _ portssvc.BatchSvcFacade = (*batchService)(nil)

// batchItem is one unit of work in a batch run. entryID is set when it is
// known upfront (approve/post/reverse) so failures can name the entry.
type batchItem struct {
	entryID string
	exec    func(ctx context.Context, tx pgx.Tx) (*dto.EntryResponse, error)
}

func checkBatchSize(op string, size, limit int) error {
	if size > limit {
		return fmt.Errorf("%w: %s accepts at most %d items, got %d", ErrBatchSizeExceeded, op, limit, size)
	}
	return nil
}

// run executes the items under one outer transaction. Item failures are
// demoted to result errors; only transaction plumbing failures surface as an
// error.
func (s *batchService) run(ctx context.Context, op string, items []batchItem, stopOnError bool) (*dto.BatchResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	start := time.Now()

	result := &dto.BatchResult{
		Success: make([]dto.EntryResponse, 0, len(items)),
		Errors:  []dto.BatchItemError{},
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = s.txManager.Rollback(ctx, tx) }()

	aborted := false
	for i, item := range items {
		// Begin on an open pgx.Tx creates a savepoint.
		sp, err := tx.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create savepoint: %w", err)
		}

		resp, err := item.exec(ctx, sp)
		if err != nil {
			_ = sp.Rollback(ctx)
			result.Errors = append(result.Errors, dto.BatchItemError{
				Index:   i,
				EntryID: item.entryID,
				Error:   err.Error(),
			})
			if stopOnError {
				result.Success = result.Success[:0]
				aborted = true
				break
			}
			continue
		}

		if err := sp.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to release savepoint: %w", err)
		}
		result.Success = append(result.Success, *resp)
	}

	if !aborted {
		if err := s.txManager.Commit(ctx, tx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
	}

	result.Summary = dto.BatchSummary{
		Total:            len(items),
		Successful:       len(result.Success),
		Failed:           len(result.Errors),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}

	logger.Info("Batch completed",
		slog.String("operation", op),
		slog.Int("total", result.Summary.Total),
		slog.Int("successful", result.Summary.Successful),
		slog.Int("failed", result.Summary.Failed),
		slog.Bool("aborted", aborted),
	)
	return result, nil
}

// BatchCreate creates up to BatchCreateLimit entries in one run.
func (s *batchService) BatchCreate(ctx context.Context, companyID string, req dto.BatchCreateRequest, actorID string) (*dto.BatchResult, error) {
	if err := checkBatchSize("batch create", len(req.Entries), BatchCreateLimit); err != nil {
		return nil, err
	}

	items := make([]batchItem, len(req.Entries))
	for i, entryReq := range req.Entries {
		entryReq := entryReq
		items[i] = batchItem{
			exec: func(ctx context.Context, tx pgx.Tx) (*dto.EntryResponse, error) {
				entry, err := s.journalSvc.CreateEntryInTx(ctx, tx, companyID, entryReq, actorID)
				if err != nil {
					return nil, err
				}
				resp := dto.ToEntryResponse(entry)
				return &resp, nil
			},
		}
	}
	return s.run(ctx, "create", items, req.Options.StopOnError)
}

// BatchApprove approves up to BatchApproveLimit pending entries by ID.
func (s *batchService) BatchApprove(ctx context.Context, companyID string, req dto.BatchEntryIDsRequest, actorID string) (*dto.BatchResult, error) {
	if err := checkBatchSize("batch approve", len(req.EntryIDs), BatchApproveLimit); err != nil {
		return nil, err
	}

	items := make([]batchItem, len(req.EntryIDs))
	for i, entryID := range req.EntryIDs {
		entryID := entryID
		items[i] = batchItem{
			entryID: entryID,
			exec: func(ctx context.Context, tx pgx.Tx) (*dto.EntryResponse, error) {
				entry, err := s.approvalSvc.ApproveEntryInTx(ctx, tx, companyID, entryID, req.Comments, actorID)
				if err != nil {
					return nil, err
				}
				resp := dto.ToEntryResponse(entry)
				return &resp, nil
			},
		}
	}
	return s.run(ctx, "approve", items, req.Options.StopOnError)
}

// BatchPost posts up to BatchPostLimit draft entries by ID.
func (s *batchService) BatchPost(ctx context.Context, companyID string, req dto.BatchEntryIDsRequest, actorID string) (*dto.BatchResult, error) {
	if err := checkBatchSize("batch post", len(req.EntryIDs), BatchPostLimit); err != nil {
		return nil, err
	}

	items := make([]batchItem, len(req.EntryIDs))
	for i, entryID := range req.EntryIDs {
		entryID := entryID
		items[i] = batchItem{
			entryID: entryID,
			exec: func(ctx context.Context, tx pgx.Tx) (*dto.EntryResponse, error) {
				entry, err := s.journalSvc.PostEntryInTx(ctx, tx, companyID, entryID, actorID)
				if err != nil {
					return nil, err
				}
				resp := dto.ToEntryResponse(entry)
				return &resp, nil
			},
		}
	}
	return s.run(ctx, "post", items, req.Options.StopOnError)
}

// BatchReverse reverses up to BatchReverseLimit posted entries by ID. The
// success list carries the new reversal entries.
func (s *batchService) BatchReverse(ctx context.Context, companyID string, req dto.BatchReverseRequest, actorID string) (*dto.BatchResult, error) {
	if err := checkBatchSize("batch reverse", len(req.EntryIDs), BatchReverseLimit); err != nil {
		return nil, err
	}

	items := make([]batchItem, len(req.EntryIDs))
	for i, entryID := range req.EntryIDs {
		entryID := entryID
		items[i] = batchItem{
			entryID: entryID,
			exec: func(ctx context.Context, tx pgx.Tx) (*dto.EntryResponse, error) {
				result, err := s.journalSvc.ReverseEntryInTx(ctx, tx, companyID, entryID, dto.ReverseEntryRequest{Reason: req.Reason}, actorID)
				if err != nil {
					return nil, err
				}
				return &result.Reversal, nil
			},
		}
	}
	return s.run(ctx, "reverse", items, req.Options.StopOnError)
}
