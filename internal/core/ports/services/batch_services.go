package services

import (
	"context"

	"github.com/finbooks/journal-engine/internal/dto"
)

// BatchSvcFacade defines bulk operations over entries. All batch calls run
// under one outer transaction; per-item isolation is controlled by
// options.stopOnError.
type BatchSvcFacade interface {
	BatchCreate(ctx context.Context, companyID string, req dto.BatchCreateRequest, actorID string) (*dto.BatchResult, error)
	BatchApprove(ctx context.Context, companyID string, req dto.BatchEntryIDsRequest, actorID string) (*dto.BatchResult, error)
	BatchPost(ctx context.Context, companyID string, req dto.BatchEntryIDsRequest, actorID string) (*dto.BatchResult, error)
	BatchReverse(ctx context.Context, companyID string, req dto.BatchReverseRequest, actorID string) (*dto.BatchResult, error)
}
