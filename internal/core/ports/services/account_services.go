package services

import (
	"context"

	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/finbooks/journal-engine/internal/dto"
)

// AccountSvcFacade defines the account operations exposed to other services
// and the delivery layer.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, companyID string, params dto.ListAccountsParams) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, companyID, accountID string, actorID string) error
}
