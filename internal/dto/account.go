package dto

import (
	"time"

	"github.com/finbooks/journal-engine/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create an account.
type CreateAccountRequest struct {
	Code            string `json:"code" binding:"required"`
	Name            string `json:"name" binding:"required"`
	AccountType     string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID string `json:"parentAccountID"`
	Description     string `json:"description"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string    `json:"accountID"`
	CompanyID       string    `json:"companyID"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	AccountType     string    `json:"accountType"`
	ParentAccountID string    `json:"parentAccountID,omitempty"`
	Description     string    `json:"description,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ListAccountsParams holds parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// ToAccountResponse converts a domain Account to an AccountResponse DTO.
func ToAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       account.AccountID,
		CompanyID:       account.CompanyID,
		Code:            account.Code,
		Name:            account.Name,
		AccountType:     string(account.AccountType),
		ParentAccountID: account.ParentAccountID,
		Description:     account.Description,
		IsActive:        account.IsActive,
		CreatedAt:       account.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain Accounts to DTOs.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
