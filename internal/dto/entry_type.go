package dto

import (
	"time"

	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryTypeRequest defines the data needed to create an entry type policy.
type CreateEntryTypeRequest struct {
	Name              string           `json:"name" binding:"required"`
	Category          string           `json:"category"`
	RequiresApproval  bool             `json:"requiresApproval"`
	MaxAmount         *decimal.Decimal `json:"maxAmount"`
	AllowedAccountIDs []string         `json:"allowedAccountIDs"`
}

// EntryTypeResponse defines the data returned for an entry type.
type EntryTypeResponse struct {
	EntryTypeID       string           `json:"entryTypeID"`
	CompanyID         string           `json:"companyID"`
	Name              string           `json:"name"`
	Category          string           `json:"category,omitempty"`
	RequiresApproval  bool             `json:"requiresApproval"`
	MaxAmount         *decimal.Decimal `json:"maxAmount,omitempty"`
	AllowedAccountIDs []string         `json:"allowedAccountIDs,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// ToEntryTypeResponse converts a domain JournalEntryType to a DTO.
func ToEntryTypeResponse(entryType *domain.JournalEntryType) EntryTypeResponse {
	return EntryTypeResponse{
		EntryTypeID:       entryType.EntryTypeID,
		CompanyID:         entryType.CompanyID,
		Name:              entryType.Name,
		Category:          entryType.Category,
		RequiresApproval:  entryType.RequiresApproval,
		MaxAmount:         entryType.MaxAmount,
		AllowedAccountIDs: entryType.AllowedAccountIDs,
		CreatedAt:         entryType.CreatedAt,
	}
}

// ToEntryTypeResponses converts a slice of domain JournalEntryTypes to DTOs.
func ToEntryTypeResponses(entryTypes []domain.JournalEntryType) []EntryTypeResponse {
	responses := make([]EntryTypeResponse, len(entryTypes))
	for i := range entryTypes {
		responses[i] = ToEntryTypeResponse(&entryTypes[i])
	}
	return responses
}
