package domain

import "github.com/shopspring/decimal"

// JournalEntryType is a policy object constraining which accounts and what
// maximum combined amount a class of journal entries may use.
type JournalEntryType struct {
	EntryTypeID       string           `json:"entryTypeID"` // Primary Key (UUID)
	CompanyID         string           `json:"companyID"`
	Name              string           `json:"name"`
	Category          string           `json:"category"`
	RequiresApproval  bool             `json:"requiresApproval"`
	MaxAmount         *decimal.Decimal `json:"maxAmount,omitempty"`         // Nil means no cap
	AllowedAccountIDs []string         `json:"allowedAccountIDs,omitempty"` // Empty means no restriction
	AuditFields
}

// Allows reports whether the given account may appear on an entry of this type.
func (t JournalEntryType) Allows(accountID string) bool {
	if len(t.AllowedAccountIDs) == 0 {
		return true
	}
	for _, id := range t.AllowedAccountIDs {
		if id == accountID {
			return true
		}
	}
	return false
}
