package models

import "github.com/shopspring/decimal"

// JournalEntryType is the database row shape for entry type policies.
// AllowedAccountIDs is stored as a text[] column.
type JournalEntryType struct {
	EntryTypeID       string           `db:"entry_type_id"`
	CompanyID         string           `db:"company_id"`
	Name              string           `db:"name"`
	Category          string           `db:"category"`
	RequiresApproval  bool             `db:"requires_approval"`
	MaxAmount         *decimal.Decimal `db:"max_amount"` // Nullable
	AllowedAccountIDs []string         `db:"allowed_account_ids"`
	AuditFields
}
