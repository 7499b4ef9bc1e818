package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry row.
type EntryStatus string

const (
	Draft           EntryStatus = "DRAFT"
	PendingApproval EntryStatus = "PENDING_APPROVAL"
	Posted          EntryStatus = "POSTED"
	Reversed        EntryStatus = "REVERSED"
	Voided          EntryStatus = "VOIDED"
)

// JournalEntry is the database row shape for journal entries.
type JournalEntry struct {
	EntryID          string      `db:"entry_id"`
	CompanyID        string      `db:"company_id"`
	EntryDate        time.Time   `db:"entry_date"`
	Memo             string      `db:"memo"`
	Reference        string      `db:"reference"`
	Status           EntryStatus `db:"status"`
	EntryTypeID      *string     `db:"entry_type_id"`   // Nullable
	ApprovalPolicy   string      `db:"approval_policy"` // Empty until approval requested
	SourceDomain     string      `db:"source_domain"`
	SourceID         string      `db:"source_id"`
	OriginalEntryID  *string     `db:"original_entry_id"`  // Nullable
	ReversingEntryID *string     `db:"reversing_entry_id"` // Nullable
	PostedAt         *time.Time  `db:"posted_at"`          // Nullable
	AuditFields
}

// JournalLine is the database row shape for journal lines.
type JournalLine struct {
	LineID     string          `db:"line_id"`
	EntryID    string          `db:"entry_id"`
	AccountID  string          `db:"account_id"`
	Debit      decimal.Decimal `db:"debit"`
	Credit     decimal.Decimal `db:"credit"`
	Memo       string          `db:"memo"`
	Department string          `db:"department"`
	Project    string          `db:"project"`
	Location   string          `db:"location"`
	AuditFields
}
