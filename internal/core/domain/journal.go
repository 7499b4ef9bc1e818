package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft           EntryStatus = "DRAFT"
	PendingApproval EntryStatus = "PENDING_APPROVAL"
	Posted          EntryStatus = "POSTED"
	Reversed        EntryStatus = "REVERSED"
	Voided          EntryStatus = "VOIDED"
)

// ApprovalPolicy selects how many approvals must resolve before an entry posts.
type ApprovalPolicy string

const (
	// ApproveAnyOne posts the entry as soon as any one approval is granted.
	ApproveAnyOne ApprovalPolicy = "ANY_ONE"
	// ApproveAllRequired posts the entry only once every approval is granted.
	ApproveAllRequired ApprovalPolicy = "ALL_REQUIRED"
)

// SourceDomainInventory marks entries that originated from an inventory
// movement; reversing such an entry also reverses the movement through the
// InventoryAdjuster port.
const SourceDomainInventory = "inventory"

// JournalEntry represents a single double-entry event composed of balanced lines.
// Once POSTED an entry is immutable; corrections happen through reversal or
// adjustment entries, never in place.
type JournalEntry struct {
	EntryID        string         `json:"entryID"`   // Primary Key (UUID)
	CompanyID      string         `json:"companyID"` // Tenancy boundary (NON-NULL)
	EntryDate      time.Time      `json:"entryDate"`
	Memo           string         `json:"memo"`
	Reference      string         `json:"reference"` // Unique per company (JE-YYYYMMDD-NNNN when generated)
	Status         EntryStatus    `json:"status"`
	EntryTypeID    *string        `json:"entryTypeID,omitempty"`
	ApprovalPolicy ApprovalPolicy `json:"approvalPolicy,omitempty"` // Set when approval is requested
	SourceDomain   string         `json:"sourceDomain,omitempty"`   // Originating subsystem ("inventory", ...)
	SourceID       string         `json:"sourceID,omitempty"`       // Identifier within the source domain
	// OriginalEntryID links a reversal or adjustment back to the entry it offsets.
	OriginalEntryID *string `json:"originalEntryID,omitempty"`
	// ReversingEntryID links a reversed entry forward to its reversal.
	ReversingEntryID *string    `json:"reversingEntryID,omitempty"`
	PostedAt         *time.Time `json:"postedAt,omitempty"`
	AuditFields
	Lines []JournalLine `json:"lines,omitempty"` // Often loaded separately
}

// JournalLine is a single debit/credit posting within a journal entry,
// affecting one account. Lines live and die with their parent entry.
type JournalLine struct {
	LineID    string          `json:"lineID"`  // Primary Key (UUID)
	EntryID   string          `json:"entryID"` // FK -> JournalEntry (Not Null)
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`  // Non-negative
	Credit    decimal.Decimal `json:"credit"` // Non-negative; conventionally at most one side is non-zero
	Memo      string          `json:"memo"`
	// Dimension tags for analytical slicing; they do not affect balance.
	Department string `json:"department,omitempty"`
	Project    string `json:"project,omitempty"`
	Location   string `json:"location,omitempty"`
	AuditFields
}
