package domain

import "time"

// ApprovalStatus indicates the state of a single approval record.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
	// ApprovalCancelled marks sibling approvals that became moot after the
	// entry was posted (ANY_ONE policy) or rejected.
	ApprovalCancelled ApprovalStatus = "CANCELLED"
)

// EntryApproval records one approver's pending or resolved decision on an entry.
// An entry may carry several approval records (multi-approver request); the
// entry's ApprovalPolicy decides how many must resolve before it posts.
type EntryApproval struct {
	ApprovalID  string         `json:"approvalID"` // Primary Key (UUID)
	EntryID     string         `json:"entryID"`    // FK -> JournalEntry
	CompanyID   string         `json:"companyID"`
	RequesterID string         `json:"requesterID"`
	ApproverID  string         `json:"approverID"` // Empty means any approver may resolve it
	Status      ApprovalStatus `json:"status"`
	Comments    string         `json:"comments"`
	ResolvedAt  *time.Time     `json:"resolvedAt,omitempty"`
	AuditFields
}
