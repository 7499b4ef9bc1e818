package models

import "time"

// ApprovalStatus indicates the state of an approval row.
type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "PENDING"
	ApprovalApproved  ApprovalStatus = "APPROVED"
	ApprovalRejected  ApprovalStatus = "REJECTED"
	ApprovalCancelled ApprovalStatus = "CANCELLED"
)

// EntryApproval is the database row shape for journal entry approvals.
type EntryApproval struct {
	ApprovalID  string         `db:"approval_id"`
	EntryID     string         `db:"entry_id"`
	CompanyID   string         `db:"company_id"`
	RequesterID string         `db:"requester_id"`
	ApproverID  string         `db:"approver_id"` // Empty means unassigned
	Status      ApprovalStatus `db:"status"`
	Comments    string         `db:"comments"`
	ResolvedAt  *time.Time     `db:"resolved_at"` // Nullable
	AuditFields
}
