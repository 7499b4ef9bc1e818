package domain

import "time"

// AuditAction names the lifecycle transition an audit record captures.
type AuditAction string

const (
	AuditCreated           AuditAction = "CREATED"
	AuditApprovalRequested AuditAction = "APPROVAL_REQUESTED"
	AuditApproved          AuditAction = "APPROVED"
	AuditRejected          AuditAction = "REJECTED"
	AuditPosted            AuditAction = "POSTED"
	AuditReversed          AuditAction = "REVERSED"
	AuditAdjusted          AuditAction = "ADJUSTED"
	AuditVoided            AuditAction = "VOIDED"
)

// AuditRecord is an append-only record of a lifecycle transition. Records are
// written in the same transaction as the transition and never updated or
// deleted.
type AuditRecord struct {
	AuditID      string      `json:"auditID"` // Primary Key (UUID)
	CompanyID    string      `json:"companyID"`
	EntryID      string      `json:"entryID"`
	ActorID      string      `json:"actorID"`
	Action       AuditAction `json:"action"`
	BeforeStatus EntryStatus `json:"beforeStatus,omitempty"` // Empty for creation
	AfterStatus  EntryStatus `json:"afterStatus"`
	Detail       string      `json:"detail,omitempty"` // Free-form context (reason, reference, ...)
	CreatedAt    time.Time   `json:"createdAt"`
}
