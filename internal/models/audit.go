package models

import "time"

// AuditRecord is the database row shape for the append-only audit trail.
type AuditRecord struct {
	AuditID      string    `db:"audit_id"`
	CompanyID    string    `db:"company_id"`
	EntryID      string    `db:"entry_id"`
	ActorID      string    `db:"actor_id"`
	Action       string    `db:"action"`
	BeforeStatus string    `db:"before_status"`
	AfterStatus  string    `db:"after_status"`
	Detail       string    `db:"detail"`
	CreatedAt    time.Time `db:"created_at"`
}
