package dto

import (
	"time"

	"github.com/finbooks/journal-engine/internal/core/domain"
)

// AuditResponse defines the data returned for one audit trail record.
type AuditResponse struct {
	AuditID      string    `json:"auditID"`
	EntryID      string    `json:"entryID"`
	ActorID      string    `json:"actorID"`
	Action       string    `json:"action"`
	BeforeStatus string    `json:"beforeStatus,omitempty"`
	AfterStatus  string    `json:"afterStatus"`
	Detail       string    `json:"detail,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToAuditResponses converts a slice of domain AuditRecords to DTOs.
func ToAuditResponses(records []domain.AuditRecord) []AuditResponse {
	responses := make([]AuditResponse, len(records))
	for i, record := range records {
		responses[i] = AuditResponse{
			AuditID:      record.AuditID,
			EntryID:      record.EntryID,
			ActorID:      record.ActorID,
			Action:       string(record.Action),
			BeforeStatus: string(record.BeforeStatus),
			AfterStatus:  string(record.AfterStatus),
			Detail:       record.Detail,
			CreatedAt:    record.CreatedAt,
		}
	}
	return responses
}
