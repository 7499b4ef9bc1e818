package mapping

import (
	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/finbooks/journal-engine/internal/models"
)

// ToModelAuditRecord converts a domain AuditRecord to a model AuditRecord.
func ToModelAuditRecord(d domain.AuditRecord) models.AuditRecord {
	return models.AuditRecord{
		AuditID:      d.AuditID,
		CompanyID:    d.CompanyID,
		EntryID:      d.EntryID,
		ActorID:      d.ActorID,
		Action:       string(d.Action),
		BeforeStatus: string(d.BeforeStatus),
		AfterStatus:  string(d.AfterStatus),
		Detail:       d.Detail,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainAuditRecord converts a model AuditRecord to a domain AuditRecord.
func ToDomainAuditRecord(m models.AuditRecord) domain.AuditRecord {
	return domain.AuditRecord{
		AuditID:      m.AuditID,
		CompanyID:    m.CompanyID,
		EntryID:      m.EntryID,
		ActorID:      m.ActorID,
		Action:       domain.AuditAction(m.Action),
		BeforeStatus: domain.EntryStatus(m.BeforeStatus),
		AfterStatus:  domain.EntryStatus(m.AfterStatus),
		Detail:       m.Detail,
		CreatedAt:    m.CreatedAt,
	}
}
