package mapping

import (
	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/finbooks/journal-engine/internal/models"
)

// ToModelApproval converts a domain EntryApproval to a model EntryApproval.
func ToModelApproval(d domain.EntryApproval) models.EntryApproval {
	return models.EntryApproval{
		ApprovalID:  d.ApprovalID,
		EntryID:     d.EntryID,
		CompanyID:   d.CompanyID,
		RequesterID: d.RequesterID,
		ApproverID:  d.ApproverID,
		Status:      models.ApprovalStatus(d.Status),
		Comments:    d.Comments,
		ResolvedAt:  d.ResolvedAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainApproval converts a model EntryApproval to a domain EntryApproval.
func ToDomainApproval(m models.EntryApproval) domain.EntryApproval {
	return domain.EntryApproval{
		ApprovalID:  m.ApprovalID,
		EntryID:     m.EntryID,
		CompanyID:   m.CompanyID,
		RequesterID: m.RequesterID,
		ApproverID:  m.ApproverID,
		Status:      domain.ApprovalStatus(m.Status),
		Comments:    m.Comments,
		ResolvedAt:  m.ResolvedAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainApprovalSlice converts a slice of model EntryApprovals to domain EntryApprovals.
func ToDomainApprovalSlice(ms []models.EntryApproval) []domain.EntryApproval {
	ds := make([]domain.EntryApproval, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainApproval(m)
	}
	return ds
}
