package mapping

import (
	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/finbooks/journal-engine/internal/models"
)

// ToModelEntryType converts a domain JournalEntryType to a model JournalEntryType.
func ToModelEntryType(d domain.JournalEntryType) models.JournalEntryType {
	return models.JournalEntryType{
		EntryTypeID:       d.EntryTypeID,
		CompanyID:         d.CompanyID,
		Name:              d.Name,
		Category:          d.Category,
		RequiresApproval:  d.RequiresApproval,
		MaxAmount:         d.MaxAmount,
		AllowedAccountIDs: d.AllowedAccountIDs,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntryType converts a model JournalEntryType to a domain JournalEntryType.
func ToDomainEntryType(m models.JournalEntryType) domain.JournalEntryType {
	return domain.JournalEntryType{
		EntryTypeID:       m.EntryTypeID,
		CompanyID:         m.CompanyID,
		Name:              m.Name,
		Category:          m.Category,
		RequiresApproval:  m.RequiresApproval,
		MaxAmount:         m.MaxAmount,
		AllowedAccountIDs: m.AllowedAccountIDs,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
