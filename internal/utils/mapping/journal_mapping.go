package mapping

import (
	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/finbooks/journal-engine/internal/models"
)

// ToModelEntry converts a domain JournalEntry to a model JournalEntry.
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		CompanyID:        d.CompanyID,
		EntryDate:        d.EntryDate,
		Memo:             d.Memo,
		Reference:        d.Reference,
		Status:           models.EntryStatus(d.Status),
		EntryTypeID:      d.EntryTypeID,
		ApprovalPolicy:   string(d.ApprovalPolicy),
		SourceDomain:     d.SourceDomain,
		SourceID:         d.SourceID,
		OriginalEntryID:  d.OriginalEntryID,
		ReversingEntryID: d.ReversingEntryID,
		PostedAt:         d.PostedAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model JournalEntry to a domain JournalEntry.
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		CompanyID:        m.CompanyID,
		EntryDate:        m.EntryDate,
		Memo:             m.Memo,
		Reference:        m.Reference,
		Status:           domain.EntryStatus(m.Status),
		EntryTypeID:      m.EntryTypeID,
		ApprovalPolicy:   domain.ApprovalPolicy(m.ApprovalPolicy),
		SourceDomain:     m.SourceDomain,
		SourceID:         m.SourceID,
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		PostedAt:         m.PostedAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLine converts a domain JournalLine to a model JournalLine.
func ToModelLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Memo:        d.Memo,
		Department:  d.Department,
		Project:     d.Project,
		Location:    d.Location,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLine converts a model JournalLine to a domain JournalLine.
func ToDomainLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Memo:        m.Memo,
		Department:  m.Department,
		Project:     m.Project,
		Location:    m.Location,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLineSlice converts a slice of model JournalLines to domain JournalLines.
func ToDomainLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLine(m)
	}
	return ds
}
