package mapping

import (
	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/finbooks/journal-engine/internal/models"
)

// ToModelTemplate converts a domain EntryTemplate to a model EntryTemplate.
func ToModelTemplate(d domain.EntryTemplate) models.EntryTemplate {
	return models.EntryTemplate{
		TemplateID:  d.TemplateID,
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		Memo:        d.Memo,
		EntryTypeID: d.EntryTypeID,
		IsRecurring: d.IsRecurring,
		Frequency:   string(d.Frequency),
		NextRunDate: d.NextRunDate,
		EndDate:     d.EndDate,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTemplate converts a model EntryTemplate to a domain EntryTemplate.
func ToDomainTemplate(m models.EntryTemplate) domain.EntryTemplate {
	return domain.EntryTemplate{
		TemplateID:  m.TemplateID,
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Memo:        m.Memo,
		EntryTypeID: m.EntryTypeID,
		IsRecurring: m.IsRecurring,
		Frequency:   domain.Frequency(m.Frequency),
		NextRunDate: m.NextRunDate,
		EndDate:     m.EndDate,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTemplateLine converts a domain TemplateLine to a model TemplateLine.
func ToModelTemplateLine(d domain.TemplateLine) models.TemplateLine {
	return models.TemplateLine{
		TemplateLineID: d.TemplateLineID,
		TemplateID:     d.TemplateID,
		AccountID:      d.AccountID,
		DebitFormula:   d.DebitFormula,
		CreditFormula:  d.CreditFormula,
		Memo:           d.Memo,
		Department:     d.Department,
		Project:        d.Project,
		Location:       d.Location,
	}
}

// ToDomainTemplateLine converts a model TemplateLine to a domain TemplateLine.
func ToDomainTemplateLine(m models.TemplateLine) domain.TemplateLine {
	return domain.TemplateLine{
		TemplateLineID: m.TemplateLineID,
		TemplateID:     m.TemplateID,
		AccountID:      m.AccountID,
		DebitFormula:   m.DebitFormula,
		CreditFormula:  m.CreditFormula,
		Memo:           m.Memo,
		Department:     m.Department,
		Project:        m.Project,
		Location:       m.Location,
	}
}
