package domain

import "time"

// Frequency is the recurrence cadence of a template.
type Frequency string

const (
	Daily     Frequency = "DAILY"
	Weekly    Frequency = "WEEKLY"
	Monthly   Frequency = "MONTHLY"
	Quarterly Frequency = "QUARTERLY"
	Yearly    Frequency = "YEARLY"
)

// NextAfter returns the run date following 'from' for this frequency.
// Unrecognized frequencies advance by one day.
func (f Frequency) NextAfter(from time.Time) time.Time {
	switch f {
	case Weekly:
		return from.AddDate(0, 0, 7)
	case Monthly:
		return from.AddDate(0, 1, 0)
	case Quarterly:
		return from.AddDate(0, 3, 0)
	case Yearly:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 0, 1)
	}
}

// EntryTemplate is a reusable skeleton for journal entries. Recurring
// templates are materialized by the scheduler each time NextRunDate comes due;
// the template itself is only read, never consumed.
type EntryTemplate struct {
	TemplateID  string     `json:"templateID"` // Primary Key (UUID)
	CompanyID   string     `json:"companyID"`
	Name        string     `json:"name"`
	Memo        string     `json:"memo"`
	EntryTypeID *string    `json:"entryTypeID,omitempty"`
	IsRecurring bool       `json:"isRecurring"`
	Frequency   Frequency  `json:"frequency,omitempty"`
	NextRunDate *time.Time `json:"nextRunDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	IsActive    bool       `json:"isActive"`
	AuditFields
	Lines []TemplateLine `json:"lines,omitempty"`
}

// TemplateLine holds the per-line amount formulas of a template. Formulas use
// the closed grammar of internal/utils/formula; plain decimal literals are the
// common case.
type TemplateLine struct {
	TemplateLineID string `json:"templateLineID"` // Primary Key (UUID)
	TemplateID     string `json:"templateID"`     // FK -> EntryTemplate
	AccountID      string `json:"accountID"`
	DebitFormula   string `json:"debitFormula"`
	CreditFormula  string `json:"creditFormula"`
	Memo           string `json:"memo"`
	Department     string `json:"department,omitempty"`
	Project        string `json:"project,omitempty"`
	Location       string `json:"location,omitempty"`
}
