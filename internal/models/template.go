package models

import "time"

// EntryTemplate is the database row shape for journal entry templates.
type EntryTemplate struct {
	TemplateID  string     `db:"template_id"`
	CompanyID   string     `db:"company_id"`
	Name        string     `db:"name"`
	Memo        string     `db:"memo"`
	EntryTypeID *string    `db:"entry_type_id"` // Nullable
	IsRecurring bool       `db:"is_recurring"`
	Frequency   string     `db:"frequency"`
	NextRunDate *time.Time `db:"next_run_date"` // Nullable
	EndDate     *time.Time `db:"end_date"`      // Nullable
	IsActive    bool       `db:"is_active"`
	AuditFields
}

// TemplateLine is the database row shape for template lines.
type TemplateLine struct {
	TemplateLineID string `db:"template_line_id"`
	TemplateID     string `db:"template_id"`
	AccountID      string `db:"account_id"`
	DebitFormula   string `db:"debit_formula"`
	CreditFormula  string `db:"credit_formula"`
	Memo           string `db:"memo"`
	Department     string `db:"department"`
	Project        string `db:"project"`
	Location       string `db:"location"`
}
