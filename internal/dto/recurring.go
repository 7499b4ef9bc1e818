package dto

import "time"

// ProcessRecurringRequest triggers a recurring run for a company.
type ProcessRecurringRequest struct {
	AsOfDate *time.Time `json:"asOfDate"` // Defaults to today
}

// RecurringItemError reports a template that failed to materialize.
type RecurringItemError struct {
	TemplateID string `json:"templateID"`
	Error      string `json:"error"`
}

// RecurringRunResult reports the outcome of one recurring processing run.
// Failed templates do not abort the run; they are collected here.
type RecurringRunResult struct {
	Created []EntryResponse      `json:"created"`
	Errors  []RecurringItemError `json:"errors,omitempty"`
}
