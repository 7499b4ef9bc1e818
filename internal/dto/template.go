package dto

import (
	"time"

	"github.com/finbooks/journal-engine/internal/core/domain"
)

// TemplateLineRequest defines one line skeleton of a template.
type TemplateLineRequest struct {
	AccountID     string `json:"accountID" binding:"required"`
	DebitFormula  string `json:"debitFormula"`
	CreditFormula string `json:"creditFormula"`
	Memo          string `json:"memo"`
	Department    string `json:"department"`
	Project       string `json:"project"`
	Location      string `json:"location"`
}

// CreateTemplateRequest defines the data needed to create an entry template.
type CreateTemplateRequest struct {
	Name        string                `json:"name" binding:"required"`
	Memo        string                `json:"memo"`
	EntryTypeID *string               `json:"entryTypeID"`
	IsRecurring bool                  `json:"isRecurring"`
	Frequency   string                `json:"frequency"`
	NextRunDate *time.Time            `json:"nextRunDate"`
	EndDate     *time.Time            `json:"endDate"`
	Lines       []TemplateLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// TemplateLineResponse defines the data returned for a template line.
type TemplateLineResponse struct {
	TemplateLineID string `json:"templateLineID"`
	AccountID      string `json:"accountID"`
	DebitFormula   string `json:"debitFormula,omitempty"`
	CreditFormula  string `json:"creditFormula,omitempty"`
	Memo           string `json:"memo,omitempty"`
	Department     string `json:"department,omitempty"`
	Project        string `json:"project,omitempty"`
	Location       string `json:"location,omitempty"`
}

// TemplateResponse defines the data returned for a template.
type TemplateResponse struct {
	TemplateID  string                 `json:"templateID"`
	CompanyID   string                 `json:"companyID"`
	Name        string                 `json:"name"`
	Memo        string                 `json:"memo,omitempty"`
	EntryTypeID *string                `json:"entryTypeID,omitempty"`
	IsRecurring bool                   `json:"isRecurring"`
	Frequency   string                 `json:"frequency,omitempty"`
	NextRunDate *time.Time             `json:"nextRunDate,omitempty"`
	EndDate     *time.Time             `json:"endDate,omitempty"`
	IsActive    bool                   `json:"isActive"`
	CreatedAt   time.Time              `json:"createdAt"`
	Lines       []TemplateLineResponse `json:"lines,omitempty"`
}

// ListTemplatesParams holds parameters for listing templates.
type ListTemplatesParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// ToTemplateResponse converts a domain EntryTemplate to a TemplateResponse DTO.
func ToTemplateResponse(template *domain.EntryTemplate) TemplateResponse {
	resp := TemplateResponse{
		TemplateID:  template.TemplateID,
		CompanyID:   template.CompanyID,
		Name:        template.Name,
		Memo:        template.Memo,
		EntryTypeID: template.EntryTypeID,
		IsRecurring: template.IsRecurring,
		Frequency:   string(template.Frequency),
		NextRunDate: template.NextRunDate,
		EndDate:     template.EndDate,
		IsActive:    template.IsActive,
		CreatedAt:   template.CreatedAt,
	}
	if len(template.Lines) > 0 {
		resp.Lines = make([]TemplateLineResponse, len(template.Lines))
		for i, line := range template.Lines {
			resp.Lines[i] = TemplateLineResponse{
				TemplateLineID: line.TemplateLineID,
				AccountID:      line.AccountID,
				DebitFormula:   line.DebitFormula,
				CreditFormula:  line.CreditFormula,
				Memo:           line.Memo,
				Department:     line.Department,
				Project:        line.Project,
				Location:       line.Location,
			}
		}
	}
	return resp
}

// ToTemplateResponses converts a slice of domain EntryTemplates to DTOs.
func ToTemplateResponses(templates []domain.EntryTemplate) []TemplateResponse {
	responses := make([]TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = ToTemplateResponse(&templates[i])
	}
	return responses
}
