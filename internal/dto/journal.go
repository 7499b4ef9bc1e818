package dto

import (
	"time"

	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/finbooks/journal-engine/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// CreateLineRequest defines one debit/credit line of a new entry.
type CreateLineRequest struct {
	AccountID  string          `json:"accountID" binding:"required"`
	Debit      decimal.Decimal `json:"debit" binding:"decgte0"`
	Credit     decimal.Decimal `json:"credit" binding:"decgte0"`
	Memo       string          `json:"memo"`
	Department string          `json:"department"`
	Project    string          `json:"project"`
	Location   string          `json:"location"`
}

// CreateEntryRequest defines the data needed to create a journal entry.
type CreateEntryRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Memo        string    `json:"memo" binding:"required"`
	Reference   string    `json:"reference"` // Optional; generated when empty
	EntryTypeID *string   `json:"entryTypeID"`
	// SourceDomain/SourceID link the entry to the subsystem that originated it
	// (e.g. "inventory"); reversal side effects dispatch on this link.
	SourceDomain string              `json:"sourceDomain"`
	SourceID     string              `json:"sourceID"`
	Lines        []CreateLineRequest `json:"lines" binding:"required,min=2,dive"`
	// SubmitForApproval routes the new entry straight to PENDING_APPROVAL.
	SubmitForApproval bool     `json:"submitForApproval"`
	ApproverIDs       []string `json:"approverIDs"`
	ApprovalPolicy    string   `json:"approvalPolicy"` // ANY_ONE (default) or ALL_REQUIRED
	// AutoPost creates the entry directly in POSTED status. Rejected when the
	// entry type requires approval.
	AutoPost bool `json:"autoPost"`
}

// VoidEntryRequest carries the reason for discarding an unposted entry.
type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReverseEntryRequest defines the data needed to reverse a posted entry.
type ReverseEntryRequest struct {
	Reason      string     `json:"reason" binding:"required"`
	ReverseDate *time.Time `json:"reverseDate"`
}

// AdjustEntryRequest defines the data for an adjustment against a posted entry.
type AdjustEntryRequest struct {
	Reason      string              `json:"reason" binding:"required"`
	Adjustments []CreateLineRequest `json:"adjustments" binding:"required,min=2,dive"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID     string          `json:"lineID"`
	AccountID  string          `json:"accountID"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Memo       string          `json:"memo,omitempty"`
	Department string          `json:"department,omitempty"`
	Project    string          `json:"project,omitempty"`
	Location   string          `json:"location,omitempty"`
}

// EntryResponse defines the data returned for a journal entry. Totals and the
// balanced flag are annotated when lines are loaded.
type EntryResponse struct {
	EntryID          string           `json:"entryID"`
	CompanyID        string           `json:"companyID"`
	Date             time.Time        `json:"date"`
	Memo             string           `json:"memo"`
	Reference        string           `json:"reference"`
	Status           string           `json:"status"`
	EntryTypeID      *string          `json:"entryTypeID,omitempty"`
	ApprovalPolicy   string           `json:"approvalPolicy,omitempty"`
	SourceDomain     string           `json:"sourceDomain,omitempty"`
	SourceID         string           `json:"sourceID,omitempty"`
	OriginalEntryID  *string          `json:"originalEntryID,omitempty"`
	ReversingEntryID *string          `json:"reversingEntryID,omitempty"`
	PostedAt         *time.Time       `json:"postedAt,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	CreatedBy        string           `json:"createdBy"`
	Lines            []LineResponse   `json:"lines,omitempty"`
	TotalDebit       *decimal.Decimal `json:"totalDebit,omitempty"`
	TotalCredit      *decimal.Decimal `json:"totalCredit,omitempty"`
	IsBalanced       *bool            `json:"isBalanced,omitempty"`
}

// ReversalResult pairs the reversed original with its new reversal entry.
type ReversalResult struct {
	Original EntryResponse `json:"original"`
	Reversal EntryResponse `json:"reversal"`
}

// ListEntriesParams holds parameters for listing entries.
type ListEntriesParams struct {
	Limit        int     `form:"limit"`
	NextToken    *string `form:"nextToken"`
	IncludeLines bool    `form:"includeLines"`
}

// ListEntriesResponse is the paginated entry listing.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain JournalLine to a LineResponse DTO.
func ToLineResponse(line *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:     line.LineID,
		AccountID:  line.AccountID,
		Debit:      line.Debit,
		Credit:     line.Credit,
		Memo:       line.Memo,
		Department: line.Department,
		Project:    line.Project,
		Location:   line.Location,
	}
}

// ToEntryResponse converts a domain JournalEntry to an EntryResponse DTO.
// When the entry carries lines, debit/credit totals and the balanced flag are
// included as a read-time annotation.
func ToEntryResponse(entry *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:          entry.EntryID,
		CompanyID:        entry.CompanyID,
		Date:             entry.EntryDate,
		Memo:             entry.Memo,
		Reference:        entry.Reference,
		Status:           string(entry.Status),
		EntryTypeID:      entry.EntryTypeID,
		ApprovalPolicy:   string(entry.ApprovalPolicy),
		SourceDomain:     entry.SourceDomain,
		SourceID:         entry.SourceID,
		OriginalEntryID:  entry.OriginalEntryID,
		ReversingEntryID: entry.ReversingEntryID,
		PostedAt:         entry.PostedAt,
		CreatedAt:        entry.CreatedAt,
		CreatedBy:        entry.CreatedBy,
	}

	if len(entry.Lines) > 0 {
		resp.Lines = make([]LineResponse, len(entry.Lines))
		for i := range entry.Lines {
			resp.Lines[i] = ToLineResponse(&entry.Lines[i])
		}
		totalDebit, totalCredit := accounting.Totals(entry.Lines)
		balanced := accounting.IsBalanced(entry.Lines)
		resp.TotalDebit = &totalDebit
		resp.TotalCredit = &totalCredit
		resp.IsBalanced = &balanced
	}

	return resp
}

// ToEntryResponses converts a slice of domain JournalEntries to DTOs.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}
