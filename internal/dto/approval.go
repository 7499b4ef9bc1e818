package dto

import (
	"time"

	"github.com/finbooks/journal-engine/internal/core/domain"
)

// RequestApprovalRequest defines the data to put a draft entry under approval.
type RequestApprovalRequest struct {
	ApproverIDs []string `json:"approverIDs" binding:"required,min=1"`
	Comments    string   `json:"comments"`
	// Policy selects when the entry posts: ANY_ONE (default) or ALL_REQUIRED.
	Policy string `json:"policy"`
}

// ResolveApprovalRequest carries the comments for an approve/reject decision.
type ResolveApprovalRequest struct {
	Comments string `json:"comments"`
}

// ApprovalResponse defines the data returned for an approval record.
type ApprovalResponse struct {
	ApprovalID  string     `json:"approvalID"`
	EntryID     string     `json:"entryID"`
	RequesterID string     `json:"requesterID"`
	ApproverID  string     `json:"approverID,omitempty"`
	Status      string     `json:"status"`
	Comments    string     `json:"comments,omitempty"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ApprovalResult pairs a resolved approval with the entry's resulting state.
type ApprovalResult struct {
	Approval ApprovalResponse `json:"approval"`
	Entry    EntryResponse    `json:"entry"`
}

// RequestApprovalResult returns the transitioned entry and its approval fan-out.
type RequestApprovalResult struct {
	Entry     EntryResponse      `json:"entry"`
	Approvals []ApprovalResponse `json:"approvals"`
}

// ToApprovalResponse converts a domain EntryApproval to an ApprovalResponse DTO.
func ToApprovalResponse(approval *domain.EntryApproval) ApprovalResponse {
	return ApprovalResponse{
		ApprovalID:  approval.ApprovalID,
		EntryID:     approval.EntryID,
		RequesterID: approval.RequesterID,
		ApproverID:  approval.ApproverID,
		Status:      string(approval.Status),
		Comments:    approval.Comments,
		ResolvedAt:  approval.ResolvedAt,
		CreatedAt:   approval.CreatedAt,
	}
}

// ToApprovalResponses converts a slice of domain EntryApprovals to DTOs.
func ToApprovalResponses(approvals []domain.EntryApproval) []ApprovalResponse {
	responses := make([]ApprovalResponse, len(approvals))
	for i := range approvals {
		responses[i] = ToApprovalResponse(&approvals[i])
	}
	return responses
}
