package dto

// BatchOptions control failure handling for batch operations.
type BatchOptions struct {
	// StopOnError aborts and rolls back the whole batch on the first failure.
	// When false (default), failed items are collected while the rest commit.
	StopOnError bool `json:"stopOnError"`
}

// BatchCreateRequest is a bulk entry creation request.
type BatchCreateRequest struct {
	Entries []CreateEntryRequest `json:"entries" binding:"required,min=1,dive"`
	Options BatchOptions         `json:"options"`
}

// BatchEntryIDsRequest is a bulk approve/post request over existing entries.
type BatchEntryIDsRequest struct {
	EntryIDs []string     `json:"entryIDs" binding:"required,min=1"`
	Comments string       `json:"comments"`
	Options  BatchOptions `json:"options"`
}

// BatchReverseRequest is a bulk reversal request over posted entries.
type BatchReverseRequest struct {
	EntryIDs []string     `json:"entryIDs" binding:"required,min=1"`
	Reason   string       `json:"reason" binding:"required"`
	Options  BatchOptions `json:"options"`
}

// BatchItemError reports one failed batch item.
type BatchItemError struct {
	Index   int    `json:"index"`
	EntryID string `json:"entryID,omitempty"`
	Error   string `json:"error"`
}

// BatchSummary aggregates the outcome of a batch run.
type BatchSummary struct {
	Total            int   `json:"total"`
	Successful       int   `json:"successful"`
	Failed           int   `json:"failed"`
	ProcessingTimeMs int64 `json:"processingTimeMs"`
}

// BatchResult is the uniform result shape of every batch operation. Per-item
// failures never surface as errors; only systemic failures do.
type BatchResult struct {
	Success []EntryResponse  `json:"success"`
	Errors  []BatchItemError `json:"errors"`
	Summary BatchSummary     `json:"summary"`
}
