package services

import "errors"

// Operation-level sentinel errors. Handlers and callers match on these with
// errors.Is; services wrap them with fmt.Errorf("%w: ...") to add context
// (offending ids, computed totals).
var (
	ErrEntryMinLines    = errors.New("journal entry must have at least two lines")
	ErrEntryMinAccounts = errors.New("journal entry must affect at least two different accounts")
	ErrNegativeAmount   = errors.New("line amounts must not be negative")
	ErrUnbalancedEntry  = errors.New("journal entry debits and credits do not balance")

	ErrInvalidEntryType            = errors.New("invalid entry type")
	ErrInvalidAccountsForEntryType = errors.New("entry uses accounts not allowed for this entry type")
	ErrAmountExceedsPolicyLimit    = errors.New("entry amount exceeds the entry type limit")

	ErrDuplicateReference = errors.New("journal reference already exists")
	ErrAccountNotFound    = errors.New("account not found")

	ErrInvalidStatus            = errors.New("operation is not allowed for the entry's current status")
	ErrInvalidStatusForReversal = errors.New("only posted entries can be reversed")
	ErrAlreadyProcessed         = errors.New("approval has already been processed")

	ErrBatchSizeExceeded = errors.New("batch size exceeds the allowed limit")
)
