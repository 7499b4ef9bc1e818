package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account represents a ledger account within a company's chart of accounts.
type Account struct {
	AccountID       string      `json:"accountID"`       // Primary Key (UUID)
	CompanyID       string      `json:"companyID"`       // Tenancy boundary (NON-NULL)
	Code            string      `json:"code"`            // User-defined short code
	Name            string      `json:"name"`            // User-defined name
	AccountType     AccountType `json:"accountType"`     // ASSET, LIABILITY, etc.
	ParentAccountID string      `json:"parentAccountID"` // Nullable self-reference, forms the account tree
	Description     string      `json:"description"`
	IsActive        bool        `json:"isActive"`
	AuditFields
}
