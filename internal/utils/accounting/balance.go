package accounting

import (
	"github.com/finbooks/journal-engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum absolute difference between total debits and
// total credits for an entry to count as balanced (0.01 currency units).
var BalanceTolerance = decimal.RequireFromString("0.01")

// Totals sums the debit and credit sides of a set of journal lines.
// Zero-amount lines are legal and contribute nothing to either side.
func Totals(lines []domain.JournalLine) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, line := range lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}
	return totalDebit, totalCredit
}

// IsBalanced reports whether |sum(debit) - sum(credit)| is within tolerance.
func IsBalanced(lines []domain.JournalLine) bool {
	totalDebit, totalCredit := Totals(lines)
	return totalDebit.Sub(totalCredit).Abs().LessThan(BalanceTolerance)
}

// CombinedTotal sums debit and credit amounts across all lines. Entry type
// policy caps compare this combined figure against MaxAmount.
func CombinedTotal(lines []domain.JournalLine) decimal.Decimal {
	totalDebit, totalCredit := Totals(lines)
	return totalDebit.Add(totalCredit)
}
