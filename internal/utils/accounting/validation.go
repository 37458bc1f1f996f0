package accounting

import (
	"fmt"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidationResult is the structured outcome of validating a candidate set of
// journal lines. Validation findings are data, not error returns: a draft may
// be saved with errors present, but an entry cannot be posted unless IsValid.
type ValidationResult struct {
	IsValid      bool            `json:"isValid"`
	Errors       []string        `json:"errors"`
	Warnings     []string        `json:"warnings"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	Difference   decimal.Decimal `json:"difference"`
}

// ValidateLines checks the double-entry invariants for a candidate journal
// entry against the account registry:
//
//   - at least two lines
//   - every line references an existing, active account
//   - a line carries either a debit or a credit, not both
//   - total debits equal total credits exactly (fixed-point comparison)
//
// A line with zero debit and zero credit produces a warning, not an error: a
// draft may hold it as an incomplete placeholder. The posting paths reject
// placeholder lines separately; a posted entry never contains one.
func ValidateLines(lines []domain.JournalLine, accounts map[string]domain.Account) ValidationResult {
	result := ValidationResult{
		Errors:       []string{},
		Warnings:     []string{},
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}

	if len(lines) < 2 {
		result.Errors = append(result.Errors, "journal entry must have at least two lines")
	}

	for i, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: debit and credit amounts must not be negative", i+1))
			continue
		}
		if !line.Debit.IsZero() && !line.Credit.IsZero() {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: a line cannot carry both a debit and a credit", i+1))
		}
		if line.IsPlaceholder() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: has neither a debit nor a credit", i+1))
		}

		account, found := accounts[line.AccountID]
		if !found {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: account %s does not exist", i+1, line.AccountID))
		} else if !account.IsActive {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: account %s (%s) is inactive", i+1, line.AccountID, account.Name))
		}

		result.TotalDebits = result.TotalDebits.Add(line.Debit)
		result.TotalCredits = result.TotalCredits.Add(line.Credit)
	}

	result.Difference = result.TotalDebits.Sub(result.TotalCredits)
	if !result.Difference.IsZero() {
		result.Errors = append(result.Errors, fmt.Sprintf("debits (%s) do not equal credits (%s)", result.TotalDebits.String(), result.TotalCredits.String()))
	}

	result.IsValid = len(result.Errors) == 0
	return result
}
