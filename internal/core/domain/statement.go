package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementTransaction is a single row of a bank statement. Amount is signed:
// positive means money flowing into the bank account, negative means outflow.
type StatementTransaction struct {
	Date        time.Time       `json:"date"` // Calendar date, no time-of-day
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// BankStatement is the normalized form of an imported bank statement. It is
// derived data: it lives only inside its owning ReconciliationSession and is
// never persisted on its own.
type BankStatement struct {
	AccountID      string                 `json:"accountID"`
	OpeningBalance decimal.Decimal        `json:"openingBalance"`
	ClosingBalance decimal.Decimal        `json:"closingBalance"`
	Transactions   []StatementTransaction `json:"transactions"`
}

// NetChange returns the statement's implied net balance change.
func (s *BankStatement) NetChange() decimal.Decimal {
	return s.ClosingBalance.Sub(s.OpeningBalance)
}

// PeriodBounds returns the earliest and latest transaction dates on the
// statement. ok is false for a statement with no transactions.
func (s *BankStatement) PeriodBounds() (from, to time.Time, ok bool) {
	if len(s.Transactions) == 0 {
		return time.Time{}, time.Time{}, false
	}
	from, to = s.Transactions[0].Date, s.Transactions[0].Date
	for _, txn := range s.Transactions[1:] {
		if txn.Date.Before(from) {
			from = txn.Date
		}
		if txn.Date.After(to) {
			to = txn.Date
		}
	}
	return from, to, true
}
