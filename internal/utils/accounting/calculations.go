package accounting

import (
	"fmt"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedLineAmount converts a journal line into a signed movement from the
// perspective of the account's normal balance side.
//
// DEBIT to a debit-normal account (asset, expense-like) -> positive (+)
// CREDIT to a debit-normal account -> negative (-)
// DEBIT to a credit-normal account (liability, equity, income-like) -> negative (-)
// CREDIT to a credit-normal account -> positive (+)
//
// For an asset bank account this polarity lines up with a statement's
// inflow-positive convention: a deposit is a debit to the account.
func SignedLineAmount(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type %q for account %s", accountType, line.AccountID)
	}
	net := line.Debit.Sub(line.Credit)
	if accountType.IsDebitNormal() {
		return net, nil
	}
	return net.Neg(), nil
}

// NetEntryMovement sums the signed movement an entry causes on one account.
func NetEntryMovement(entry domain.JournalEntry, accountID string, accountType domain.AccountType) (decimal.Decimal, error) {
	net := decimal.Zero
	for _, line := range entry.Lines {
		if line.AccountID != accountID {
			continue
		}
		signed, err := SignedLineAmount(line, accountType)
		if err != nil {
			return decimal.Zero, err
		}
		net = net.Add(signed)
	}
	return net, nil
}
