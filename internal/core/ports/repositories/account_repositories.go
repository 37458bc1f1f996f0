package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a given company.
	ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)

	// SumAccountActivity returns the total debits and credits posted against
	// the account, excluding voided and soft-deleted entries.
	SumAccountActivity(ctx context.Context, accountID string) (debits, credits decimal.Decimal, err error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
