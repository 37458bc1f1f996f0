package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/dto"
)

// AccountSvcFacade is the account registry consumed by handlers, the journal
// validator and the matcher.
type AccountSvcFacade interface {
	// CreateAccount creates a new account in the company's chart of accounts.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByID retrieves an account, scoped to the company.
	GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID, scoped to the company.
	GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts lists the company's accounts.
	ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)

	// UpdateAccount edits an account's number, name or description.
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// CalculateAccountBalance returns the account's posted balance on its
	// normal balance side (debits minus credits for debit-normal accounts,
	// inverted otherwise).
	CalculateAccountBalance(ctx context.Context, companyID string, accountID string) (decimal.Decimal, error)

	// DeactivateAccount marks an account inactive so it rejects new journal lines.
	DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string) error
}
