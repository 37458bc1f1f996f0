package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/finbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/finbooks/bookkeeping_app/internal/dto"
	"github.com/finbooks/bookkeeping_app/internal/middleware"
)

// accountService provides the account registry operations.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	audit       portssvc.AuditNotifier
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, audit portssvc.AuditNotifier) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		audit:       audit,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a new account in the company's chart of accounts.
func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		CompanyID:     companyID,
		AccountNumber: req.AccountNumber,
		Name:          req.Name,
		AccountType:   req.AccountType,
		Description:   req.Description,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	if s.audit != nil {
		s.audit.OnEntityChange(ctx, "account", account.AccountID, nil, account)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("company_id", companyID))
	return &account, nil
}

// GetAccountByID retrieves an account, scoped to the company.
func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		// Obscure existence across companies.
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountsByIDs retrieves multiple accounts keyed by ID. IDs that do not
// exist, or belong to another company, are simply absent from the result; the
// validator reports them as missing accounts.
func (s *accountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for id, account := range accounts {
		if account.CompanyID != companyID {
			delete(accounts, id)
		}
	}
	return accounts, nil
}

// ListAccounts lists the company's accounts.
func (s *accountService) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.accountRepo.ListAccounts(ctx, companyID, limit, offset)
}

// UpdateAccount edits an account's number, name or description. The account
// type stays fixed for the life of the account.
func (s *accountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	before := *account

	if req.AccountNumber != nil {
		account.AccountNumber = *req.AccountNumber
	}
	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	if s.audit != nil {
		s.audit.OnEntityChange(ctx, "account", accountID, before, *account)
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// CalculateAccountBalance returns the account's posted balance expressed on
// its normal balance side, so asset and expense balances read positive when
// debits exceed credits.
func (s *accountService) CalculateAccountBalance(ctx context.Context, companyID string, accountID string) (decimal.Decimal, error) {
	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	debits, credits, err := s.accountRepo.SumAccountActivity(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum account activity: %w", err)
	}

	if account.AccountType.IsDebitNormal() {
		return debits.Sub(credits), nil
	}
	return credits.Sub(debits), nil
}

// DeactivateAccount marks an account inactive so it rejects new journal lines.
// Historical entries referencing it are unaffected.
func (s *accountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account for deactivation", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	now := time.Now().UTC()
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, now); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	if s.audit != nil {
		after := *account
		after.IsActive = false
		s.audit.OnEntityChange(ctx, "account", accountID, account, after)
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
