package services_test

import (
	"context"
	"testing"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/core/services"
	"github.com/finbooks/bookkeeping_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount_Success(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	svc := services.NewAccountService(accountRepo, nil)

	accountRepo.On("SaveAccount", mock.Anything, mock.Anything).Return(nil)

	req := dto.CreateAccountRequest{
		AccountNumber: "1010",
		Name:          "Operating Checking",
		AccountType:   domain.Asset,
		Description:   "Main bank account",
	}

	account, err := svc.CreateAccount(context.Background(), testCompanyID, req, testUserID)

	require.NoError(t, err)
	assert.NotEmpty(t, account.AccountID)
	assert.Equal(t, testCompanyID, account.CompanyID)
	assert.Equal(t, domain.Asset, account.AccountType)
	assert.True(t, account.IsActive)
	assert.Equal(t, testUserID, account.CreatedBy)
	accountRepo.AssertExpectations(t)
}

func TestCreateAccount_UnknownType(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	svc := services.NewAccountService(accountRepo, nil)

	req := dto.CreateAccountRequest{
		AccountNumber: "1010",
		Name:          "Operating Checking",
		AccountType:   domain.AccountType("SAVINGS"),
	}

	_, err := svc.CreateAccount(context.Background(), testCompanyID, req, testUserID)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	accountRepo.AssertNotCalled(t, "SaveAccount", mock.Anything, mock.Anything)
}

func TestGetAccountByID_CrossCompanyHidden(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	svc := services.NewAccountService(accountRepo, nil)

	account := &domain.Account{AccountID: "acc-1", CompanyID: "someone-else"}
	accountRepo.On("FindAccountByID", mock.Anything, "acc-1").Return(account, nil)

	_, err := svc.GetAccountByID(context.Background(), testCompanyID, "acc-1")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetAccountsByIDs_FiltersForeignCompany(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	svc := services.NewAccountService(accountRepo, nil)

	accountRepo.On("FindAccountsByIDs", mock.Anything, []string{"acc-1", "acc-2"}).Return(map[string]domain.Account{
		"acc-1": {AccountID: "acc-1", CompanyID: testCompanyID},
		"acc-2": {AccountID: "acc-2", CompanyID: "someone-else"},
	}, nil)

	accounts, err := svc.GetAccountsByIDs(context.Background(), testCompanyID, []string{"acc-1", "acc-2"})

	require.NoError(t, err)
	assert.Contains(t, accounts, "acc-1")
	assert.NotContains(t, accounts, "acc-2")
}

func TestListAccounts_DefaultLimit(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	svc := services.NewAccountService(accountRepo, nil)

	accountRepo.On("ListAccounts", mock.Anything, testCompanyID, 100, 0).Return([]domain.Account{}, nil)

	_, err := svc.ListAccounts(context.Background(), testCompanyID, 0, 0)

	require.NoError(t, err)
	accountRepo.AssertExpectations(t)
}

func TestUpdateAccount_Success(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	svc := services.NewAccountService(accountRepo, nil)

	account := &domain.Account{AccountID: "acc-1", CompanyID: testCompanyID, AccountNumber: "1010", Name: "Checking", AccountType: domain.Asset, IsActive: true}
	accountRepo.On("FindAccountByID", mock.Anything, "acc-1").Return(account, nil)
	accountRepo.On("UpdateAccount", mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "Operating Checking" && a.AccountNumber == "1010" && a.LastUpdatedBy == testUserID
	})).Return(nil)

	name := "Operating Checking"
	updated, err := svc.UpdateAccount(context.Background(), testCompanyID, "acc-1", dto.UpdateAccountRequest{Name: &name}, testUserID)

	require.NoError(t, err)
	assert.Equal(t, "Operating Checking", updated.Name)
	assert.Equal(t, domain.Asset, updated.AccountType)
	accountRepo.AssertExpectations(t)
}

func TestUpdateAccount_CrossCompanyHidden(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	svc := services.NewAccountService(accountRepo, nil)

	account := &domain.Account{AccountID: "acc-1", CompanyID: "someone-else"}
	accountRepo.On("FindAccountByID", mock.Anything, "acc-1").Return(account, nil)

	name := "Renamed"
	_, err := svc.UpdateAccount(context.Background(), testCompanyID, "acc-1", dto.UpdateAccountRequest{Name: &name}, testUserID)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	accountRepo.AssertNotCalled(t, "UpdateAccount", mock.Anything, mock.Anything)
}

func TestCalculateAccountBalance_DebitNormal(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	svc := services.NewAccountService(accountRepo, nil)

	account := &domain.Account{AccountID: "acc-1", CompanyID: testCompanyID, AccountType: domain.Asset}
	accountRepo.On("FindAccountByID", mock.Anything, "acc-1").Return(account, nil)
	accountRepo.On("SumAccountActivity", mock.Anything, "acc-1").
		Return(decimal.RequireFromString("500.00"), decimal.RequireFromString("120.00"), nil)

	balance, err := svc.CalculateAccountBalance(context.Background(), testCompanyID, "acc-1")

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("380.00")))
}

func TestCalculateAccountBalance_CreditNormal(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	svc := services.NewAccountService(accountRepo, nil)

	account := &domain.Account{AccountID: "acc-1", CompanyID: testCompanyID, AccountType: domain.Income}
	accountRepo.On("FindAccountByID", mock.Anything, "acc-1").Return(account, nil)
	accountRepo.On("SumAccountActivity", mock.Anything, "acc-1").
		Return(decimal.RequireFromString("120.00"), decimal.RequireFromString("500.00"), nil)

	balance, err := svc.CalculateAccountBalance(context.Background(), testCompanyID, "acc-1")

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("380.00")))
}

func TestDeactivateAccount_Success(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	svc := services.NewAccountService(accountRepo, nil)

	account := &domain.Account{AccountID: "acc-1", CompanyID: testCompanyID, IsActive: true}
	accountRepo.On("FindAccountByID", mock.Anything, "acc-1").Return(account, nil)
	accountRepo.On("DeactivateAccount", mock.Anything, "acc-1", testUserID, mock.Anything).Return(nil)

	err := svc.DeactivateAccount(context.Background(), testCompanyID, "acc-1", testUserID)

	require.NoError(t, err)
	accountRepo.AssertExpectations(t)
}

func TestDeactivateAccount_NotFound(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	svc := services.NewAccountService(accountRepo, nil)

	accountRepo.On("FindAccountByID", mock.Anything, "acc-missing").Return(nil, apperrors.ErrNotFound)

	err := svc.DeactivateAccount(context.Background(), testCompanyID, "acc-missing", testUserID)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	accountRepo.AssertNotCalled(t, "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
