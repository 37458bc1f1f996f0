package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/core/services"
	"github.com/finbooks/bookkeeping_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID = "comp-1"
	testUserID    = "user-1"
)

func journalTestAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		"acc-cash":  {AccountID: "acc-cash", CompanyID: testCompanyID, Name: "Cash", AccountType: domain.Asset, IsActive: true},
		"acc-sales": {AccountID: "acc-sales", CompanyID: testCompanyID, Name: "Sales", AccountType: domain.Income, IsActive: true},
	}
}

func balancedLines(amount string) []dto.JournalLineRequest {
	return []dto.JournalLineRequest{
		{AccountID: "acc-cash", Debit: decimal.RequireFromString(amount)},
		{AccountID: "acc-sales", Credit: decimal.RequireFromString(amount)},
	}
}

func TestCreateJournal_PostedAndBalanced(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	accountSvc := new(MockAccountService)
	svc := services.NewJournalService(journalRepo, accountSvc, nil)

	accountSvc.On("GetAccountsByIDs", mock.Anything, testCompanyID, mock.Anything).Return(journalTestAccounts(), nil)
	journalRepo.On("SaveJournal", mock.Anything, mock.Anything).Return(nil)

	req := dto.CreateJournalRequest{
		Date:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Memo:   "March sales",
		Status: domain.Posted,
		Lines:  balancedLines("100.00"),
	}

	entry, err := svc.CreateJournal(context.Background(), testCompanyID, req, testUserID)

	require.NoError(t, err)
	assert.Equal(t, domain.Posted, entry.Status)
	assert.Equal(t, testCompanyID, entry.CompanyID)
	assert.NotEmpty(t, entry.JournalID)
	require.Len(t, entry.Lines, 2)
	assert.Equal(t, entry.JournalID, entry.Lines[0].JournalID)
	journalRepo.AssertCalled(t, "SaveJournal", mock.Anything, mock.Anything)
}

func TestCreateJournal_PostedButUnbalanced(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	accountSvc := new(MockAccountService)
	svc := services.NewJournalService(journalRepo, accountSvc, nil)

	accountSvc.On("GetAccountsByIDs", mock.Anything, testCompanyID, mock.Anything).Return(journalTestAccounts(), nil)

	req := dto.CreateJournalRequest{
		Date:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status: domain.Posted,
		Lines: []dto.JournalLineRequest{
			{AccountID: "acc-cash", Debit: decimal.RequireFromString("100.00")},
			{AccountID: "acc-sales", Credit: decimal.RequireFromString("90.00")},
		},
	}

	_, err := svc.CreateJournal(context.Background(), testCompanyID, req, testUserID)

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrJournalNotBalanced)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	journalRepo.AssertNotCalled(t, "SaveJournal", mock.Anything, mock.Anything)
}

func TestCreateJournal_DraftToleratesImbalance(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	accountSvc := new(MockAccountService)
	svc := services.NewJournalService(journalRepo, accountSvc, nil)

	accountSvc.On("GetAccountsByIDs", mock.Anything, testCompanyID, mock.Anything).Return(journalTestAccounts(), nil)
	journalRepo.On("SaveJournal", mock.Anything, mock.Anything).Return(nil)

	req := dto.CreateJournalRequest{
		Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []dto.JournalLineRequest{
			{AccountID: "acc-cash", Debit: decimal.RequireFromString("100.00")},
			{AccountID: "acc-sales"},
		},
	}

	entry, err := svc.CreateJournal(context.Background(), testCompanyID, req, testUserID)

	require.NoError(t, err)
	assert.Equal(t, domain.Draft, entry.Status)
}

func TestCreateJournal_PostedRejectsPlaceholderLine(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	accountSvc := new(MockAccountService)
	svc := services.NewJournalService(journalRepo, accountSvc, nil)

	accountSvc.On("GetAccountsByIDs", mock.Anything, testCompanyID, mock.Anything).Return(journalTestAccounts(), nil)

	// Balanced overall, but the third line carries neither side.
	req := dto.CreateJournalRequest{
		Date:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status: domain.Posted,
		Lines: []dto.JournalLineRequest{
			{AccountID: "acc-cash", Debit: decimal.RequireFromString("100.00")},
			{AccountID: "acc-sales", Credit: decimal.RequireFromString("100.00")},
			{AccountID: "acc-cash"},
		},
	}

	_, err := svc.CreateJournal(context.Background(), testCompanyID, req, testUserID)

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrPlaceholderLines)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	journalRepo.AssertNotCalled(t, "SaveJournal", mock.Anything, mock.Anything)
}

func TestCreateJournal_RejectsNegativeAmount(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	svc := services.NewJournalService(journalRepo, new(MockAccountService), nil)

	req := dto.CreateJournalRequest{
		Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []dto.JournalLineRequest{
			{AccountID: "acc-cash", Debit: decimal.RequireFromString("-10.00")},
			{AccountID: "acc-sales", Credit: decimal.RequireFromString("-10.00")},
		},
	}

	_, err := svc.CreateJournal(context.Background(), testCompanyID, req, testUserID)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	journalRepo.AssertNotCalled(t, "SaveJournal", mock.Anything, mock.Anything)
}

func TestCreateJournal_DraftRejectsUnknownAccount(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	accountSvc := new(MockAccountService)
	svc := services.NewJournalService(journalRepo, accountSvc, nil)

	// Registry knows nothing about acc-ghost.
	accountSvc.On("GetAccountsByIDs", mock.Anything, testCompanyID, mock.Anything).Return(map[string]domain.Account{}, nil)

	req := dto.CreateJournalRequest{
		Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []dto.JournalLineRequest{
			{AccountID: "acc-ghost", Debit: decimal.RequireFromString("10.00")},
			{AccountID: "acc-ghost", Credit: decimal.RequireFromString("10.00")},
		},
	}

	_, err := svc.CreateJournal(context.Background(), testCompanyID, req, testUserID)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	journalRepo.AssertNotCalled(t, "SaveJournal", mock.Anything, mock.Anything)
}

func TestCreateJournal_RejectsVoidStatus(t *testing.T) {
	svc := services.NewJournalService(new(MockJournalRepository), new(MockAccountService), nil)

	req := dto.CreateJournalRequest{
		Date:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status: domain.Void,
		Lines:  balancedLines("10.00"),
	}

	_, err := svc.CreateJournal(context.Background(), testCompanyID, req, testUserID)

	assert.ErrorIs(t, err, services.ErrInvalidCreateStatus)
}

func TestGetJournalByID_CrossCompanyHidden(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	svc := services.NewJournalService(journalRepo, new(MockAccountService), nil)

	entry := &domain.JournalEntry{JournalID: "j-1", CompanyID: "someone-else"}
	journalRepo.On("FindJournalByID", mock.Anything, "j-1").Return(entry, nil)

	_, err := svc.GetJournalByID(context.Background(), testCompanyID, "j-1")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostJournal_Success(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	accountSvc := new(MockAccountService)
	svc := services.NewJournalService(journalRepo, accountSvc, nil)

	draft := &domain.JournalEntry{
		JournalID: "j-1",
		CompanyID: testCompanyID,
		Status:    domain.Draft,
		Lines: []domain.JournalLine{
			{AccountID: "acc-cash", Debit: decimal.RequireFromString("100.00")},
			{AccountID: "acc-sales", Credit: decimal.RequireFromString("100.00")},
		},
	}
	journalRepo.On("FindJournalByID", mock.Anything, "j-1").Return(draft, nil)
	accountSvc.On("GetAccountsByIDs", mock.Anything, testCompanyID, mock.Anything).Return(journalTestAccounts(), nil)
	journalRepo.On("UpdateJournalStatus", mock.Anything, "j-1", domain.Draft, domain.Posted, "", testUserID, mock.Anything).Return(nil)

	entry, err := svc.PostJournal(context.Background(), testCompanyID, "j-1", testUserID)

	require.NoError(t, err)
	assert.Equal(t, domain.Posted, entry.Status)
	journalRepo.AssertExpectations(t)
}

func TestPostJournal_RejectsNonDraft(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	svc := services.NewJournalService(journalRepo, new(MockAccountService), nil)

	posted := &domain.JournalEntry{JournalID: "j-1", CompanyID: testCompanyID, Status: domain.Posted}
	journalRepo.On("FindJournalByID", mock.Anything, "j-1").Return(posted, nil)

	_, err := svc.PostJournal(context.Background(), testCompanyID, "j-1", testUserID)

	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
	journalRepo.AssertNotCalled(t, "UpdateJournalStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPostJournal_RejectsUnbalancedDraft(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	accountSvc := new(MockAccountService)
	svc := services.NewJournalService(journalRepo, accountSvc, nil)

	draft := &domain.JournalEntry{
		JournalID: "j-1",
		CompanyID: testCompanyID,
		Status:    domain.Draft,
		Lines: []domain.JournalLine{
			{AccountID: "acc-cash", Debit: decimal.RequireFromString("100.00")},
			{AccountID: "acc-sales", Credit: decimal.RequireFromString("99.00")},
		},
	}
	journalRepo.On("FindJournalByID", mock.Anything, "j-1").Return(draft, nil)
	accountSvc.On("GetAccountsByIDs", mock.Anything, testCompanyID, mock.Anything).Return(journalTestAccounts(), nil)

	_, err := svc.PostJournal(context.Background(), testCompanyID, "j-1", testUserID)

	assert.ErrorIs(t, err, services.ErrJournalNotBalanced)
}

func TestPostJournal_RejectsPlaceholderLine(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	accountSvc := new(MockAccountService)
	svc := services.NewJournalService(journalRepo, accountSvc, nil)

	draft := &domain.JournalEntry{
		JournalID: "j-1",
		CompanyID: testCompanyID,
		Status:    domain.Draft,
		Lines: []domain.JournalLine{
			{AccountID: "acc-cash", Debit: decimal.RequireFromString("100.00")},
			{AccountID: "acc-sales", Credit: decimal.RequireFromString("100.00")},
			{AccountID: "acc-cash"},
		},
	}
	journalRepo.On("FindJournalByID", mock.Anything, "j-1").Return(draft, nil)
	accountSvc.On("GetAccountsByIDs", mock.Anything, testCompanyID, mock.Anything).Return(journalTestAccounts(), nil)

	_, err := svc.PostJournal(context.Background(), testCompanyID, "j-1", testUserID)

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrPlaceholderLines)
	journalRepo.AssertNotCalled(t, "UpdateJournalStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateJournal_RejectsNegativeAmount(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	svc := services.NewJournalService(journalRepo, new(MockAccountService), nil)

	draft := &domain.JournalEntry{JournalID: "j-1", CompanyID: testCompanyID, Status: domain.Draft}
	journalRepo.On("FindJournalByID", mock.Anything, "j-1").Return(draft, nil)

	lines := []dto.JournalLineRequest{
		{AccountID: "acc-cash", Debit: decimal.RequireFromString("-5.00")},
		{AccountID: "acc-sales", Credit: decimal.RequireFromString("5.00")},
	}
	_, err := svc.UpdateJournal(context.Background(), testCompanyID, "j-1", dto.UpdateJournalRequest{Lines: &lines}, testUserID)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	journalRepo.AssertNotCalled(t, "UpdateJournal", mock.Anything, mock.Anything)
}

func TestVoidJournal_Success(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	svc := services.NewJournalService(journalRepo, new(MockAccountService), nil)

	posted := &domain.JournalEntry{JournalID: "j-1", CompanyID: testCompanyID, Status: domain.Posted}
	journalRepo.On("FindJournalByID", mock.Anything, "j-1").Return(posted, nil)
	journalRepo.On("UpdateJournalStatus", mock.Anything, "j-1", domain.Posted, domain.Void, "duplicate", testUserID, mock.Anything).Return(nil)

	entry, err := svc.VoidJournal(context.Background(), testCompanyID, "j-1", "duplicate", testUserID)

	require.NoError(t, err)
	assert.Equal(t, domain.Void, entry.Status)
	assert.Equal(t, "duplicate", entry.VoidReason)
}

func TestVoidJournal_RejectsDraft(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	svc := services.NewJournalService(journalRepo, new(MockAccountService), nil)

	draft := &domain.JournalEntry{JournalID: "j-1", CompanyID: testCompanyID, Status: domain.Draft}
	journalRepo.On("FindJournalByID", mock.Anything, "j-1").Return(draft, nil)

	_, err := svc.VoidJournal(context.Background(), testCompanyID, "j-1", "", testUserID)

	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
}

func TestVoidJournal_RejectsAlreadyVoided(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	svc := services.NewJournalService(journalRepo, new(MockAccountService), nil)

	voided := &domain.JournalEntry{JournalID: "j-1", CompanyID: testCompanyID, Status: domain.Void}
	journalRepo.On("FindJournalByID", mock.Anything, "j-1").Return(voided, nil)

	_, err := svc.VoidJournal(context.Background(), testCompanyID, "j-1", "", testUserID)

	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
}

func TestDeleteJournal_DraftOnly(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	svc := services.NewJournalService(journalRepo, new(MockAccountService), nil)

	draft := &domain.JournalEntry{JournalID: "j-1", CompanyID: testCompanyID, Status: domain.Draft}
	journalRepo.On("FindJournalByID", mock.Anything, "j-1").Return(draft, nil)
	journalRepo.On("SoftDeleteJournal", mock.Anything, "j-1", testUserID, mock.Anything).Return(nil)

	err := svc.DeleteJournal(context.Background(), testCompanyID, "j-1", testUserID)

	require.NoError(t, err)
	journalRepo.AssertExpectations(t)
}

func TestDeleteJournal_RejectsPosted(t *testing.T) {
	journalRepo := new(MockJournalRepository)
	svc := services.NewJournalService(journalRepo, new(MockAccountService), nil)

	posted := &domain.JournalEntry{JournalID: "j-1", CompanyID: testCompanyID, Status: domain.Posted}
	journalRepo.On("FindJournalByID", mock.Anything, "j-1").Return(posted, nil)

	err := svc.DeleteJournal(context.Background(), testCompanyID, "j-1", testUserID)

	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
	journalRepo.AssertNotCalled(t, "SoftDeleteJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
