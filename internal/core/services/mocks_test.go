package services_test

import (
	"context"
	"time"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/finbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/finbooks/bookkeeping_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, journalID)
	var entry *domain.JournalEntry
	if args.Get(0) != nil {
		entry = args.Get(0).(*domain.JournalEntry)
	}
	return entry, args.Error(1)
}

func (m *MockJournalRepository) FindJournalsByIDs(ctx context.Context, journalIDs []string) (map[string]domain.JournalEntry, error) {
	args := m.Called(ctx, journalIDs)
	var entries map[string]domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).(map[string]domain.JournalEntry)
	}
	return entries, args.Error(1)
}

func (m *MockJournalRepository) QueryJournals(ctx context.Context, filter portsrepo.JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockJournalRepository) SaveJournal(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateJournalStatus(ctx context.Context, journalID string, expectedStatus, newStatus domain.JournalStatus, voidReason string, userID string, now time.Time) error {
	args := m.Called(ctx, journalID, expectedStatus, newStatus, voidReason, userID, now)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateJournal(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) SoftDeleteJournal(ctx context.Context, journalID string, userID string, now time.Time) error {
	args := m.Called(ctx, journalID, userID, now)
	return args.Error(0)
}

// --- Mock AccountService ---

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	var account *domain.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	var account *domain.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	var accounts map[string]domain.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).(map[string]domain.Account)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, limit, offset)
	var accounts []domain.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).([]domain.Account)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, req, userID)
	var account *domain.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountService) CalculateAccountBalance(ctx context.Context, companyID string, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, companyID, accountID)
	balance := decimal.Zero
	if args.Get(0) != nil {
		balance = args.Get(0).(decimal.Decimal)
	}
	return balance, args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	args := m.Called(ctx, companyID, accountID, userID)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	var account *domain.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	var accounts map[string]domain.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).(map[string]domain.Account)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, limit, offset)
	var accounts []domain.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).([]domain.Account)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountRepository) SumAccountActivity(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	debits := decimal.Zero
	if args.Get(0) != nil {
		debits = args.Get(0).(decimal.Decimal)
	}
	credits := decimal.Zero
	if args.Get(1) != nil {
		credits = args.Get(1).(decimal.Decimal)
	}
	return debits, credits, args.Error(2)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

// --- Mock ReconciliationRepository ---

type MockReconciliationRepository struct {
	mock.Mock
}

func (m *MockReconciliationRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error) {
	args := m.Called(ctx, sessionID)
	var session *domain.ReconciliationSession
	if args.Get(0) != nil {
		session = args.Get(0).(*domain.ReconciliationSession)
	}
	return session, args.Error(1)
}

func (m *MockReconciliationRepository) ListSessionsByAccount(ctx context.Context, companyID, accountID string, limit int, offset int) ([]domain.ReconciliationSession, error) {
	args := m.Called(ctx, companyID, accountID, limit, offset)
	var sessions []domain.ReconciliationSession
	if args.Get(0) != nil {
		sessions = args.Get(0).([]domain.ReconciliationSession)
	}
	return sessions, args.Error(1)
}

func (m *MockReconciliationRepository) SaveSession(ctx context.Context, session domain.ReconciliationSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockReconciliationRepository) UpdateSession(ctx context.Context, session domain.ReconciliationSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}
