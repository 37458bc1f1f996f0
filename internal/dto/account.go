package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	AccountNumber string             `json:"accountNumber" binding:"required"`
	Name          string             `json:"name" binding:"required"`
	AccountType   domain.AccountType `json:"accountType" binding:"required,accounttype"`
	Description   string             `json:"description"`
}

// UpdateAccountRequest defines the editable fields of an account. Nil fields
// are left unchanged. The account type is not editable: posted lines may
// already reference it.
type UpdateAccountRequest struct {
	AccountNumber *string `json:"accountNumber"`
	Name          *string `json:"name"`
	Description   *string `json:"description"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	CompanyID     string             `json:"companyID"`
	AccountNumber string             `json:"accountNumber"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	Description   string             `json:"description"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// AccountBalanceResponse reports an account's posted balance on its normal
// balance side.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		CompanyID:     a.CompanyID,
		AccountNumber: a.AccountNumber,
		Name:          a.Name,
		AccountType:   a.AccountType,
		Description:   a.Description,
		IsActive:      a.IsActive,
		CreatedAt:     a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
