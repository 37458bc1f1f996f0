package dto

import (
	"time"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/utils/matching"
	"github.com/shopspring/decimal"
)

// ParseStatementRequest carries a raw CSV export plus the caller's
// authoritative balances when the export omits them.
type ParseStatementRequest struct {
	AccountID      string           `json:"accountID" binding:"required"`
	RawCSV         string           `json:"rawCSV" binding:"required"`
	OpeningBalance *decimal.Decimal `json:"openingBalance"`
	ClosingBalance *decimal.Decimal `json:"closingBalance"`
}

// CreateReconciliationRequest opens a reconciliation session for one account
// and one statement.
type CreateReconciliationRequest struct {
	AccountID             string           `json:"accountID" binding:"required"`
	RawCSV                string           `json:"rawCSV" binding:"required"`
	OpeningBalance        *decimal.Decimal `json:"openingBalance"`
	ClosingBalance        *decimal.Decimal `json:"closingBalance"`
	IsFirstReconciliation bool             `json:"isFirstReconciliation"`
}

// MatchRequest is one statement-row-to-journal pairing supplied by a caller.
type MatchRequest struct {
	StatementIndex int    `json:"statementIndex"`
	JournalID      string `json:"journalID" binding:"required"`
}

// ApplyMatchesRequest attaches matches to a DRAFT session.
type ApplyMatchesRequest struct {
	Matches []MatchRequest `json:"matches" binding:"required,min=1,dive"`
}

// CompleteReconciliationRequest finalizes a session.
type CompleteReconciliationRequest struct {
	Notes string `json:"notes"`
}

// StatementTransactionResponse is one normalized statement row.
type StatementTransactionResponse struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// StatementResponse is the normalized statement returned by the parse preview.
type StatementResponse struct {
	AccountID      string                         `json:"accountID"`
	OpeningBalance decimal.Decimal                `json:"openingBalance"`
	ClosingBalance decimal.Decimal                `json:"closingBalance"`
	Transactions   []StatementTransactionResponse `json:"transactions"`
}

// MatchResponse is one proposed or applied pairing.
type MatchResponse struct {
	StatementIndex int     `json:"statementIndex"`
	JournalID      string  `json:"journalID"`
	Confidence     float64 `json:"confidence"`
	MatchType      string  `json:"matchType"`
}

// ReconciliationSessionResponse is the API shape of a session.
type ReconciliationSessionResponse struct {
	SessionID             string                      `json:"sessionID"`
	CompanyID             string                      `json:"companyID"`
	AccountID             string                      `json:"accountID"`
	Status                domain.ReconciliationStatus `json:"status"`
	Statement             StatementResponse           `json:"statement"`
	MatchedTransactions   []domain.MatchedTransaction `json:"matchedTransactions"`
	IsFirstReconciliation bool                        `json:"isFirstReconciliation"`
	Notes                 string                      `json:"notes,omitempty"`
	CompletedAt           *time.Time                  `json:"completedAt,omitempty"`
	CreatedAt             time.Time                   `json:"createdAt"`
}

// ListReconciliationsResponse wraps a page of sessions for one account.
type ListReconciliationsResponse struct {
	Sessions []ReconciliationSessionResponse `json:"sessions"`
}

// ReconciliationSummaryResponse reports progress over a session.
type ReconciliationSummaryResponse struct {
	TotalStatementTransactions int             `json:"totalStatementTransactions"`
	MatchedCount               int             `json:"matchedCount"`
	UnmatchedStatementCount    int             `json:"unmatchedStatementCount"`
	MatchRate                  float64         `json:"matchRate"`
	Discrepancy                decimal.Decimal `json:"discrepancy"`
	IsBalanced                 bool            `json:"isBalanced"`
}

// ToStatementResponse converts a domain.BankStatement to its response DTO.
func ToStatementResponse(s *domain.BankStatement) StatementResponse {
	txns := make([]StatementTransactionResponse, len(s.Transactions))
	for i, txn := range s.Transactions {
		txns[i] = StatementTransactionResponse{
			Date:        txn.Date,
			Description: txn.Description,
			Amount:      txn.Amount,
		}
	}
	return StatementResponse{
		AccountID:      s.AccountID,
		OpeningBalance: s.OpeningBalance,
		ClosingBalance: s.ClosingBalance,
		Transactions:   txns,
	}
}

// ToSessionResponse converts a domain session to its response DTO.
func ToSessionResponse(s *domain.ReconciliationSession) ReconciliationSessionResponse {
	return ReconciliationSessionResponse{
		SessionID:             s.SessionID,
		CompanyID:             s.CompanyID,
		AccountID:             s.AccountID,
		Status:                s.Status,
		Statement:             ToStatementResponse(&s.Statement),
		MatchedTransactions:   s.MatchedTransactions,
		IsFirstReconciliation: s.IsFirstReconciliation,
		Notes:                 s.Notes,
		CompletedAt:           s.CompletedAt,
		CreatedAt:             s.CreatedAt,
	}
}

// ToSessionResponses converts a slice of domain sessions.
func ToSessionResponses(sessions []domain.ReconciliationSession) []ReconciliationSessionResponse {
	responses := make([]ReconciliationSessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = ToSessionResponse(&sessions[i])
	}
	return responses
}

// ToMatchResponses converts matcher output for the API.
func ToMatchResponses(matches []matching.Match) []MatchResponse {
	responses := make([]MatchResponse, len(matches))
	for i, m := range matches {
		responses[i] = MatchResponse{
			StatementIndex: m.StatementIndex,
			JournalID:      m.JournalID,
			Confidence:     m.Confidence,
			MatchType:      string(m.MatchType),
		}
	}
	return responses
}
