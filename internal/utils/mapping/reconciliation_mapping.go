package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/models"
)

// ToModelReconciliationSession converts a domain session to its model form,
// serializing the statement rows and matched pairs to JSON for storage.
func ToModelReconciliationSession(d domain.ReconciliationSession) (models.ReconciliationSession, error) {
	stmtJSON, err := json.Marshal(d.Statement.Transactions)
	if err != nil {
		return models.ReconciliationSession{}, fmt.Errorf("failed to encode statement transactions: %w", err)
	}
	matches := d.MatchedTransactions
	if matches == nil {
		matches = []domain.MatchedTransaction{}
	}
	matchesJSON, err := json.Marshal(matches)
	if err != nil {
		return models.ReconciliationSession{}, fmt.Errorf("failed to encode matched transactions: %w", err)
	}

	return models.ReconciliationSession{
		SessionID:             d.SessionID,
		CompanyID:             d.CompanyID,
		AccountID:             d.AccountID,
		OpeningBalance:        d.Statement.OpeningBalance,
		ClosingBalance:        d.Statement.ClosingBalance,
		StatementTransactions: stmtJSON,
		Status:                models.ReconciliationStatus(d.Status),
		MatchedTransactions:   matchesJSON,
		IsFirstReconciliation: d.IsFirstReconciliation,
		Notes:                 d.Notes,
		CompletedAt:           d.CompletedAt,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainReconciliationSession converts a model session back to its domain
// form, decoding the JSON columns into typed slices.
func ToDomainReconciliationSession(m models.ReconciliationSession) (domain.ReconciliationSession, error) {
	var stmtTxns []domain.StatementTransaction
	if len(m.StatementTransactions) > 0 {
		if err := json.Unmarshal(m.StatementTransactions, &stmtTxns); err != nil {
			return domain.ReconciliationSession{}, fmt.Errorf("failed to decode statement transactions: %w", err)
		}
	}
	var matches []domain.MatchedTransaction
	if len(m.MatchedTransactions) > 0 {
		if err := json.Unmarshal(m.MatchedTransactions, &matches); err != nil {
			return domain.ReconciliationSession{}, fmt.Errorf("failed to decode matched transactions: %w", err)
		}
	}
	if matches == nil {
		matches = []domain.MatchedTransaction{}
	}

	return domain.ReconciliationSession{
		SessionID: m.SessionID,
		CompanyID: m.CompanyID,
		AccountID: m.AccountID,
		Statement: domain.BankStatement{
			AccountID:      m.AccountID,
			OpeningBalance: m.OpeningBalance,
			ClosingBalance: m.ClosingBalance,
			Transactions:   stmtTxns,
		},
		Status:                domain.ReconciliationStatus(m.Status),
		MatchedTransactions:   matches,
		IsFirstReconciliation: m.IsFirstReconciliation,
		Notes:                 m.Notes,
		CompletedAt:           m.CompletedAt,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}, nil
}
