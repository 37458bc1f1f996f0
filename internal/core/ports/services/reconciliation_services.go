package services

import (
	"context"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/dto"
	"github.com/finbooks/bookkeeping_app/internal/utils/matching"
	"github.com/shopspring/decimal"
)

// ReconciliationSvcFacade drives the reconciliation session lifecycle:
// DRAFT (matches accumulate) -> COMPLETED (terminal).
type ReconciliationSvcFacade interface {
	// ParseStatement parses a raw CSV export without opening a session.
	ParseStatement(ctx context.Context, companyID string, req dto.ParseStatementRequest) (*domain.BankStatement, error)

	// CreateReconciliation parses the statement and opens a DRAFT session.
	CreateReconciliation(ctx context.Context, companyID string, req dto.CreateReconciliationRequest, creatorUserID string) (*domain.ReconciliationSession, error)

	// GetSession retrieves a session, scoped to the company.
	GetSession(ctx context.Context, companyID string, sessionID string) (*domain.ReconciliationSession, error)

	// ListSessions lists an account's reconciliation sessions, newest first.
	ListSessions(ctx context.Context, companyID string, accountID string, limit int, offset int) ([]domain.ReconciliationSession, error)

	// AutoMatch runs the matcher over the session's statement against posted
	// ledger entries in the statement period and returns the proposals. It
	// does not apply them.
	AutoMatch(ctx context.Context, companyID string, sessionID string) ([]matching.Match, error)

	// ApplyMatches merges matches into a DRAFT session, deduplicated by
	// statement index, and returns the updated session.
	ApplyMatches(ctx context.Context, companyID string, sessionID string, matches []domain.MatchedTransaction, userID string) (*domain.ReconciliationSession, error)

	// CalculateDiscrepancy returns the residual between the statement's
	// implied net change and the net movement of the matched ledger entries.
	CalculateDiscrepancy(ctx context.Context, companyID string, sessionID string) (decimal.Decimal, error)

	// GetReconciliationSummary reports counts, match rate and balance status.
	GetReconciliationSummary(ctx context.Context, companyID string, sessionID string) (*dto.ReconciliationSummaryResponse, error)

	// CompleteReconciliation transitions DRAFT -> COMPLETED and stamps
	// completed_at. Completing a COMPLETED session fails with NotReconcilable.
	CompleteReconciliation(ctx context.Context, companyID string, sessionID string, notes string, userID string) (*domain.ReconciliationSession, error)
}
