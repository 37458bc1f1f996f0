package services

import (
	"context"
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
	"github.com/finbooks/bookkeeping_app/internal/utils/accounting"
	"github.com/finbooks/bookkeeping_app/internal/utils/matching"
	"github.com/finbooks/bookkeeping_app/internal/utils/statement"
)

// reconciliationService drives the reconciliation session lifecycle:
// DRAFT (matches accumulate) -> COMPLETED (terminal).
type reconciliationService struct {
	reconRepo   portsrepo.ReconciliationRepositoryFacade
	journalRepo portsrepo.JournalRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	audit       portssvc.AuditNotifier
	matcherCfg  matching.Config
	// tolerance is the widest |discrepancy| still considered balanced.
	// Defaults to zero: balanced means exact to the smallest currency unit.
	tolerance decimal.Decimal
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(reconRepo portsrepo.ReconciliationRepositoryFacade, journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade, audit portssvc.AuditNotifier, matcherCfg matching.Config) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		reconRepo:   reconRepo,
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		audit:       audit,
		matcherCfg:  matcherCfg,
		tolerance:   decimal.Zero,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// ParseStatement parses a raw CSV export without opening a session, so the UI
// can preview the normalized statement first.
func (s *reconciliationService) ParseStatement(ctx context.Context, companyID string, req dto.ParseStatementRequest) (*domain.BankStatement, error) {
	if _, err := s.accountSvc.GetAccountByID(ctx, companyID, req.AccountID); err != nil {
		return nil, err
	}

	stmt, err := statement.Parse(req.RawCSV, statement.ParseOptions{
		AccountID:      req.AccountID,
		OpeningBalance: req.OpeningBalance,
		ClosingBalance: req.ClosingBalance,
	})
	if err != nil {
		return nil, err
	}
	return &stmt, nil
}

// CreateReconciliation parses the statement and opens a DRAFT session with an
// empty match list.
func (s *reconciliationService) CreateReconciliation(ctx context.Context, companyID string, req dto.CreateReconciliationRequest, creatorUserID string) (*domain.ReconciliationSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	stmt, err := s.ParseStatement(ctx, companyID, dto.ParseStatementRequest{
		AccountID:      req.AccountID,
		RawCSV:         req.RawCSV,
		OpeningBalance: req.OpeningBalance,
		ClosingBalance: req.ClosingBalance,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := domain.ReconciliationSession{
		SessionID:             uuid.NewString(),
		CompanyID:             companyID,
		AccountID:             req.AccountID,
		Statement:             *stmt,
		Status:                domain.ReconciliationDraft,
		MatchedTransactions:   []domain.MatchedTransaction{},
		IsFirstReconciliation: req.IsFirstReconciliation,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.reconRepo.SaveSession(ctx, session); err != nil {
		logger.Error("Failed to save reconciliation session", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save reconciliation session: %w", err)
	}

	if s.audit != nil {
		s.audit.OnEntityChange(ctx, "reconciliation_session", session.SessionID, nil, session)
	}

	logger.Info("Reconciliation session created",
		slog.String("session_id", session.SessionID),
		slog.String("account_id", req.AccountID),
		slog.Int("statement_rows", len(stmt.Transactions)))
	return &session, nil
}

// GetSession retrieves a session, scoped to the company.
func (s *reconciliationService) GetSession(ctx context.Context, companyID string, sessionID string) (*domain.ReconciliationSession, error) {
	session, err := s.reconRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return session, nil
}

// ListSessions lists an account's reconciliation sessions, newest first. The
// account lookup scopes the call to the company.
func (s *reconciliationService) ListSessions(ctx context.Context, companyID string, accountID string, limit int, offset int) ([]domain.ReconciliationSession, error) {
	if _, err := s.accountSvc.GetAccountByID(ctx, companyID, accountID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	return s.reconRepo.ListSessionsByAccount(ctx, companyID, accountID, limit, offset)
}

// AutoMatch runs the matcher over the session's statement against posted
// ledger entries in the statement period (widened by the date tolerance
// window). It returns proposals without applying them.
func (s *reconciliationService) AutoMatch(ctx context.Context, companyID string, sessionID string) ([]matching.Match, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	session, err := s.GetSession(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, fmt.Errorf("%w: session %s is already completed", apperrors.ErrNotReconcilable, sessionID)
	}

	account, err := s.accountSvc.GetAccountByID(ctx, companyID, session.AccountID)
	if err != nil {
		return nil, err
	}

	entries, err := s.candidateEntries(ctx, session, account.AccountID)
	if err != nil {
		return nil, err
	}

	matches := matching.MatchTransactions(session.Statement.Transactions, entries, *account, s.matcherCfg)
	logger.Info("Auto-match completed",
		slog.String("session_id", sessionID),
		slog.Int("candidates", len(entries)),
		slog.Int("matches", len(matches)))
	return matches, nil
}

// ApplyMatches merges matches into a DRAFT session, deduplicated by statement
// index. The stored session is replaced with an updated copy; the input
// session object is never mutated.
func (s *reconciliationService) ApplyMatches(ctx context.Context, companyID string, sessionID string, matches []domain.MatchedTransaction, userID string) (*domain.ReconciliationSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	session, err := s.GetSession(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, fmt.Errorf("%w: session %s is already completed", apperrors.ErrNotReconcilable, sessionID)
	}

	for _, m := range matches {
		if m.StatementIndex < 0 || m.StatementIndex >= len(session.Statement.Transactions) {
			return nil, fmt.Errorf("%w: statement index %d is out of range", apperrors.ErrValidation, m.StatementIndex)
		}
	}
	if err := s.checkJournalRefs(ctx, companyID, matches); err != nil {
		return nil, err
	}

	updated := session.WithMatches(matches)
	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID

	if err := s.reconRepo.UpdateSession(ctx, updated); err != nil {
		logger.Error("Failed to update reconciliation session", slog.String("error", err.Error()), slog.String("session_id", sessionID))
		return nil, fmt.Errorf("failed to update reconciliation session: %w", err)
	}

	if s.audit != nil {
		s.audit.OnEntityChange(ctx, "reconciliation_session", sessionID, *session, updated)
	}

	return &updated, nil
}

// CalculateDiscrepancy returns the difference between the statement's implied
// net change and the net movement of the matched ledger entries on the
// reconciled account. Zero means the matched ledger fully explains the
// statement period.
func (s *reconciliationService) CalculateDiscrepancy(ctx context.Context, companyID string, sessionID string) (decimal.Decimal, error) {
	session, err := s.GetSession(ctx, companyID, sessionID)
	if err != nil {
		return decimal.Zero, err
	}
	return s.discrepancyFor(ctx, companyID, session)
}

// GetReconciliationSummary reports counts, match rate and balance status.
func (s *reconciliationService) GetReconciliationSummary(ctx context.Context, companyID string, sessionID string) (*dto.ReconciliationSummaryResponse, error) {
	session, err := s.GetSession(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}

	discrepancy, err := s.discrepancyFor(ctx, companyID, session)
	if err != nil {
		return nil, err
	}

	total := len(session.Statement.Transactions)
	matched := len(session.MatchedTransactions)
	matchRate := 0.0
	if total > 0 {
		matchRate = float64(matched) / float64(total) * 100
	}

	return &dto.ReconciliationSummaryResponse{
		TotalStatementTransactions: total,
		MatchedCount:               matched,
		UnmatchedStatementCount:    total - matched,
		MatchRate:                  matchRate,
		Discrepancy:                discrepancy,
		IsBalanced:                 discrepancy.Abs().LessThanOrEqual(s.tolerance),
	}, nil
}

// CompleteReconciliation transitions DRAFT -> COMPLETED and stamps
// completed_at. Completing an already-completed session fails with
// NotReconcilable rather than succeeding silently, so double submissions
// surface instead of masking a lost update.
func (s *reconciliationService) CompleteReconciliation(ctx context.Context, companyID string, sessionID string, notes string, userID string) (*domain.ReconciliationSession, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	session, err := s.GetSession(ctx, companyID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, fmt.Errorf("%w: session %s is already completed", apperrors.ErrNotReconcilable, sessionID)
	}

	now := time.Now().UTC()
	updated := *session
	updated.Status = domain.ReconciliationCompleted
	updated.CompletedAt = &now
	if notes != "" {
		updated.Notes = notes
	}
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID

	if err := s.reconRepo.UpdateSession(ctx, updated); err != nil {
		logger.Error("Failed to complete reconciliation session", slog.String("error", err.Error()), slog.String("session_id", sessionID))
		return nil, err
	}

	if s.audit != nil {
		s.audit.OnEntityChange(ctx, "reconciliation_session", sessionID, *session, updated)
	}

	logger.Info("Reconciliation session completed", slog.String("session_id", sessionID))
	return &updated, nil
}

// discrepancyFor computes the residual for one session.
func (s *reconciliationService) discrepancyFor(ctx context.Context, companyID string, session *domain.ReconciliationSession) (decimal.Decimal, error) {
	account, err := s.accountSvc.GetAccountByID(ctx, companyID, session.AccountID)
	if err != nil {
		return decimal.Zero, err
	}

	matchedIDs := session.MatchedJournalIDs()
	ledgerNet := decimal.Zero
	if len(matchedIDs) > 0 {
		entries, err := s.journalRepo.FindJournalsByIDs(ctx, matchedIDs)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to fetch matched journal entries: %w", err)
		}
		for _, id := range matchedIDs {
			entry, found := entries[id]
			if !found {
				// Validated at apply time; a missing entry here is a bug or a
				// hard-deleted row, not a user error.
				return decimal.Zero, fmt.Errorf("%w: matched journal entry %s no longer exists", apperrors.ErrInternal, id)
			}
			movement, err := accounting.NetEntryMovement(entry, session.AccountID, account.AccountType)
			if err != nil {
				return decimal.Zero, err
			}
			ledgerNet = ledgerNet.Add(movement)
		}
	}

	return session.Statement.NetChange().Sub(ledgerNet), nil
}

// candidateEntries pages through posted entries touching the account over the
// statement period, widened by the fuzzy window. Cancellation is checked
// between pages via the repository's context handling.
func (s *reconciliationService) candidateEntries(ctx context.Context, session *domain.ReconciliationSession, accountID string) ([]domain.JournalEntry, error) {
	from, to, ok := session.Statement.PeriodBounds()
	if !ok {
		return nil, nil
	}
	window := s.matcherCfg.DateToleranceDays
	if window <= 0 {
		window = matching.DefaultDateToleranceDays
	}
	fromDate := from.AddDate(0, 0, -window)
	toDate := to.AddDate(0, 0, window)

	posted := domain.Posted
	filter := portsrepo.JournalFilter{
		CompanyID: session.CompanyID,
		Status:    &posted,
		FromDate:  &fromDate,
		ToDate:    &toDate,
		AccountID: &accountID,
	}

	var entries []domain.JournalEntry
	var nextToken *string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, token, err := s.journalRepo.QueryJournals(ctx, filter, defaultQueryLimit, nextToken)
		if err != nil {
			return nil, fmt.Errorf("failed to query candidate entries: %w", err)
		}
		entries = append(entries, page...)
		if token == nil {
			break
		}
		nextToken = token
	}
	return entries, nil
}

// checkJournalRefs verifies every referenced journal entry exists and belongs
// to the company. Sessions reference ledger entries, never mutate them.
func (s *reconciliationService) checkJournalRefs(ctx context.Context, companyID string, matches []domain.MatchedTransaction) error {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.JournalID)
	}
	entries, err := s.journalRepo.FindJournalsByIDs(ctx, uniqueStrings(ids))
	if err != nil {
		return fmt.Errorf("failed to fetch journal entries for matches: %w", err)
	}
	for _, m := range matches {
		entry, found := entries[m.JournalID]
		if !found || entry.CompanyID != companyID {
			return fmt.Errorf("%w: journal entry %s does not exist", apperrors.ErrValidation, m.JournalID)
		}
	}
	return nil
}
