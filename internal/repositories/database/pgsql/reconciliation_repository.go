package pgsql

import (
	"context"
	"errors"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/finbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/finbooks/bookkeeping_app/internal/models"
	"github.com/finbooks/bookkeeping_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

// NewReconciliationRepository creates a new repository for reconciliation sessions.
func NewReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

const sessionColumns = `session_id, company_id, account_id, opening_balance, closing_balance, statement_transactions, status, matched_transactions, is_first_reconciliation, notes, completed_at, created_at, created_by, last_updated_at, last_updated_by`

// SaveSession persists a new reconciliation session.
func (r *PgxReconciliationRepository) SaveSession(ctx context.Context, session domain.ReconciliationSession) error {
	m, err := mapping.ToModelReconciliationSession(session)
	if err != nil {
		return apperrors.NewAppError(500, "failed to serialize reconciliation session", err)
	}

	query := `
		INSERT INTO reconciliation_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.SessionID, m.CompanyID, m.AccountID,
		m.OpeningBalance, m.ClosingBalance, m.StatementTransactions,
		m.Status, m.MatchedTransactions, m.IsFirstReconciliation,
		m.Notes, m.CompletedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert reconciliation session "+m.SessionID, classifyError(err))
	}
	return nil
}

// FindSessionByID retrieves a reconciliation session by its ID.
func (r *PgxReconciliationRepository) FindSessionByID(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM reconciliation_sessions WHERE session_id = $1;`

	m, err := scanSession(r.Pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find reconciliation session "+sessionID, classifyError(err))
	}

	session, err := mapping.ToDomainReconciliationSession(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to deserialize reconciliation session "+sessionID, err)
	}
	return &session, nil
}

// ListSessionsByAccount retrieves sessions for an account, newest first.
func (r *PgxReconciliationRepository) ListSessionsByAccount(ctx context.Context, companyID, accountID string, limit int, offset int) ([]domain.ReconciliationSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM reconciliation_sessions
		WHERE company_id = $1 AND account_id = $2
		ORDER BY created_at DESC, session_id DESC
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, accountID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list reconciliation sessions", classifyError(err))
	}
	defer rows.Close()

	sessions := make([]domain.ReconciliationSession, 0, limit)
	for rows.Next() {
		m, err := scanSession(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan reconciliation session row", err)
		}
		session, err := mapping.ToDomainReconciliationSession(m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to deserialize reconciliation session "+m.SessionID, err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating reconciliation session rows", classifyError(err))
	}
	return sessions, nil
}

// UpdateSession replaces the stored state of a session. Completed sessions
// are immutable, so the row is locked and its stored status re-checked
// before writing.
func (r *PgxReconciliationRepository) UpdateSession(ctx context.Context, session domain.ReconciliationSession) error {
	m, err := mapping.ToModelReconciliationSession(session)
	if err != nil {
		return apperrors.NewAppError(500, "failed to serialize reconciliation session", err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var storedStatus string
	err = tx.QueryRow(ctx,
		`SELECT status FROM reconciliation_sessions WHERE session_id = $1 FOR UPDATE;`,
		m.SessionID,
	).Scan(&storedStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock reconciliation session "+m.SessionID, classifyError(err))
	}
	if storedStatus == string(domain.ReconciliationCompleted) {
		return errors.Join(apperrors.ErrNotReconcilable,
			errors.New("reconciliation session "+m.SessionID+" is already completed"))
	}

	_, err = tx.Exec(ctx, `
		UPDATE reconciliation_sessions
		SET opening_balance = $2, closing_balance = $3, statement_transactions = $4,
		    status = $5, matched_transactions = $6, notes = $7, completed_at = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE session_id = $1;
	`, m.SessionID,
		m.OpeningBalance, m.ClosingBalance, m.StatementTransactions,
		m.Status, m.MatchedTransactions, m.Notes, m.CompletedAt,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update reconciliation session "+m.SessionID, classifyError(err))
	}

	return r.Commit(ctx, tx)
}

func scanSession(row pgx.Row) (models.ReconciliationSession, error) {
	var m models.ReconciliationSession
	err := row.Scan(
		&m.SessionID, &m.CompanyID, &m.AccountID,
		&m.OpeningBalance, &m.ClosingBalance, &m.StatementTransactions,
		&m.Status, &m.MatchedTransactions, &m.IsFirstReconciliation,
		&m.Notes, &m.CompletedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}
