package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/finbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/finbooks/bookkeeping_app/internal/models"
	"github.com/finbooks/bookkeeping_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, company_id, account_number, name, account_type, description, is_active, created_at, created_by, last_updated_at, last_updated_by`

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.CompanyID, m.AccountNumber, m.Name, m.AccountType,
		m.Description, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: account number %s", apperrors.ErrDuplicate, m.AccountNumber)
		}
		return apperrors.NewAppError(500, "failed to insert account "+m.AccountID, classifyError(err))
	}
	return nil
}

// FindAccountByID retrieves a specific account by its unique identifier.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+accountID, classifyError(err))
	}

	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. Missing IDs are
// simply absent from the result map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by IDs", classifyError(err))
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", classifyError(err))
	}
	return accounts, nil
}

// ListAccounts retrieves a paginated list of accounts for a given company,
// ordered by account number for a stable chart-of-accounts view.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1
		ORDER BY account_number, account_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list accounts", classifyError(err))
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", classifyError(err))
	}
	return accounts, nil
}

// SumAccountActivity returns the total debits and credits posted against the
// account. Only POSTED, non-deleted entries contribute.
func (r *PgxAccountRepository) SumAccountActivity(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journals j ON j.journal_id = l.journal_id
		WHERE l.account_id = $1
		  AND j.status = 'POSTED'
		  AND j.deleted_at IS NULL;
	`
	var debits, credits decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&debits, &credits); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to sum activity for account "+accountID, classifyError(err))
	}
	return debits, credits, nil
}

// UpdateAccount updates an existing account's details. The account type is
// deliberately not updatable: journal lines may already reference it.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET account_number = $2, name = $3, description = $4, is_active = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.AccountNumber, m.Name, m.Description, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%w: account number %s", apperrors.ErrDuplicate, m.AccountNumber)
		}
		return apperrors.NewAppError(500, "failed to update account "+m.AccountID, classifyError(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate account "+accountID, classifyError(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID, &m.CompanyID, &m.AccountNumber, &m.Name, &m.AccountType,
		&m.Description, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}
