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

type PgxUserRepository struct {
	BaseRepository
}

// NewUserRepository creates a new repository for user data.
func NewUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, username, name, password_hash, created_at, created_by, last_updated_at, last_updated_by`

// SaveUser persists a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID, m.Username, m.Name, m.PasswordHash,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert user "+m.UserID, classifyError(err))
	}
	return nil
}

// FindUserByID retrieves a user by ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	return r.findUser(ctx, query, userID)
}

// FindUserByUsername retrieves a user by username.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1;`
	return r.findUser(ctx, query, username)
}

func (r *PgxUserRepository) findUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var m models.User
	err := r.Pool.QueryRow(ctx, query, arg).Scan(
		&m.UserID, &m.Username, &m.Name, &m.PasswordHash,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find user", classifyError(err))
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}
