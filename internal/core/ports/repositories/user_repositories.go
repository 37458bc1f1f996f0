package repositories

import (
	"context"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
)

// UserRepositoryFacade defines persistence operations for users.
type UserRepositoryFacade interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID retrieves a user by ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByUsername retrieves a user by username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}
