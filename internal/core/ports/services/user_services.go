package services

import (
	"context"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/dto"
)

// UserSvcFacade covers registration and credential checks.
type UserSvcFacade interface {
	// RegisterUser creates a user with a bcrypt password hash.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// AuthenticateUser verifies credentials and returns the user on success.
	AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
