package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/finbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/finbooks/bookkeeping_app/internal/dto"
	"github.com/finbooks/bookkeeping_app/internal/middleware"
	"github.com/finbooks/bookkeeping_app/internal/utils"
)

// ErrInvalidCredentials is returned on a failed login without revealing
// whether the username exists.
var ErrInvalidCredentials = errors.New("invalid username or password")

type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser creates a user with a bcrypt password hash.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if existing, err := s.userRepo.FindUserByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: username %s is taken", apperrors.ErrDuplicate, req.Username)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID, // Self-registered
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

// AuthenticateUser verifies credentials and returns the user on success.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}
