package services_test

import (
	"context"
	"testing"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/core/services"
	"github.com/finbooks/bookkeeping_app/internal/dto"
	"github.com/finbooks/bookkeeping_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := services.NewUserService(userRepo)

	userRepo.On("FindUserByUsername", mock.Anything, "alice").Return(nil, apperrors.ErrNotFound)
	userRepo.On("SaveUser", mock.Anything, mock.Anything).Return(nil)

	req := dto.RegisterUserRequest{Username: "alice", Name: "Alice", Password: "s3cret-pass"}

	user, err := svc.RegisterUser(context.Background(), req)

	require.NoError(t, err)
	assert.NotEmpty(t, user.UserID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("s3cret-pass", user.PasswordHash))
	userRepo.AssertExpectations(t)
}

func TestRegisterUser_UsernameTaken(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := services.NewUserService(userRepo)

	existing := &domain.User{UserID: "user-9", Username: "alice"}
	userRepo.On("FindUserByUsername", mock.Anything, "alice").Return(existing, nil)

	req := dto.RegisterUserRequest{Username: "alice", Name: "Alice", Password: "s3cret-pass"}

	_, err := svc.RegisterUser(context.Background(), req)

	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	userRepo.AssertNotCalled(t, "SaveUser", mock.Anything, mock.Anything)
}

func TestAuthenticateUser_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := services.NewUserService(userRepo)

	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	stored := &domain.User{UserID: "user-1", Username: "alice", PasswordHash: hash}
	userRepo.On("FindUserByUsername", mock.Anything, "alice").Return(stored, nil)

	user, err := svc.AuthenticateUser(context.Background(), "alice", "s3cret-pass")

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.UserID)
}

func TestAuthenticateUser_WrongPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := services.NewUserService(userRepo)

	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	stored := &domain.User{UserID: "user-1", Username: "alice", PasswordHash: hash}
	userRepo.On("FindUserByUsername", mock.Anything, "alice").Return(stored, nil)

	_, err = svc.AuthenticateUser(context.Background(), "alice", "wrong-pass")

	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestGetUserByID_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := services.NewUserService(userRepo)

	stored := &domain.User{UserID: "user-1", Username: "alice", Name: "Alice"}
	userRepo.On("FindUserByID", mock.Anything, "user-1").Return(stored, nil)

	user, err := svc.GetUserByID(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestGetUserByID_NotFound(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := services.NewUserService(userRepo)

	userRepo.On("FindUserByID", mock.Anything, "user-missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.GetUserByID(context.Background(), "user-missing")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAuthenticateUser_UnknownUsername(t *testing.T) {
	userRepo := new(MockUserRepository)
	svc := services.NewUserService(userRepo)

	userRepo.On("FindUserByUsername", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound)

	_, err := svc.AuthenticateUser(context.Background(), "ghost", "whatever")

	// The error does not reveal whether the username exists.
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}
