package dto

import (
	"time"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
)

// RegisterUserRequest defines the payload for creating a user.
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest defines the login payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token for subsequent requests.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID   string `json:"userID"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// ToUserResponse converts a domain.User to its response DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:   u.UserID,
		Username: u.Username,
		Name:     u.Name,
	}
}
