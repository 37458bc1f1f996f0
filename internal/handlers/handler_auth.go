package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/core/services"
	"github.com/finbooks/bookkeeping_app/internal/dto"
	"github.com/finbooks/bookkeeping_app/internal/middleware"
	"github.com/finbooks/bookkeeping_app/internal/utils"
	"github.com/finbooks/bookkeeping_app/pkg/config"

	portssvc "github.com/finbooks/bookkeeping_app/internal/core/ports/services"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService portssvc.UserSvcFacade
	cfg         *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us portssvc.UserSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{userService: us, cfg: cfg}
}

// registerAuthRoutes sets up the public authentication routes. Login and
// register are rate limited per IP to slow down credential stuffing.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, userService portssvc.UserSvcFacade) {
	h := NewAuthHandler(userService, cfg)

	ipLimiter := limiter.New(memory.NewStore(), limiter.Rate{
		Period: cfg.RateLimitPeriod,
		Limit:  cfg.RateLimitRequests,
	})
	limited := middleware.RateLimit(ipLimiter)

	auth := r.Group("/auth")
	{
		auth.POST("/login", limited, h.Login)
		auth.POST("/register", limited, h.Register)
	}
}

// registerUserRoutes wires the authenticated user endpoints under /api/v1.
func registerUserRoutes(v1 *gin.RouterGroup, cfg *config.Config, userService portssvc.UserSvcFacade) {
	h := NewAuthHandler(userService, cfg)
	v1.GET("/users/me", h.GetMe)
}

// Register godoc
// @Summary Register a new user
// @Description Creates a user account with a hashed password.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Username already taken"})
			return
		}
		logger.Error("Failed to register user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register user"})
		return
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// GetMe godoc
// @Summary Get the authenticated user
// @Description Returns the profile of the user identified by the bearer token.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		logger.Error("Failed to get user", slog.String("error", err.Error()), slog.String("user_id", userID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve user"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
			return
		}
		logger.Error("Failed to authenticate user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Login failed"})
		return
	}

	token, expiresAt, err := utils.GenerateJWT(user.UserID, h.cfg.JWTSecret, h.cfg.JWTIssuer, h.cfg.JWTExpiryDuration)
	if err != nil {
		logger.Error("Failed to generate token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Login failed"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	})
}
