package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/dto"
	"github.com/finbooks/bookkeeping_app/internal/middleware"

	portssvc "github.com/finbooks/bookkeeping_app/internal/core/ports/services"
)

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(accountService portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: accountService}
}

// registerAccountRoutes wires the account endpoints under a company scope.
func registerAccountRoutes(company *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := company.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PUT("/:accountID", h.updateAccount)
		accounts.GET("/:accountID/balance", h.getAccountBalance)
		accounts.DELETE("/:accountID", h.deactivateAccount)
	}
}

// createAccount godoc
// @Summary Create an account
// @Description Adds an account to the company's chart of accounts.
// @Tags accounts
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), companyID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Account number already exists"})
		default:
			logger.Error("Failed to create account", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create account"})
		}
		return
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param companyID path string true "Company ID"
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), companyID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
			return
		}
		logger.Error("Failed to get account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve account"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Edits an account's number, name or description. The account type is not editable.
// @Tags accounts
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param accountID path string true "Account ID"
// @Param account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/accounts/{accountID} [put]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	accountID := c.Param("accountID")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), companyID, accountID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Account number already exists"})
		default:
			logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update account"})
		}
		return
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getAccountBalance godoc
// @Summary Get an account's posted balance
// @Description Returns the balance of posted entries on the account's normal balance side.
// @Tags accounts
// @Produce json
// @Param companyID path string true "Company ID"
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/accounts/{accountID}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	accountID := c.Param("accountID")

	balance, err := h.accountService.CalculateAccountBalance(c.Request.Context(), companyID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
			return
		}
		logger.Error("Failed to calculate account balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to calculate account balance"})
		return
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{AccountID: accountID, Balance: balance})
}

// listAccounts godoc
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Param companyID path string true "Company ID"
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list accounts"})
		return
	}

	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToAccountResponses(accounts)})
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Marks an account inactive so new journal lines reject it.
// @Tags accounts
// @Produce json
// @Param companyID path string true "Company ID"
// @Param accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/accounts/{accountID} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	accountID := c.Param("accountID")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.accountService.DeactivateAccount(c.Request.Context(), companyID, accountID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
			return
		}
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to deactivate account"})
		return
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	c.Status(http.StatusNoContent)
}
