package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/dto"
	"github.com/finbooks/bookkeeping_app/internal/middleware"

	portssvc "github.com/finbooks/bookkeeping_app/internal/core/ports/services"
)

// reconciliationHandler handles statement parsing and reconciliation sessions.
type reconciliationHandler struct {
	reconService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(reconService portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconService: reconService}
}

// registerReconciliationRoutes wires statement and reconciliation endpoints
// under a company scope.
func registerReconciliationRoutes(company *gin.RouterGroup, reconService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconService)

	company.POST("/statements/parse", h.parseStatement)

	recons := company.Group("/reconciliations")
	{
		recons.POST("", h.createReconciliation)
		recons.GET("", h.listSessions)
		recons.GET("/:sessionID", h.getSession)
		recons.POST("/:sessionID/automatch", h.autoMatch)
		recons.POST("/:sessionID/matches", h.applyMatches)
		recons.GET("/:sessionID/summary", h.getSummary)
		recons.POST("/:sessionID/complete", h.completeReconciliation)
	}
}

// parseStatement godoc
// @Summary Parse a bank statement CSV
// @Description Parses a raw CSV export into a normalized statement without opening a session.
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param statement body dto.ParseStatementRequest true "Raw statement"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/statements/parse [post]
func (h *reconciliationHandler) parseStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.ParseStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	statement, err := h.reconService.ParseStatement(c.Request.Context(), companyID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrParse):
			logger.Warn("Statement failed to parse", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
		default:
			logger.Error("Failed to parse statement", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to parse statement"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToStatementResponse(statement))
}

// createReconciliation godoc
// @Summary Open a reconciliation session
// @Description Parses the statement and opens a DRAFT session against the account.
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param session body dto.CreateReconciliationRequest true "Statement and account"
// @Success 201 {object} dto.ReconciliationSessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/reconciliations [post]
func (h *reconciliationHandler) createReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	session, err := h.reconService.CreateReconciliation(c.Request.Context(), companyID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrParse), errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
		default:
			logger.Error("Failed to create reconciliation session", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create reconciliation session"})
		}
		return
	}

	logger.Info("Reconciliation session created", slog.String("session_id", session.SessionID))
	c.JSON(http.StatusCreated, dto.ToSessionResponse(session))
}

// listSessions godoc
// @Summary List an account's reconciliation sessions
// @Description Lists the sessions opened against one account, newest first.
// @Tags reconciliations
// @Produce json
// @Param companyID path string true "Company ID"
// @Param accountID query string true "Account ID"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListReconciliationsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/reconciliations [get]
func (h *reconciliationHandler) listSessions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	accountID := c.Query("accountID")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "accountID query parameter is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	sessions, err := h.reconService.ListSessions(c.Request.Context(), companyID, accountID, limit, offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
			return
		}
		logger.Error("Failed to list reconciliation sessions", slog.String("error", err.Error()), slog.String("account_id", accountID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list reconciliation sessions"})
		return
	}

	c.JSON(http.StatusOK, dto.ListReconciliationsResponse{Sessions: dto.ToSessionResponses(sessions)})
}

// getSession godoc
// @Summary Get a reconciliation session
// @Tags reconciliations
// @Produce json
// @Param companyID path string true "Company ID"
// @Param sessionID path string true "Session ID"
// @Success 200 {object} dto.ReconciliationSessionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/reconciliations/{sessionID} [get]
func (h *reconciliationHandler) getSession(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	sessionID := c.Param("sessionID")

	session, err := h.reconService.GetSession(c.Request.Context(), companyID, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Reconciliation session not found"})
			return
		}
		logger.Error("Failed to get reconciliation session", slog.String("error", err.Error()), slog.String("session_id", sessionID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve reconciliation session"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// autoMatch godoc
// @Summary Propose matches for a session
// @Description Runs the deterministic matcher over the session's statement against posted ledger entries. Proposals are returned, not applied.
// @Tags reconciliations
// @Produce json
// @Param companyID path string true "Company ID"
// @Param sessionID path string true "Session ID"
// @Success 200 {object} []dto.MatchResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/reconciliations/{sessionID}/automatch [post]
func (h *reconciliationHandler) autoMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	sessionID := c.Param("sessionID")

	matches, err := h.reconService.AutoMatch(c.Request.Context(), companyID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Reconciliation session not found"})
		case errors.Is(err, apperrors.ErrNotReconcilable):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Session is already completed"})
		default:
			logger.Error("Auto-match failed", slog.String("error", err.Error()), slog.String("session_id", sessionID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Auto-match failed"})
		}
		return
	}

	logger.Info("Auto-match completed", slog.String("session_id", sessionID), slog.Int("proposals", len(matches)))
	c.JSON(http.StatusOK, dto.ToMatchResponses(matches))
}

// applyMatches godoc
// @Summary Apply matches to a session
// @Description Merges the supplied pairings into a DRAFT session. Duplicate statement indices keep the existing pairing.
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param sessionID path string true "Session ID"
// @Param matches body dto.ApplyMatchesRequest true "Pairings to apply"
// @Success 200 {object} dto.ReconciliationSessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/reconciliations/{sessionID}/matches [post]
func (h *reconciliationHandler) applyMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	sessionID := c.Param("sessionID")

	var req dto.ApplyMatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	matches := make([]domain.MatchedTransaction, len(req.Matches))
	for i, m := range req.Matches {
		matches[i] = domain.MatchedTransaction{
			StatementIndex: m.StatementIndex,
			JournalID:      m.JournalID,
		}
	}

	session, err := h.reconService.ApplyMatches(c.Request.Context(), companyID, sessionID, matches, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Reconciliation session not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotReconcilable):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Session is already completed"})
		default:
			logger.Error("Failed to apply matches", slog.String("error", err.Error()), slog.String("session_id", sessionID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to apply matches"})
		}
		return
	}

	logger.Info("Matches applied", slog.String("session_id", sessionID), slog.Int("total_matched", len(session.MatchedTransactions)))
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// getSummary godoc
// @Summary Reconciliation progress summary
// @Description Reports match counts, match rate and the current discrepancy.
// @Tags reconciliations
// @Produce json
// @Param companyID path string true "Company ID"
// @Param sessionID path string true "Session ID"
// @Success 200 {object} dto.ReconciliationSummaryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/reconciliations/{sessionID}/summary [get]
func (h *reconciliationHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	sessionID := c.Param("sessionID")

	summary, err := h.reconService.GetReconciliationSummary(c.Request.Context(), companyID, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Reconciliation session not found"})
			return
		}
		logger.Error("Failed to build reconciliation summary", slog.String("error", err.Error()), slog.String("session_id", sessionID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// completeReconciliation godoc
// @Summary Complete a reconciliation session
// @Description Transitions DRAFT to COMPLETED and stamps the completion time. Completed sessions are immutable.
// @Tags reconciliations
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param sessionID path string true "Session ID"
// @Param completion body dto.CompleteReconciliationRequest false "Closing notes"
// @Success 200 {object} dto.ReconciliationSessionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/reconciliations/{sessionID}/complete [post]
func (h *reconciliationHandler) completeReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	sessionID := c.Param("sessionID")

	// Body is optional; an empty one completes without notes.
	var req dto.CompleteReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	session, err := h.reconService.CompleteReconciliation(c.Request.Context(), companyID, sessionID, req.Notes, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Reconciliation session not found"})
		case errors.Is(err, apperrors.ErrNotReconcilable):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Session is already completed"})
		default:
			logger.Error("Failed to complete reconciliation", slog.String("error", err.Error()), slog.String("session_id", sessionID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to complete reconciliation"})
		}
		return
	}

	logger.Info("Reconciliation completed", slog.String("session_id", sessionID))
	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}
