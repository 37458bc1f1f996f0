package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/core/services"
	"github.com/finbooks/bookkeeping_app/internal/dto"
	"github.com/finbooks/bookkeeping_app/internal/middleware"

	portssvc "github.com/finbooks/bookkeeping_app/internal/core/ports/services"
)

// journalHandler handles HTTP requests for journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

// registerJournalRoutes wires the journal endpoints under a company scope.
func registerJournalRoutes(company *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := company.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.queryJournals)
		journals.GET("/:journalID", h.getJournal)
		journals.PUT("/:journalID", h.updateJournal)
		journals.POST("/:journalID/post", h.postJournal)
		journals.POST("/:journalID/void", h.voidJournal)
		journals.DELETE("/:journalID", h.deleteJournal)
	}
}

// createJournal godoc
// @Summary Create a journal entry
// @Description Creates a journal entry in DRAFT (default) or directly in POSTED status. Posting requires balanced lines.
// @Tags journals
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param journal body dto.CreateJournalRequest true "Journal entry"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/journals [post]
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	journal, err := h.journalService.CreateJournal(c.Request.Context(), companyID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrJournalNotBalanced), errors.Is(err, apperrors.ErrValidation), errors.Is(err, services.ErrInvalidCreateStatus):
			logger.Warn("Journal rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Referenced account not found"})
		default:
			logger.Error("Failed to create journal", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create journal"})
		}
		return
	}

	logger.Info("Journal created", slog.String("journal_id", journal.JournalID), slog.String("status", string(journal.Status)))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal entry
// @Tags journals
// @Produce json
// @Param companyID path string true "Company ID"
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/journals/{journalID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	journalID := c.Param("journalID")

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), companyID, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Journal not found"})
			return
		}
		logger.Error("Failed to get journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve journal"})
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// queryJournals godoc
// @Summary Query journal entries
// @Description Lists entries filtered by status, date range and account, with token pagination.
// @Tags journals
// @Produce json
// @Param companyID path string true "Company ID"
// @Param status query string false "Filter by status (DRAFT, POSTED, VOID)"
// @Param fromDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param toDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Param accountID query string false "Only entries touching this account"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Opaque pagination token"
// @Success 200 {object} dto.QueryJournalsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/journals [get]
func (h *journalHandler) queryJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")

	var params dto.QueryJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	page, err := h.journalService.QueryJournals(c.Request.Context(), companyID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to query journals", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to query journals"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// updateJournal godoc
// @Summary Update a draft journal entry
// @Description Edits header fields and lines. Only DRAFT entries are editable.
// @Tags journals
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param journalID path string true "Journal ID"
// @Param journal body dto.UpdateJournalRequest true "Fields to update"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/journals/{journalID} [put]
func (h *journalHandler) updateJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	journalID := c.Param("journalID")

	var req dto.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	journal, err := h.journalService.UpdateJournal(c.Request.Context(), companyID, journalID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Journal not found"})
		case errors.Is(err, apperrors.ErrInvalidStateTransition):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Only draft journals can be edited"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to update journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update journal"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// postJournal godoc
// @Summary Post a draft journal entry
// @Description Transitions DRAFT to POSTED after re-validating the balance.
// @Tags journals
// @Produce json
// @Param companyID path string true "Company ID"
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/journals/{journalID}/post [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	journalID := c.Param("journalID")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	journal, err := h.journalService.PostJournal(c.Request.Context(), companyID, journalID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Journal not found"})
		case errors.Is(err, services.ErrJournalNotBalanced), errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Journal failed posting validation", slog.String("error", err.Error()), slog.String("journal_id", journalID))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrInvalidStateTransition):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Only draft journals can be posted"})
		default:
			logger.Error("Failed to post journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to post journal"})
		}
		return
	}

	logger.Info("Journal posted", slog.String("journal_id", journalID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// voidJournal godoc
// @Summary Void a posted journal entry
// @Description Transitions POSTED to VOID. Void is terminal.
// @Tags journals
// @Accept json
// @Produce json
// @Param companyID path string true "Company ID"
// @Param journalID path string true "Journal ID"
// @Param void body dto.VoidJournalRequest false "Void reason"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/journals/{journalID}/void [post]
func (h *journalHandler) voidJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	journalID := c.Param("journalID")

	// Body is optional; an empty one voids without a reason.
	var req dto.VoidJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	journal, err := h.journalService.VoidJournal(c.Request.Context(), companyID, journalID, req.Reason, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Journal not found"})
		case errors.Is(err, apperrors.ErrInvalidStateTransition):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Only posted journals can be voided"})
		default:
			logger.Error("Failed to void journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to void journal"})
		}
		return
	}

	logger.Info("Journal voided", slog.String("journal_id", journalID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// deleteJournal godoc
// @Summary Delete a draft journal entry
// @Description Soft-deletes a DRAFT entry. Posted and void entries are immutable history.
// @Tags journals
// @Produce json
// @Param companyID path string true "Company ID"
// @Param journalID path string true "Journal ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies/{companyID}/journals/{journalID} [delete]
func (h *journalHandler) deleteJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("companyID")
	journalID := c.Param("journalID")

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.journalService.DeleteJournal(c.Request.Context(), companyID, journalID, userID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Journal not found"})
		case errors.Is(err, apperrors.ErrInvalidStateTransition):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Only draft journals can be deleted"})
		default:
			logger.Error("Failed to delete journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete journal"})
		}
		return
	}

	logger.Info("Journal deleted", slog.String("journal_id", journalID))
	c.Status(http.StatusNoContent)
}
