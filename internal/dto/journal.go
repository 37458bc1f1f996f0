package dto

import (
	"time"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one debit/credit line of a candidate journal entry.
// Amounts default to zero when omitted, which is only legal on drafts.
type JournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
}

// CreateJournalRequest defines the payload for creating a journal entry.
// Status may be DRAFT (default) or POSTED for programmatic paths that create
// already-balanced entries.
type CreateJournalRequest struct {
	Date      time.Time            `json:"date" binding:"required"`
	Memo      string               `json:"memo"`
	Reference string               `json:"reference"`
	Status    domain.JournalStatus `json:"status" binding:"omitempty,createstatus"`
	Lines     []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalRequest defines the editable fields of a draft entry. Nil
// fields are left unchanged; non-nil Lines replace the draft's lines.
type UpdateJournalRequest struct {
	Date      *time.Time            `json:"date"`
	Memo      *string               `json:"memo"`
	Reference *string               `json:"reference"`
	Lines     *[]JournalLineRequest `json:"lines"`
}

// VoidJournalRequest carries the optional reason for voiding a posted entry.
type VoidJournalRequest struct {
	Reason string `json:"reason"`
}

// QueryJournalsParams narrows a journal listing.
type QueryJournalsParams struct {
	Status         *domain.JournalStatus `form:"status"`
	FromDate       *time.Time            `form:"fromDate" time_format:"2006-01-02"`
	ToDate         *time.Time            `form:"toDate" time_format:"2006-01-02"`
	AccountID      *string               `form:"accountID"`
	IncludeDeleted bool                  `form:"includeDeleted"`
	Limit          int                   `form:"limit"`
	NextToken      *string               `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID  string                `json:"journalID"`
	CompanyID  string                `json:"companyID"`
	Date       time.Time             `json:"date"`
	Memo       string                `json:"memo"`
	Reference  string                `json:"reference,omitempty"`
	Status     domain.JournalStatus  `json:"status"`
	VoidReason string                `json:"voidReason,omitempty"`
	Lines      []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
	CreatedBy  string                `json:"createdBy"`
}

// QueryJournalsResponse wraps a page of journal entries.
type QueryJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToJournalResponse converts a domain.JournalEntry to its response DTO.
func ToJournalResponse(j *domain.JournalEntry) JournalResponse {
	lines := make([]JournalLineResponse, len(j.Lines))
	for i, line := range j.Lines {
		lines[i] = JournalLineResponse{
			LineID:    line.LineID,
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
			Memo:      line.Memo,
		}
	}
	return JournalResponse{
		JournalID:  j.JournalID,
		CompanyID:  j.CompanyID,
		Date:       j.JournalDate,
		Memo:       j.Memo,
		Reference:  j.Reference,
		Status:     j.Status,
		VoidReason: j.VoidReason,
		Lines:      lines,
		CreatedAt:  j.CreatedAt,
		CreatedBy:  j.CreatedBy,
	}
}

// ToDomainLines converts line requests into domain lines (IDs unassigned).
func ToDomainLines(reqs []JournalLineRequest) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqs))
	for i, req := range reqs {
		lines[i] = domain.JournalLine{
			AccountID: req.AccountID,
			Debit:     req.Debit,
			Credit:    req.Credit,
			Memo:      req.Memo,
		}
	}
	return lines
}
