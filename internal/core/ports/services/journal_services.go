package services

import (
	"context"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/dto"
	"github.com/finbooks/bookkeeping_app/internal/utils/accounting"
)

// JournalSvcFacade is the ledger store API: journal entry lifecycle and queries.
type JournalSvcFacade interface {
	// CreateJournal creates a journal entry in DRAFT or directly in POSTED
	// status. Posting requires the validator to report IsValid.
	CreateJournal(ctx context.Context, companyID string, req dto.CreateJournalRequest, creatorUserID string) (*domain.JournalEntry, error)

	// GetJournalByID retrieves an entry with its lines, scoped to the company.
	GetJournalByID(ctx context.Context, companyID string, journalID string) (*domain.JournalEntry, error)

	// QueryJournals lists entries matching the filter, ordered by journal
	// date ascending (then creation time, then ID).
	QueryJournals(ctx context.Context, companyID string, params dto.QueryJournalsParams) (*dto.QueryJournalsResponse, error)

	// UpdateJournal edits a DRAFT entry's header and lines.
	UpdateJournal(ctx context.Context, companyID string, journalID string, req dto.UpdateJournalRequest, userID string) (*domain.JournalEntry, error)

	// ValidateJournal runs the validator over candidate lines without persisting.
	ValidateJournal(ctx context.Context, companyID string, lines []domain.JournalLine) (*accounting.ValidationResult, error)

	// PostJournal transitions DRAFT -> POSTED, re-validating the balance
	// invariant at transition time.
	PostJournal(ctx context.Context, companyID string, journalID string, userID string) (*domain.JournalEntry, error)

	// VoidJournal transitions POSTED -> VOID. Void is terminal.
	VoidJournal(ctx context.Context, companyID string, journalID string, reason string, userID string) (*domain.JournalEntry, error)

	// DeleteJournal soft-deletes a DRAFT entry.
	DeleteJournal(ctx context.Context, companyID string, journalID string, userID string) error
}
