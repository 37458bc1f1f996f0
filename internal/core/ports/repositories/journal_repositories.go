package repositories

import (
	"context"
	"time"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
)

// JournalFilter narrows QueryJournals results. CompanyID is mandatory; the
// remaining fields are optional. Soft-deleted entries are excluded unless
// IncludeDeleted is set.
type JournalFilter struct {
	CompanyID      string
	Status         *domain.JournalStatus
	FromDate       *time.Time
	ToDate         *time.Time
	AccountID      *string
	IncludeDeleted bool
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a specific journal entry with its lines.
	FindJournalByID(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// FindJournalsByIDs retrieves multiple journal entries (with lines) by ID.
	FindJournalsByIDs(ctx context.Context, journalIDs []string) (map[string]domain.JournalEntry, error)

	// QueryJournals retrieves entries matching the filter, ordered by journal
	// date ascending then creation time then journal ID, using token-based
	// pagination. It returns the entries, a token for the next page, and an error.
	QueryJournals(ctx context.Context, filter JournalFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal persists a journal entry and its lines atomically.
	SaveJournal(ctx context.Context, entry domain.JournalEntry) error

	// UpdateJournalStatus transitions an entry's status, re-reading the row
	// under a lock so concurrent callers cannot race the state machine.
	// expectedStatus guards the transition: the update fails with
	// ErrInvalidStateTransition if the stored status differs.
	UpdateJournalStatus(ctx context.Context, journalID string, expectedStatus, newStatus domain.JournalStatus, voidReason string, userID string, now time.Time) error

	// UpdateJournal updates the mutable header fields (memo, reference, date)
	// and replaces the lines of a draft entry.
	UpdateJournal(ctx context.Context, entry domain.JournalEntry) error

	// SoftDeleteJournal stamps deleted_at on a draft entry.
	SoftDeleteJournal(ctx context.Context, journalID string, userID string, now time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
