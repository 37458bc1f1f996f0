package domain_test

import (
	"testing"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestWithMatches_MergeAndDedup(t *testing.T) {
	session := domain.ReconciliationSession{
		Status: domain.ReconciliationDraft,
		MatchedTransactions: []domain.MatchedTransaction{
			{StatementIndex: 2, JournalID: "j-2"},
		},
	}

	updated := session.WithMatches([]domain.MatchedTransaction{
		{StatementIndex: 0, JournalID: "j-0"},
		{StatementIndex: 2, JournalID: "j-other"}, // already matched, first wins
		{StatementIndex: 1, JournalID: "j-1"},
	})

	assert.Equal(t, []domain.MatchedTransaction{
		{StatementIndex: 0, JournalID: "j-0"},
		{StatementIndex: 1, JournalID: "j-1"},
		{StatementIndex: 2, JournalID: "j-2"},
	}, updated.MatchedTransactions)

	// Receiver untouched.
	assert.Len(t, session.MatchedTransactions, 1)
}

func TestWithMatches_Idempotent(t *testing.T) {
	session := domain.ReconciliationSession{Status: domain.ReconciliationDraft}
	matches := []domain.MatchedTransaction{
		{StatementIndex: 0, JournalID: "j-0"},
		{StatementIndex: 1, JournalID: "j-1"},
	}

	once := session.WithMatches(matches)
	twice := once.WithMatches(matches)

	assert.Equal(t, once.MatchedTransactions, twice.MatchedTransactions)
}

func TestMatchedJournalIDs_Order(t *testing.T) {
	session := domain.ReconciliationSession{
		MatchedTransactions: []domain.MatchedTransaction{
			{StatementIndex: 0, JournalID: "j-b"},
			{StatementIndex: 1, JournalID: "j-a"},
		},
	}

	assert.Equal(t, []string{"j-b", "j-a"}, session.MatchedJournalIDs())
}
