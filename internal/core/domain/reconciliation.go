package domain

import (
	"sort"
	"time"
)

// ReconciliationStatus indicates the lifecycle state of a reconciliation session.
type ReconciliationStatus string

const (
	ReconciliationDraft     ReconciliationStatus = "DRAFT"
	ReconciliationCompleted ReconciliationStatus = "COMPLETED"
)

// MatchedTransaction links one statement row to one journal entry. Pairs are
// kept as a typed ordered list; JSON encoding happens only at the storage
// boundary.
type MatchedTransaction struct {
	StatementIndex int    `json:"statementIndex"`
	JournalID      string `json:"journalID"`
}

// ReconciliationSession is the stateful aggregate of one statement, the
// matches applied so far, and a status. It only references journal entry IDs;
// it never mutates ledger entries.
type ReconciliationSession struct {
	SessionID             string               `json:"sessionID"` // Primary key (UUID)
	CompanyID             string               `json:"companyID"`
	AccountID             string               `json:"accountID"`
	Statement             BankStatement        `json:"statement"`
	Status                ReconciliationStatus `json:"status"`
	MatchedTransactions   []MatchedTransaction `json:"matchedTransactions"`
	IsFirstReconciliation bool                 `json:"isFirstReconciliation"` // UI messaging only
	Notes                 string               `json:"notes"`
	CompletedAt           *time.Time           `json:"completedAt,omitempty"`
	AuditFields
}

// IsCompleted reports whether the session has been finalized.
func (s *ReconciliationSession) IsCompleted() bool {
	return s.Status == ReconciliationCompleted
}

// WithMatches returns a copy of the session with the given matches merged in,
// deduplicated by statement index (first application wins) and ordered by
// statement index. The receiver is not mutated.
func (s ReconciliationSession) WithMatches(matches []MatchedTransaction) ReconciliationSession {
	seen := make(map[int]struct{}, len(s.MatchedTransactions)+len(matches))
	merged := make([]MatchedTransaction, 0, len(s.MatchedTransactions)+len(matches))
	for _, m := range s.MatchedTransactions {
		if _, ok := seen[m.StatementIndex]; ok {
			continue
		}
		seen[m.StatementIndex] = struct{}{}
		merged = append(merged, m)
	}
	for _, m := range matches {
		if _, ok := seen[m.StatementIndex]; ok {
			continue
		}
		seen[m.StatementIndex] = struct{}{}
		merged = append(merged, m)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].StatementIndex < merged[j].StatementIndex
	})
	s.MatchedTransactions = merged
	return s
}

// MatchedJournalIDs returns the journal entry IDs referenced by the session's
// matches, in statement-index order.
func (s *ReconciliationSession) MatchedJournalIDs() []string {
	ids := make([]string, 0, len(s.MatchedTransactions))
	for _, m := range s.MatchedTransactions {
		ids = append(ids, m.JournalID)
	}
	return ids
}
