// Package matching implements the statement-to-ledger transaction matcher.
//
// The matcher is a pure function: given the same statement rows and candidate
// journal entries it always produces the same matches, regardless of input
// ordering. Candidates are consumed at most once each (one-to-one bipartite
// assignment) and so are statement rows.
package matching

import (
	"sort"
	"strings"
	"time"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// MatchType classifies how a pairing was found.
type MatchType string

const (
	// MatchExact pairs identical date and identical signed amount.
	MatchExact MatchType = "EXACT"
	// MatchFuzzy pairs identical amount within the date tolerance window.
	MatchFuzzy MatchType = "FUZZY"
)

// Match pairs one statement row (by index) with one journal entry.
type Match struct {
	StatementIndex int       `json:"statementIndex"`
	JournalID      string    `json:"journalID"`
	Confidence     float64   `json:"confidence"`
	MatchType      MatchType `json:"matchType"`
}

// DefaultDateToleranceDays is the fuzzy-pass date window used when the caller
// does not configure one.
const DefaultDateToleranceDays = 3

// Config holds the tunable knobs of the matcher.
type Config struct {
	// DateToleranceDays is the maximum date offset (in days, either
	// direction) accepted by the fuzzy pass.
	DateToleranceDays int
}

// DefaultConfig returns the matcher configuration used in production.
func DefaultConfig() Config {
	return Config{DateToleranceDays: DefaultDateToleranceDays}
}

// candidate is one journal entry projected onto the reconciled account: its
// date and the signed net movement it causes there, using the statement's
// inflow-positive polarity.
type candidate struct {
	journalID string
	date      time.Time
	amount    decimal.Decimal
	memo      string
	consumed  bool
}

// MatchTransactions pairs statement rows against candidate journal entries
// touching accountID.
//
// Two passes run over the statement rows in index order:
//
//  1. Exact: same calendar date and identical signed amount. Ambiguity is
//     broken by description token overlap against the entry memo, then by
//     lowest journal ID, so the result is reproducible.
//  2. Fuzzy: identical amount within cfg.DateToleranceDays. The closest date
//     wins; remaining ties break the same way as the exact pass. Confidence
//     is scaled down with date distance (1 - daysOff/window) and floored at
//     0.5.
//
// Entries with no net movement on the account, voided entries, and soft
// deleted entries never become candidates. The returned matches are ordered
// by statement index.
func MatchTransactions(statementTxns []domain.StatementTransaction, entries []domain.JournalEntry, account domain.Account, cfg Config) []Match {
	if cfg.DateToleranceDays <= 0 {
		cfg.DateToleranceDays = DefaultDateToleranceDays
	}

	candidates := buildCandidates(entries, account)

	matches := make([]Match, 0, len(statementTxns))
	matchedStatement := make([]bool, len(statementTxns))

	// Exact pass.
	for i, txn := range statementTxns {
		best := -1
		for c := range candidates {
			cand := &candidates[c]
			if cand.consumed || !sameDay(cand.date, txn.Date) || !cand.amount.Equal(txn.Amount) {
				continue
			}
			if best < 0 || betterCandidate(cand, &candidates[best], txn.Description) {
				best = c
			}
		}
		if best >= 0 {
			candidates[best].consumed = true
			matchedStatement[i] = true
			matches = append(matches, Match{
				StatementIndex: i,
				JournalID:      candidates[best].journalID,
				Confidence:     1.0,
				MatchType:      MatchExact,
			})
		}
	}

	// Fuzzy pass over the leftovers.
	for i, txn := range statementTxns {
		if matchedStatement[i] {
			continue
		}
		best := -1
		bestDays := 0
		for c := range candidates {
			cand := &candidates[c]
			if cand.consumed || !cand.amount.Equal(txn.Amount) {
				continue
			}
			days := daysApart(cand.date, txn.Date)
			if days == 0 || days > cfg.DateToleranceDays {
				continue
			}
			if best < 0 || days < bestDays || (days == bestDays && betterCandidate(cand, &candidates[best], txn.Description)) {
				best = c
				bestDays = days
			}
		}
		if best >= 0 {
			candidates[best].consumed = true
			matchedStatement[i] = true
			confidence := 1.0 - float64(bestDays)/float64(cfg.DateToleranceDays)
			if confidence < 0.5 {
				confidence = 0.5
			}
			matches = append(matches, Match{
				StatementIndex: i,
				JournalID:      candidates[best].journalID,
				Confidence:     confidence,
				MatchType:      MatchFuzzy,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].StatementIndex < matches[j].StatementIndex
	})
	return matches
}

// buildCandidates projects each eligible entry onto the account and sorts by
// journal ID so that scans never depend on caller ordering.
func buildCandidates(entries []domain.JournalEntry, account domain.Account) []candidate {
	candidates := make([]candidate, 0, len(entries))
	for _, entry := range entries {
		if entry.Status == domain.Void || entry.IsDeleted() {
			continue
		}
		amount, err := accounting.NetEntryMovement(entry, account.AccountID, account.AccountType)
		if err != nil || amount.IsZero() {
			continue
		}
		candidates = append(candidates, candidate{
			journalID: entry.JournalID,
			date:      entry.JournalDate,
			amount:    amount,
			memo:      entry.Memo,
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].journalID < candidates[j].journalID
	})
	return candidates
}

// betterCandidate reports whether a should be preferred over b for the given
// statement description: higher token overlap first, then lowest journal ID.
func betterCandidate(a, b *candidate, description string) bool {
	simA := descriptionSimilarity(description, a.memo)
	simB := descriptionSimilarity(description, b.memo)
	if simA != simB {
		return simA > simB
	}
	return a.journalID < b.journalID
}

// descriptionSimilarity scores two free-text descriptions by token overlap:
// shared lowercase tokens divided by the larger token count.
func descriptionSimilarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(tokensA))
	for _, t := range tokensA {
		set[t] = struct{}{}
	}
	shared := 0
	for _, t := range tokensB {
		if _, ok := set[t]; ok {
			shared++
		}
	}
	larger := len(tokensA)
	if len(tokensB) > larger {
		larger = len(tokensB)
	}
	return float64(shared) / float64(larger)
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// sameDay compares calendar dates ignoring time-of-day and location offsets.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// daysApart returns the absolute whole-day distance between two dates.
func daysApart(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	diff := ad.Sub(bd)
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}
