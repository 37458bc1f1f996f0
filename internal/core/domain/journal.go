package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the lifecycle state of a journal entry.
//
// DRAFT entries may be edited and temporarily unbalanced, POSTED entries are
// immutable and report-visible, VOID is terminal. A draft can also be soft
// deleted; voided entries keep their lines for audit but are excluded from
// balance queries.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
	Void   JournalStatus = "VOID"
)

// JournalEntry represents a single financial event composed of debit/credit lines.
type JournalEntry struct {
	JournalID   string        `json:"journalID"` // Primary key (UUID)
	CompanyID   string        `json:"companyID"` // Owning company (Not Null)
	JournalDate time.Time     `json:"journalDate"`
	Memo        string        `json:"memo"`
	Reference   string        `json:"reference"` // Nullable external reference (cheque no, invoice no)
	Status      JournalStatus `json:"status"`
	VoidReason  string        `json:"voidReason,omitempty"`
	Lines       []JournalLine `json:"lines,omitempty"` // Often loaded separately
	DeletedAt   *time.Time    `json:"deletedAt,omitempty"`
	AuditFields
}

// IsDeleted reports whether the entry has been soft deleted.
func (j *JournalEntry) IsDeleted() bool {
	return j.DeletedAt != nil
}

// NetAccountMovement returns the signed movement this entry causes on the
// given account: debit minus credit summed over the entry's lines for that
// account. For a debit-normal account a positive result is an increase.
func (j *JournalEntry) NetAccountMovement(accountID string) decimal.Decimal {
	net := decimal.Zero
	for _, line := range j.Lines {
		if line.AccountID != accountID {
			continue
		}
		net = net.Add(line.Debit).Sub(line.Credit)
	}
	return net
}

// JournalLine represents a single debit or credit within a JournalEntry,
// affecting one account. Exactly one of Debit/Credit is non-zero on a line
// belonging to a posted entry; a zero/zero line is tolerated as a draft
// placeholder.
type JournalLine struct {
	LineID    string          `json:"lineID"`    // Primary key (UUID)
	JournalID string          `json:"journalID"` // FK -> JournalEntry.journalID
	AccountID string          `json:"accountID"` // FK -> Account.accountID
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"` // Nullable
}

// IsPlaceholder reports whether both sides of the line are zero.
func (l *JournalLine) IsPlaceholder() bool {
	return l.Debit.IsZero() && l.Credit.IsZero()
}
