package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus mirrors domain.JournalStatus at the storage boundary.
type JournalStatus string

// JournalEntry is the database representation of a journals row.
type JournalEntry struct {
	JournalID   string
	CompanyID   string
	JournalDate time.Time
	Memo        string
	Reference   string
	Status      JournalStatus
	VoidReason  string
	DeletedAt   *time.Time
	AuditFields
}

// JournalLine is the database representation of a journal_lines row.
type JournalLine struct {
	LineID    string
	JournalID string
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
}
