package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus mirrors domain.ReconciliationStatus at the storage boundary.
type ReconciliationStatus string

// ReconciliationSession is the database representation of a
// reconciliation_sessions row. The statement rows and matched pairs are
// stored as JSONB; (de)serialization happens only here at the storage
// boundary, the domain works with typed slices.
type ReconciliationSession struct {
	SessionID             string
	CompanyID             string
	AccountID             string
	OpeningBalance        decimal.Decimal
	ClosingBalance        decimal.Decimal
	StatementTransactions []byte // JSONB
	Status                ReconciliationStatus
	MatchedTransactions   []byte // JSONB
	IsFirstReconciliation bool
	Notes                 string
	CompletedAt           *time.Time
	AuditFields
}
