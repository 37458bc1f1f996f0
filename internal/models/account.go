package models

import "time"

// AccountType mirrors domain.AccountType at the storage boundary.
type AccountType string

// Account is the database representation of an account row.
type Account struct {
	AccountID     string
	CompanyID     string
	AccountNumber string
	Name          string
	AccountType   AccountType
	Description   string
	IsActive      bool
	AuditFields
}

// AuditFields holds the audit columns shared by all tables.
type AuditFields struct {
	CreatedAt     time.Time
	CreatedBy     string
	LastUpdatedAt time.Time
	LastUpdatedBy string
}
