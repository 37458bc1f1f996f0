package models

// User is the database representation of a users row.
type User struct {
	UserID       string
	Username     string
	Name         string
	PasswordHash string
	AuditFields
}
