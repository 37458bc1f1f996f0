package mapping

import (
	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/models"
)

// ToModelUser converts a domain User to a model User.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:       d.UserID,
		Username:     d.Username,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		Username:     m.Username,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
