package mapping

import (
	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		CompanyID:     d.CompanyID,
		AccountNumber: d.AccountNumber,
		Name:          d.Name,
		AccountType:   models.AccountType(d.AccountType),
		Description:   d.Description,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		CompanyID:     m.CompanyID,
		AccountNumber: m.AccountNumber,
		Name:          m.Name,
		AccountType:   domain.AccountType(m.AccountType),
		Description:   m.Description,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
