package mapping

import (
	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to its model form.
// Lines are mapped separately since they live in their own table.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		JournalID:   d.JournalID,
		CompanyID:   d.CompanyID,
		JournalDate: d.JournalDate,
		Memo:        d.Memo,
		Reference:   d.Reference,
		Status:      models.JournalStatus(d.Status),
		VoidReason:  d.VoidReason,
		DeletedAt:   d.DeletedAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to its domain form.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		JournalID:   m.JournalID,
		CompanyID:   m.CompanyID,
		JournalDate: m.JournalDate,
		Memo:        m.Memo,
		Reference:   m.Reference,
		Status:      domain.JournalStatus(m.Status),
		VoidReason:  m.VoidReason,
		DeletedAt:   m.DeletedAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to its model form.
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:    d.LineID,
		JournalID: d.JournalID,
		AccountID: d.AccountID,
		Debit:     d.Debit,
		Credit:    d.Credit,
		Memo:      d.Memo,
	}
}

// ToDomainJournalLine converts a model JournalLine to its domain form.
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:    m.LineID,
		JournalID: m.JournalID,
		AccountID: m.AccountID,
		Debit:     m.Debit,
		Credit:    m.Credit,
		Memo:      m.Memo,
	}
}
