package accounting_test

import (
	"testing"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/finbooks/bookkeeping_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		"acc-cash":    {AccountID: "acc-cash", Name: "Cash", AccountType: domain.Asset, IsActive: true},
		"acc-sales":   {AccountID: "acc-sales", Name: "Sales", AccountType: domain.Income, IsActive: true},
		"acc-closed":  {AccountID: "acc-closed", Name: "Old Cash", AccountType: domain.Asset, IsActive: false},
		"acc-expense": {AccountID: "acc-expense", Name: "Office", AccountType: domain.Expense, IsActive: true},
	}
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidateLines_BalancedEntry(t *testing.T) {
	lines := []domain.JournalLine{
		{AccountID: "acc-cash", Debit: amt("100.00")},
		{AccountID: "acc-sales", Credit: amt("100.00")},
	}

	result := accounting.ValidateLines(lines, testAccounts())

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.True(t, result.TotalDebits.Equal(amt("100.00")))
	assert.True(t, result.TotalCredits.Equal(amt("100.00")))
	assert.True(t, result.Difference.IsZero())
}

func TestValidateLines_Imbalance(t *testing.T) {
	lines := []domain.JournalLine{
		{AccountID: "acc-cash", Debit: amt("100.00")},
		{AccountID: "acc-sales", Credit: amt("90.00")},
	}

	result := accounting.ValidateLines(lines, testAccounts())

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "do not equal")
	assert.True(t, result.Difference.Equal(amt("10.00")))
}

func TestValidateLines_SingleLineRejected(t *testing.T) {
	lines := []domain.JournalLine{
		{AccountID: "acc-cash", Debit: amt("50.00")},
	}

	result := accounting.ValidateLines(lines, testAccounts())

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors[0], "at least two lines")
}

func TestValidateLines_NegativeAmountRejected(t *testing.T) {
	lines := []domain.JournalLine{
		{AccountID: "acc-cash", Debit: amt("-100.00")},
		{AccountID: "acc-sales", Credit: amt("-100.00")},
	}

	result := accounting.ValidateLines(lines, testAccounts())

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "must not be negative")
}

func TestValidateLines_BothSidesRejected(t *testing.T) {
	lines := []domain.JournalLine{
		{AccountID: "acc-cash", Debit: amt("100.00"), Credit: amt("100.00")},
		{AccountID: "acc-sales", Credit: amt("0.00")},
	}

	result := accounting.ValidateLines(lines, testAccounts())

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "line 1: a line cannot carry both a debit and a credit")
	require.Len(t, result.Warnings, 1)
}

func TestValidateLines_ZeroLineIsWarningOnly(t *testing.T) {
	lines := []domain.JournalLine{
		{AccountID: "acc-cash", Debit: amt("100.00")},
		{AccountID: "acc-sales", Credit: amt("100.00")},
		{AccountID: "acc-expense"},
	}

	result := accounting.ValidateLines(lines, testAccounts())

	assert.True(t, result.IsValid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "line 3")
}

func TestValidateLines_UnknownAndInactiveAccounts(t *testing.T) {
	lines := []domain.JournalLine{
		{AccountID: "acc-missing", Debit: amt("10.00")},
		{AccountID: "acc-closed", Credit: amt("10.00")},
	}

	result := accounting.ValidateLines(lines, testAccounts())

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "does not exist")
	assert.Contains(t, result.Errors[1], "inactive")
}

func TestSignedLineAmount_Polarity(t *testing.T) {
	debit := domain.JournalLine{AccountID: "a", Debit: amt("50.00")}
	credit := domain.JournalLine{AccountID: "a", Credit: amt("50.00")}

	got, err := accounting.SignedLineAmount(debit, domain.Asset)
	require.NoError(t, err)
	assert.True(t, got.Equal(amt("50.00")))

	got, err = accounting.SignedLineAmount(credit, domain.Asset)
	require.NoError(t, err)
	assert.True(t, got.Equal(amt("-50.00")))

	got, err = accounting.SignedLineAmount(debit, domain.Liability)
	require.NoError(t, err)
	assert.True(t, got.Equal(amt("-50.00")))

	got, err = accounting.SignedLineAmount(credit, domain.Income)
	require.NoError(t, err)
	assert.True(t, got.Equal(amt("50.00")))
}

func TestSignedLineAmount_UnknownType(t *testing.T) {
	line := domain.JournalLine{AccountID: "a", Debit: amt("1.00")}

	_, err := accounting.SignedLineAmount(line, domain.AccountType("BOGUS"))

	assert.Error(t, err)
}

func TestNetEntryMovement(t *testing.T) {
	entry := domain.JournalEntry{
		JournalID: "j-1",
		Lines: []domain.JournalLine{
			{AccountID: "acc-cash", Debit: amt("100.00")},
			{AccountID: "acc-cash", Credit: amt("30.00")},
			{AccountID: "acc-sales", Credit: amt("70.00")},
		},
	}

	net, err := accounting.NetEntryMovement(entry, "acc-cash", domain.Asset)
	require.NoError(t, err)
	assert.True(t, net.Equal(amt("70.00")))

	net, err = accounting.NetEntryMovement(entry, "acc-absent", domain.Asset)
	require.NoError(t, err)
	assert.True(t, net.IsZero())
}
