package statement_test

import (
	"testing"
	"time"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/utils/statement"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BasicStatement(t *testing.T) {
	raw := "Date,Description,Amount\n" +
		"2025-03-01,Payroll deposit,2500.00\n" +
		"2025-03-03,Rent,-1200.00\n"

	stmt, err := statement.Parse(raw, statement.ParseOptions{AccountID: "acc-bank"})
	require.NoError(t, err)

	assert.Equal(t, "acc-bank", stmt.AccountID)
	require.Len(t, stmt.Transactions, 2)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), stmt.Transactions[0].Date)
	assert.Equal(t, "Payroll deposit", stmt.Transactions[0].Description)
	assert.True(t, stmt.Transactions[0].Amount.Equal(decimal.RequireFromString("2500.00")))
	assert.True(t, stmt.Transactions[1].Amount.Equal(decimal.RequireFromString("-1200.00")))

	// Opening defaults to zero, closing to opening plus the running sum.
	assert.True(t, stmt.OpeningBalance.IsZero())
	assert.True(t, stmt.ClosingBalance.Equal(decimal.RequireFromString("1300.00")))
}

func TestParse_HeaderIsCaseInsensitiveAndReorderable(t *testing.T) {
	raw := "AMOUNT,date,Notes,DESCRIPTION\n" +
		"-4.50,2025-03-05,x,Coffee\n"

	stmt, err := statement.Parse(raw, statement.ParseOptions{AccountID: "acc-bank"})
	require.NoError(t, err)

	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, "Coffee", stmt.Transactions[0].Description)
	assert.True(t, stmt.Transactions[0].Amount.Equal(decimal.RequireFromString("-4.50")))
}

func TestParse_SlashDateFormat(t *testing.T) {
	raw := "Date,Description,Amount\n" +
		"03/15/2025,Check 101,-55.00\n"

	stmt, err := statement.Parse(raw, statement.ParseOptions{AccountID: "acc-bank"})
	require.NoError(t, err)

	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), stmt.Transactions[0].Date)
}

func TestParse_AmountNotations(t *testing.T) {
	raw := "Date,Description,Amount\n" +
		"2025-03-01,Parenthesized outflow,(125.00)\n" +
		"2025-03-02,Currency and thousands,\"$1,250.75\"\n"

	stmt, err := statement.Parse(raw, statement.ParseOptions{AccountID: "acc-bank"})
	require.NoError(t, err)

	require.Len(t, stmt.Transactions, 2)
	assert.True(t, stmt.Transactions[0].Amount.Equal(decimal.RequireFromString("-125.00")))
	assert.True(t, stmt.Transactions[1].Amount.Equal(decimal.RequireFromString("1250.75")))
}

func TestParse_ExplicitBalances(t *testing.T) {
	opening := decimal.RequireFromString("1000.00")
	closing := decimal.RequireFromString("900.00")
	raw := "Date,Description,Amount\n" +
		"2025-03-01,Fee,-100.00\n"

	stmt, err := statement.Parse(raw, statement.ParseOptions{
		AccountID:      "acc-bank",
		OpeningBalance: &opening,
		ClosingBalance: &closing,
	})
	require.NoError(t, err)

	assert.True(t, stmt.OpeningBalance.Equal(opening))
	assert.True(t, stmt.ClosingBalance.Equal(closing))
}

func TestParse_OpeningOnlyDerivesClosing(t *testing.T) {
	opening := decimal.RequireFromString("500.00")
	raw := "Date,Description,Amount\n" +
		"2025-03-01,Deposit,250.00\n"

	stmt, err := statement.Parse(raw, statement.ParseOptions{
		AccountID:      "acc-bank",
		OpeningBalance: &opening,
	})
	require.NoError(t, err)

	assert.True(t, stmt.ClosingBalance.Equal(decimal.RequireFromString("750.00")))
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	raw := "Date,Memo,Amount\n" +
		"2025-03-01,No description column,10.00\n"

	_, err := statement.Parse(raw, statement.ParseOptions{AccountID: "acc-bank"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrParse)
	assert.Contains(t, err.Error(), "description")
}

func TestParse_BadAmount(t *testing.T) {
	raw := "Date,Description,Amount\n" +
		"2025-03-01,Broken row,abc\n"

	_, err := statement.Parse(raw, statement.ParseOptions{AccountID: "acc-bank"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrParse)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParse_BadDate(t *testing.T) {
	raw := "Date,Description,Amount\n" +
		"15-03-2025,Wrong layout,10.00\n"

	_, err := statement.Parse(raw, statement.ParseOptions{AccountID: "acc-bank"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestParse_EmptyInput(t *testing.T) {
	_, err := statement.Parse("", statement.ParseOptions{AccountID: "acc-bank"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestParse_HeaderOnly(t *testing.T) {
	stmt, err := statement.Parse("Date,Description,Amount\n", statement.ParseOptions{AccountID: "acc-bank"})
	require.NoError(t, err)

	assert.Empty(t, stmt.Transactions)
	assert.True(t, stmt.ClosingBalance.IsZero())
}
