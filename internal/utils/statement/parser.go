// Package statement converts raw bank-statement exports into the normalized
// domain.BankStatement form consumed by the reconciliation workflow.
package statement

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/finbooks/bookkeeping_app/internal/apperrors"
	"github.com/finbooks/bookkeeping_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// The header row must contain these three columns, case-insensitively and in
// any order. Extra columns are ignored.
const (
	columnDate        = "date"
	columnDescription = "description"
	columnAmount      = "amount"
)

// Bank exports disagree on date formats; these are the two accepted ones.
var dateLayouts = []string{"2006-01-02", "01/02/2006"}

// ParseOptions carries caller-supplied overrides for values many bank exports
// omit. When a balance is absent the opening balance defaults to zero and the
// closing balance to opening plus the running sum of the parsed rows; the
// caller is expected to supply authoritative balances before opening a
// reconciliation session.
type ParseOptions struct {
	AccountID      string
	OpeningBalance *decimal.Decimal
	ClosingBalance *decimal.Decimal
}

// Parse converts a raw CSV bank statement into a BankStatement. It fails with
// a ParseError when the header cannot be matched to {Date, Description,
// Amount} or when a data row's amount is not numeric. Amounts are signed
// inflow-positive; a leading '-' and a parenthesized amount both mean outflow.
func Parse(raw string, opts ParseOptions) (domain.BankStatement, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.TrimLeadingSpace = true
	// Tolerate ragged trailing columns from sloppy exports.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return domain.BankStatement{}, fmt.Errorf("%w: malformed CSV: %v", apperrors.ErrParse, err)
	}
	if len(records) == 0 {
		return domain.BankStatement{}, fmt.Errorf("%w: statement is empty", apperrors.ErrParse)
	}

	columns, err := mapColumns(records[0])
	if err != nil {
		return domain.BankStatement{}, err
	}

	transactions := make([]domain.StatementTransaction, 0, len(records)-1)
	for rowNum, record := range records[1:] {
		txn, err := parseRow(record, columns, rowNum+2)
		if err != nil {
			return domain.BankStatement{}, err
		}
		transactions = append(transactions, txn)
	}

	stmt := domain.BankStatement{
		AccountID:    opts.AccountID,
		Transactions: transactions,
	}

	runningSum := decimal.Zero
	for _, txn := range transactions {
		runningSum = runningSum.Add(txn.Amount)
	}

	if opts.OpeningBalance != nil {
		stmt.OpeningBalance = *opts.OpeningBalance
	}
	if opts.ClosingBalance != nil {
		stmt.ClosingBalance = *opts.ClosingBalance
	} else {
		stmt.ClosingBalance = stmt.OpeningBalance.Add(runningSum)
	}

	return stmt, nil
}

// mapColumns locates the required columns in the header row.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{columnDate, columnDescription, columnAmount} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: header is missing required column %q", apperrors.ErrParse, required)
		}
	}
	return columns, nil
}

func parseRow(record []string, columns map[string]int, rowNum int) (domain.StatementTransaction, error) {
	dateStr, err := fieldAt(record, columns[columnDate])
	if err != nil {
		return domain.StatementTransaction{}, fmt.Errorf("%w: row %d: %v", apperrors.ErrParse, rowNum, err)
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return domain.StatementTransaction{}, fmt.Errorf("%w: row %d: %v", apperrors.ErrParse, rowNum, err)
	}

	description := ""
	if desc, err := fieldAt(record, columns[columnDescription]); err == nil {
		description = desc
	}

	amountStr, err := fieldAt(record, columns[columnAmount])
	if err != nil {
		return domain.StatementTransaction{}, fmt.Errorf("%w: row %d: %v", apperrors.ErrParse, rowNum, err)
	}
	amount, err := parseAmount(amountStr)
	if err != nil {
		return domain.StatementTransaction{}, fmt.Errorf("%w: row %d: %v", apperrors.ErrParse, rowNum, err)
	}

	return domain.StatementTransaction{
		Date:        date,
		Description: description,
		Amount:      amount,
	}, nil
}

func fieldAt(record []string, idx int) (string, error) {
	if idx >= len(record) {
		return "", fmt.Errorf("missing field at column %d", idx+1)
	}
	return strings.TrimSpace(record[idx]), nil
}

// parseDate accepts calendar dates without time-of-day, normalized to UTC.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseAmount parses a plain decimal amount. A leading '-' and a
// parenthesized amount both mean outflow (negative). Thousands separators
// are tolerated.
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimPrefix(cleaned, "$")

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q is not numeric", s)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}
