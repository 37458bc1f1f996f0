package domain

// AccountType defines the fundamental accounting type of an account.
// The type is immutable once journal lines reference the account, since
// changing it would reclassify historical report data.
type AccountType string

const (
	Asset            AccountType = "ASSET"
	Liability        AccountType = "LIABILITY"
	Equity           AccountType = "EQUITY"
	Income           AccountType = "INCOME"
	Expense          AccountType = "EXPENSE"
	CostOfGoodsSold  AccountType = "COST_OF_GOODS_SOLD"
	OtherIncome      AccountType = "OTHER_INCOME"
	OtherExpense     AccountType = "OTHER_EXPENSE"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense, CostOfGoodsSold, OtherIncome, OtherExpense:
		return true
	}
	return false
}

// IsDebitNormal reports whether accounts of this type increase on the debit
// side. Asset and expense-like accounts are debit-normal; liability, equity
// and income-like accounts are credit-normal.
func (t AccountType) IsDebitNormal() bool {
	switch t {
	case Asset, Expense, CostOfGoodsSold, OtherExpense:
		return true
	}
	return false
}

// Account represents a financial account within the core domain.
// This is the primary representation used by services.
type Account struct {
	AccountID     string      `json:"accountID"`     // Primary key (UUID)
	CompanyID     string      `json:"companyID"`     // Owning company (NON-NULL)
	AccountNumber string      `json:"accountNumber"` // User-visible chart-of-accounts number
	Name          string      `json:"name"`          // User-defined name
	AccountType   AccountType `json:"accountType"`   // ASSET, LIABILITY, etc.
	Description   string      `json:"description"`   // Nullable user description
	IsActive      bool        `json:"isActive"`      // Inactive accounts reject new journal lines
	AuditFields
}
