package models

import "time"

// AccountCategory is the top-level classification of an account type.
type AccountCategory string

const (
	CategoryAsset     AccountCategory = "ASSET"
	CategoryLiability AccountCategory = "LIABILITY"
	CategoryEquity    AccountCategory = "EQUITY"
	CategoryRevenue   AccountCategory = "REVENUE"
	CategoryExpense   AccountCategory = "EXPENSE"
)

// Direction is the side of a ledger entry.
type Direction string

const (
	DirectionDebit  Direction = "DEBIT"
	DirectionCredit Direction = "CREDIT"
)

// AccountType is a global, seeded classification for chart accounts.
// Read-only in normal operation.
type AccountType struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Category      AccountCategory `json:"category"`
	NormalBalance Direction       `json:"normal_balance"`
	CreatedAt     time.Time       `json:"created_at"`
}

// DefaultAccountTypes returns the standard account-type taxonomy seeded on
// first startup. IDs are assigned at seed time.
func DefaultAccountTypes() []AccountType {
	return []AccountType{
		{Code: "ASSET", Name: "Assets", Category: CategoryAsset, NormalBalance: DirectionDebit},
		{Code: "CASH", Name: "Cash", Category: CategoryAsset, NormalBalance: DirectionDebit},
		{Code: "BANK", Name: "Bank Accounts", Category: CategoryAsset, NormalBalance: DirectionDebit},
		{Code: "ACCOUNTS_RECEIVABLE", Name: "Accounts Receivable", Category: CategoryAsset, NormalBalance: DirectionDebit},
		{Code: "INVENTORY", Name: "Inventory", Category: CategoryAsset, NormalBalance: DirectionDebit},
		{Code: "FIXED_ASSET", Name: "Fixed Assets", Category: CategoryAsset, NormalBalance: DirectionDebit},
		{Code: "LIABILITY", Name: "Liabilities", Category: CategoryLiability, NormalBalance: DirectionCredit},
		{Code: "ACCOUNTS_PAYABLE", Name: "Accounts Payable", Category: CategoryLiability, NormalBalance: DirectionCredit},
		{Code: "CREDIT_CARD", Name: "Credit Cards", Category: CategoryLiability, NormalBalance: DirectionCredit},
		{Code: "LOAN", Name: "Loans", Category: CategoryLiability, NormalBalance: DirectionCredit},
		{Code: "EQUITY", Name: "Equity", Category: CategoryEquity, NormalBalance: DirectionCredit},
		{Code: "CAPITAL", Name: "Capital", Category: CategoryEquity, NormalBalance: DirectionCredit},
		{Code: "RETAINED_EARNINGS", Name: "Retained Earnings", Category: CategoryEquity, NormalBalance: DirectionCredit},
		{Code: "REVENUE", Name: "Revenue", Category: CategoryRevenue, NormalBalance: DirectionCredit},
		{Code: "SALES", Name: "Sales", Category: CategoryRevenue, NormalBalance: DirectionCredit},
		{Code: "SERVICE_REVENUE", Name: "Service Revenue", Category: CategoryRevenue, NormalBalance: DirectionCredit},
		{Code: "EXPENSE", Name: "Expenses", Category: CategoryExpense, NormalBalance: DirectionDebit},
		{Code: "COST_OF_GOODS_SOLD", Name: "Cost of Goods Sold", Category: CategoryExpense, NormalBalance: DirectionDebit},
		{Code: "OPERATING_EXPENSE", Name: "Operating Expenses", Category: CategoryExpense, NormalBalance: DirectionDebit},
		{Code: "PAYROLL_EXPENSE", Name: "Payroll Expense", Category: CategoryExpense, NormalBalance: DirectionDebit},
		{Code: "UTILITIES_EXPENSE", Name: "Utilities Expense", Category: CategoryExpense, NormalBalance: DirectionDebit},
		{Code: "RENT_EXPENSE", Name: "Rent Expense", Category: CategoryExpense, NormalBalance: DirectionDebit},
	}
}
