package accounts

import "github.com/bookkeep-dev/bookkeep/internal/model"

// ChartEntry describes one default account.
type ChartEntry struct {
	Code string
	Name string
	Type model.AccountType
}

// DefaultChart returns the default chart of accounts for a new book.
// Seeding is idempotent: entries are keyed by code and created only if
// absent.
func DefaultChart() []ChartEntry {
	return []ChartEntry{
		{Code: "1000", Name: "Petty Cash", Type: model.TypeCash},
		{Code: "1010", Name: "Business Checking", Type: model.TypeBank},
		{Code: "1020", Name: "Business Savings", Type: model.TypeBank},
		{Code: "1100", Name: "Accounts Receivable", Type: model.TypeAccountsReceivable},
		{Code: "1200", Name: "Inventory", Type: model.TypeInventory},
		{Code: "1300", Name: "Prepaid Expenses", Type: model.TypeOtherCurrentAsset},
		{Code: "1500", Name: "Equipment", Type: model.TypeFixedAsset},
		{Code: "1900", Name: "Security Deposits", Type: model.TypeOtherAsset},
		{Code: "2000", Name: "Accounts Payable", Type: model.TypeAccountsPayable},
		{Code: "2010", Name: "Credit Card", Type: model.TypeCreditCard},
		{Code: "2100", Name: "Payroll Liabilities", Type: model.TypeCurrentLiability},
		{Code: "2500", Name: "Business Loan", Type: model.TypeLongTermLiability},
		{Code: "2900", Name: "Deferred Revenue", Type: model.TypeOtherLiability},
		{Code: "3000", Name: "Owner's Equity", Type: model.TypeEquity},
		{Code: "3900", Name: "Retained Earnings", Type: model.TypeRetainedEarnings},
		{Code: "4000", Name: "Sales Income", Type: model.TypeIncome},
		{Code: "4100", Name: "Other Income", Type: model.TypeOtherIncome},
		{Code: "4200", Name: "Interest Income", Type: model.TypeInterestIncome},
		{Code: "5000", Name: "Operating Expenses", Type: model.TypeExpense},
		{Code: "5100", Name: "Cost of Goods Sold", Type: model.TypeCostOfGoodsSold},
		{Code: "5200", Name: "Depreciation", Type: model.TypeDepreciation},
		{Code: "5900", Name: "Miscellaneous Expense", Type: model.TypeOtherExpense},
	}
}
