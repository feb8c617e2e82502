package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is one of the five fundamental accounting groups.
type Category string

const (
	CategoryAsset     Category = "asset"
	CategoryLiability Category = "liability"
	CategoryEquity    Category = "equity"
	CategoryIncome    Category = "income"
	CategoryExpense   Category = "expense"
)

// NormalSign returns +1 for debit-normal categories (assets, expenses)
// and -1 for credit-normal categories (liabilities, equity, income).
// Both the cached-balance updater and the report generator go through
// this one function so the sign convention cannot diverge.
func (c Category) NormalSign() int {
	switch c {
	case CategoryAsset, CategoryExpense:
		return 1
	default:
		return -1
	}
}

// AccountType classifies accounts in the chart of accounts. Each type
// belongs to exactly one Category.
type AccountType string

const (
	// Asset types.
	TypeCash               AccountType = "cash"
	TypeBank               AccountType = "bank"
	TypeAccountsReceivable AccountType = "accounts_receivable"
	TypeInventory          AccountType = "inventory"
	TypeOtherCurrentAsset  AccountType = "other_current_asset"
	TypeFixedAsset         AccountType = "fixed_asset"
	TypeOtherAsset         AccountType = "other_asset"

	// Liability types.
	TypeAccountsPayable   AccountType = "accounts_payable"
	TypeCreditCard        AccountType = "credit_card"
	TypeCurrentLiability  AccountType = "current_liability"
	TypeLongTermLiability AccountType = "long_term_liability"
	TypeOtherLiability    AccountType = "other_liability"

	// Equity types.
	TypeEquity           AccountType = "equity"
	TypeRetainedEarnings AccountType = "retained_earnings"

	// Income types.
	TypeIncome         AccountType = "income"
	TypeOtherIncome    AccountType = "other_income"
	TypeInterestIncome AccountType = "interest_income"

	// Expense types.
	TypeExpense         AccountType = "expense"
	TypeCostOfGoodsSold AccountType = "cost_of_goods_sold"
	TypeDepreciation    AccountType = "depreciation"
	TypeOtherExpense    AccountType = "other_expense"
)

var typeCategories = map[AccountType]Category{
	TypeCash:               CategoryAsset,
	TypeBank:               CategoryAsset,
	TypeAccountsReceivable: CategoryAsset,
	TypeInventory:          CategoryAsset,
	TypeOtherCurrentAsset:  CategoryAsset,
	TypeFixedAsset:         CategoryAsset,
	TypeOtherAsset:         CategoryAsset,
	TypeAccountsPayable:    CategoryLiability,
	TypeCreditCard:         CategoryLiability,
	TypeCurrentLiability:   CategoryLiability,
	TypeLongTermLiability:  CategoryLiability,
	TypeOtherLiability:     CategoryLiability,
	TypeEquity:             CategoryEquity,
	TypeRetainedEarnings:   CategoryEquity,
	TypeIncome:             CategoryIncome,
	TypeOtherIncome:        CategoryIncome,
	TypeInterestIncome:     CategoryIncome,
	TypeExpense:            CategoryExpense,
	TypeCostOfGoodsSold:    CategoryExpense,
	TypeDepreciation:       CategoryExpense,
	TypeOtherExpense:       CategoryExpense,
}

// Category returns the accounting group this type belongs to.
// Unknown types map to the empty Category.
func (t AccountType) Category() Category {
	return typeCategories[t]
}

// Valid reports whether t is one of the enumerated account types.
func (t AccountType) Valid() bool {
	_, ok := typeCategories[t]
	return ok
}

// AccountTypes returns all enumerated account types, grouped by
// category in declaration order.
func AccountTypes() []AccountType {
	return []AccountType{
		TypeCash, TypeBank, TypeAccountsReceivable, TypeInventory,
		TypeOtherCurrentAsset, TypeFixedAsset, TypeOtherAsset,
		TypeAccountsPayable, TypeCreditCard, TypeCurrentLiability,
		TypeLongTermLiability, TypeOtherLiability,
		TypeEquity, TypeRetainedEarnings,
		TypeIncome, TypeOtherIncome, TypeInterestIncome,
		TypeExpense, TypeCostOfGoodsSold, TypeDepreciation, TypeOtherExpense,
	}
}

// Account is one row in the chart of accounts. Balance is a cached
// value maintained by the ledger posting path; reports recompute
// balances from transaction lines and never read the cache.
type Account struct {
	ID        uuid.UUID
	Code      string
	Name      string
	Type      AccountType
	Balance   decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category returns the account's accounting group.
func (a Account) Category() Category {
	return a.Type.Category()
}
