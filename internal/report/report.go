package report

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bookkeep-dev/bookkeep/internal/balance"
	"github.com/bookkeep-dev/bookkeep/internal/model"
)

// AccountSource lists chart-of-accounts entries by category.
type AccountSource interface {
	ByCategory(ctx context.Context, cat model.Category) ([]model.Account, error)
}

// Generator composes balance calculations into financial reports.
type Generator struct {
	accounts AccountSource
	calc     *balance.Calculator
}

// NewGenerator creates a report generator.
func NewGenerator(accounts AccountSource, calc *balance.Calculator) *Generator {
	return &Generator{accounts: accounts, calc: calc}
}

// AccountAmount is one report row: an account and its amount. Export
// layers consume these as plain records.
type AccountAmount struct {
	Code   string
	Name   string
	Amount decimal.Decimal
}

func sumAmounts(rows []AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total
}
