package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookkeep-dev/bookkeep/internal/balance"
	"github.com/bookkeep-dev/bookkeep/internal/model"
)

// BalanceSheet groups derived account balances into assets,
// liabilities and equity with per-group totals. TotalAssets should
// equal TotalLiabilities plus TotalEquity when every posting balanced;
// the report does not assert it.
type BalanceSheet struct {
	AsOf             time.Time
	Assets           []AccountAmount
	Liabilities      []AccountAmount
	Equity           []AccountAmount
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	TotalEquity      decimal.Decimal
}

// BalanceSheet computes a balance sheet as of the given date. A zero
// asOf means all-time.
func (g *Generator) BalanceSheet(ctx context.Context, asOf time.Time) (*BalanceSheet, error) {
	r := balance.Range{To: asOf}

	assets, err := g.categoryBalances(ctx, model.CategoryAsset, r)
	if err != nil {
		return nil, err
	}
	liabilities, err := g.categoryBalances(ctx, model.CategoryLiability, r)
	if err != nil {
		return nil, err
	}
	equity, err := g.categoryBalances(ctx, model.CategoryEquity, r)
	if err != nil {
		return nil, err
	}

	return &BalanceSheet{
		AsOf:             asOf,
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      sumAmounts(assets),
		TotalLiabilities: sumAmounts(liabilities),
		TotalEquity:      sumAmounts(equity),
	}, nil
}

func (g *Generator) categoryBalances(ctx context.Context, cat model.Category, r balance.Range) ([]AccountAmount, error) {
	accts, err := g.accounts.ByCategory(ctx, cat)
	if err != nil {
		return nil, err
	}

	var rows []AccountAmount
	for i := range accts {
		amount, err := g.calc.Balance(ctx, &accts[i], r)
		if err != nil {
			return nil, err
		}
		rows = append(rows, AccountAmount{
			Code:   accts[i].Code,
			Name:   accts[i].Name,
			Amount: amount,
		})
	}
	return rows, nil
}
