package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookkeep-dev/bookkeep/internal/balance"
	"github.com/bookkeep-dev/bookkeep/internal/model"
)

// Basis selects accrual or cash recognition for profit and loss.
type Basis string

const (
	// BasisAccrual includes every active posting.
	BasisAccrual Basis = "accrual"
	// BasisCash includes only payment-settlement postings, as flagged
	// by the invoice/bill subsystem.
	BasisCash Basis = "cash"
)

// PnLOptions restrict a profit and loss computation.
type PnLOptions struct {
	Range balance.Range
	Basis Basis // empty means accrual
}

// ProfitAndLoss is an income statement over a period.
type ProfitAndLoss struct {
	Period        Period
	Income        []AccountAmount
	Expenses      []AccountAmount
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetProfit     decimal.Decimal
}

// ProfitAndLoss computes the income statement. Income sums credits to
// income-category accounts restricted to income-typed transactions;
// expenses sum debits to expense-category accounts across all
// transaction types. The asymmetry is deliberate: expenses may come
// from any posting (expense, transfer or journal), while income is
// recognized only through income transactions.
func (g *Generator) ProfitAndLoss(ctx context.Context, opts PnLOptions) (*ProfitAndLoss, error) {
	settlementOnly := opts.Basis == BasisCash

	incomeAccts, err := g.accounts.ByCategory(ctx, model.CategoryIncome)
	if err != nil {
		return nil, err
	}
	var income []AccountAmount
	for _, a := range incomeAccts {
		_, credit, err := g.calc.Sum(ctx, balance.SumOptions{
			AccountID:       a.ID,
			Range:           opts.Range,
			TransactionType: model.TxnIncome,
			SettlementOnly:  settlementOnly,
		})
		if err != nil {
			return nil, err
		}
		income = append(income, AccountAmount{Code: a.Code, Name: a.Name, Amount: credit})
	}

	expenseAccts, err := g.accounts.ByCategory(ctx, model.CategoryExpense)
	if err != nil {
		return nil, err
	}
	var expenses []AccountAmount
	for _, a := range expenseAccts {
		debit, _, err := g.calc.Sum(ctx, balance.SumOptions{
			AccountID:      a.ID,
			Range:          opts.Range,
			SettlementOnly: settlementOnly,
		})
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, AccountAmount{Code: a.Code, Name: a.Name, Amount: debit})
	}

	totalIncome := sumAmounts(income)
	totalExpenses := sumAmounts(expenses)
	return &ProfitAndLoss{
		Period:        Period{Start: opts.Range.From, End: opts.Range.To},
		Income:        income,
		Expenses:      expenses,
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		NetProfit:     totalIncome.Sub(totalExpenses),
	}, nil
}

// PeriodizedProfitAndLoss partitions [start, end] by granularity and
// computes a profit and loss statement for each period.
func (g *Generator) PeriodizedProfitAndLoss(ctx context.Context, start, end time.Time, granularity Granularity, basis Basis) ([]ProfitAndLoss, error) {
	periods, err := Periods(start, end, granularity)
	if err != nil {
		return nil, err
	}

	var results []ProfitAndLoss
	for _, p := range periods {
		pnl, err := g.ProfitAndLoss(ctx, PnLOptions{
			Range: balance.Range{From: p.Start, To: p.End},
			Basis: basis,
		})
		if err != nil {
			return nil, err
		}
		pnl.Period = p
		results = append(results, *pnl)
	}
	return results, nil
}
