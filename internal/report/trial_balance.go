package report

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bookkeep-dev/bookkeep/internal/balance"
	"github.com/bookkeep-dev/bookkeep/internal/model"
)

// TrialBalanceRow is one account's raw debit and credit totals.
type TrialBalanceRow struct {
	Code   string
	Name   string
	Type   model.AccountType
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// TrialBalance lists raw debit/credit totals per account over the
// range, plus grand totals. Grand total debits equal grand total
// credits when every posting balanced.
type TrialBalance struct {
	Rows        []TrialBalanceRow
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// TrialBalance computes a trial balance over the given range.
func (g *Generator) TrialBalance(ctx context.Context, r balance.Range) (*TrialBalance, error) {
	tb := &TrialBalance{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}

	for _, cat := range []model.Category{
		model.CategoryAsset, model.CategoryLiability, model.CategoryEquity,
		model.CategoryIncome, model.CategoryExpense,
	} {
		accts, err := g.accounts.ByCategory(ctx, cat)
		if err != nil {
			return nil, err
		}
		for _, a := range accts {
			debit, credit, err := g.calc.Totals(ctx, a.ID, r)
			if err != nil {
				return nil, err
			}
			if debit.IsZero() && credit.IsZero() {
				continue
			}
			tb.Rows = append(tb.Rows, TrialBalanceRow{
				Code:   a.Code,
				Name:   a.Name,
				Type:   a.Type,
				Debit:  debit,
				Credit: credit,
			})
			tb.TotalDebit = tb.TotalDebit.Add(debit)
			tb.TotalCredit = tb.TotalCredit.Add(credit)
		}
	}
	return tb, nil
}
