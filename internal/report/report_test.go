package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookkeep-dev/bookkeep/internal/accounts"
	"github.com/bookkeep-dev/bookkeep/internal/balance"
	"github.com/bookkeep-dev/bookkeep/internal/ledger"
	"github.com/bookkeep-dev/bookkeep/internal/model"
	"github.com/bookkeep-dev/bookkeep/internal/store"
)

type env struct {
	ledger *ledger.Service
	gen    *Generator
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	acctSvc := accounts.NewService(st, zerolog.Nop())
	_, err = acctSvc.SeedDefaults(context.Background())
	require.NoError(t, err)

	return &env{
		ledger: ledger.NewService(st, acctSvc, zerolog.Nop()),
		gen:    NewGenerator(acctSvc, balance.NewCalculator(st)),
	}
}

func (e *env) post(t *testing.T, p ledger.PostParams) {
	t.Helper()
	_, err := e.ledger.Post(context.Background(), p)
	require.NoError(t, err)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func twoLine(txnType model.TransactionType, date time.Time, debitCode, creditCode, amount string) ledger.PostParams {
	return ledger.PostParams{
		Type: txnType,
		Date: date,
		Lines: []ledger.LineParams{
			{AccountCode: debitCode, Debit: dec(amount)},
			{AccountCode: creditCode, Credit: dec(amount)},
		},
	}
}

func rowAmount(rows []AccountAmount, code string) decimal.Decimal {
	for _, r := range rows {
		if r.Code == code {
			return r.Amount
		}
	}
	return decimal.Zero
}

func TestBalanceSheet(t *testing.T) {
	e := newEnv(t)

	// Owner puts in 100, business borrows 40, spends nothing.
	e.post(t, twoLine(model.TxnJournal, day(2025, 1, 1), "1010", "3000", "60.00"))
	e.post(t, twoLine(model.TxnJournal, day(2025, 1, 2), "1010", "2500", "40.00"))

	bs, err := e.gen.BalanceSheet(context.Background(), time.Time{})
	require.NoError(t, err)

	assert.True(t, bs.TotalAssets.Equal(dec("100.00")), "assets = %s", bs.TotalAssets)
	assert.True(t, bs.TotalLiabilities.Equal(dec("40.00")), "liabilities = %s", bs.TotalLiabilities)
	assert.True(t, bs.TotalEquity.Equal(dec("60.00")), "equity = %s", bs.TotalEquity)
	assert.True(t, bs.TotalAssets.Equal(bs.TotalLiabilities.Add(bs.TotalEquity)))

	assert.True(t, rowAmount(bs.Assets, "1010").Equal(dec("100.00")))
	assert.True(t, rowAmount(bs.Liabilities, "2500").Equal(dec("40.00")))
}

func TestBalanceSheet_AsOf(t *testing.T) {
	e := newEnv(t)

	e.post(t, twoLine(model.TxnJournal, day(2025, 1, 1), "1010", "3000", "100.00"))
	e.post(t, twoLine(model.TxnJournal, day(2025, 2, 1), "1010", "3000", "50.00"))

	bs, err := e.gen.BalanceSheet(context.Background(), day(2025, 1, 31))
	require.NoError(t, err)
	assert.True(t, bs.TotalAssets.Equal(dec("100.00")), "assets as of Jan 31 = %s", bs.TotalAssets)
}

func TestProfitAndLoss(t *testing.T) {
	e := newEnv(t)

	e.post(t, twoLine(model.TxnIncome, day(2025, 1, 10), "1010", "4000", "500.00"))
	e.post(t, twoLine(model.TxnExpense, day(2025, 1, 15), "5000", "1010", "200.00"))

	pnl, err := e.gen.ProfitAndLoss(context.Background(), PnLOptions{})
	require.NoError(t, err)

	assert.True(t, pnl.TotalIncome.Equal(dec("500.00")), "income = %s", pnl.TotalIncome)
	assert.True(t, pnl.TotalExpenses.Equal(dec("200.00")), "expenses = %s", pnl.TotalExpenses)
	assert.True(t, pnl.NetProfit.Equal(dec("300.00")), "net = %s", pnl.NetProfit)
	assert.True(t, rowAmount(pnl.Income, "4000").Equal(dec("500.00")))
	assert.True(t, rowAmount(pnl.Expenses, "5000").Equal(dec("200.00")))
}

func TestProfitAndLoss_IncomeRequiresIncomeType(t *testing.T) {
	e := newEnv(t)

	// A journal credit to an income account does not count as income,
	// but a journal debit to an expense account does count as expense.
	e.post(t, twoLine(model.TxnJournal, day(2025, 1, 10), "1010", "4000", "500.00"))
	e.post(t, twoLine(model.TxnJournal, day(2025, 1, 15), "5000", "1010", "80.00"))

	pnl, err := e.gen.ProfitAndLoss(context.Background(), PnLOptions{})
	require.NoError(t, err)

	assert.True(t, pnl.TotalIncome.IsZero(), "income = %s", pnl.TotalIncome)
	assert.True(t, pnl.TotalExpenses.Equal(dec("80.00")), "expenses = %s", pnl.TotalExpenses)
}

func TestProfitAndLoss_CashBasis(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// Accrued invoice income: not yet settled.
	e.post(t, twoLine(model.TxnIncome, day(2025, 1, 10), "1100", "4000", "300.00"))

	// Settled payment.
	settled := twoLine(model.TxnIncome, day(2025, 1, 20), "1010", "4000", "120.00")
	settled.PaymentSettlement = true
	e.post(t, settled)

	cash, err := e.gen.ProfitAndLoss(ctx, PnLOptions{Basis: BasisCash})
	require.NoError(t, err)
	assert.True(t, cash.TotalIncome.Equal(dec("120.00")), "cash income = %s", cash.TotalIncome)

	accrual, err := e.gen.ProfitAndLoss(ctx, PnLOptions{Basis: BasisAccrual})
	require.NoError(t, err)
	assert.True(t, accrual.TotalIncome.Equal(dec("420.00")), "accrual income = %s", accrual.TotalIncome)
}

func TestPeriodizedProfitAndLoss(t *testing.T) {
	e := newEnv(t)

	e.post(t, twoLine(model.TxnIncome, day(2025, 1, 10), "1010", "4000", "100.00"))
	e.post(t, twoLine(model.TxnIncome, day(2025, 2, 10), "1010", "4000", "250.00"))
	e.post(t, twoLine(model.TxnExpense, day(2025, 2, 20), "5000", "1010", "40.00"))

	results, err := e.gen.PeriodizedProfitAndLoss(
		context.Background(), day(2025, 1, 1), day(2025, 3, 31), Monthly, BasisAccrual)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].NetProfit.Equal(dec("100.00")), "jan = %s", results[0].NetProfit)
	assert.True(t, results[1].NetProfit.Equal(dec("210.00")), "feb = %s", results[1].NetProfit)
	assert.True(t, results[2].NetProfit.IsZero(), "mar = %s", results[2].NetProfit)
	assert.Equal(t, day(2025, 2, 1), results[1].Period.Start)
	assert.Equal(t, day(2025, 2, 28), results[1].Period.End)
}

func TestTrialBalance(t *testing.T) {
	e := newEnv(t)

	e.post(t, twoLine(model.TxnJournal, day(2025, 1, 1), "1010", "3000", "100.00"))
	e.post(t, twoLine(model.TxnExpense, day(2025, 1, 5), "5000", "1010", "30.00"))

	tb, err := e.gen.TrialBalance(context.Background(), balance.Range{})
	require.NoError(t, err)

	// Only touched accounts appear.
	require.Len(t, tb.Rows, 3)
	assert.True(t, tb.TotalDebit.Equal(tb.TotalCredit), "debits %s != credits %s", tb.TotalDebit, tb.TotalCredit)
	assert.True(t, tb.TotalDebit.Equal(dec("130.00")))

	for _, row := range tb.Rows {
		if row.Code == "1010" {
			assert.True(t, row.Debit.Equal(dec("100.00")))
			assert.True(t, row.Credit.Equal(dec("30.00")))
		}
	}
}

func TestTrialBalance_EmptyBook(t *testing.T) {
	e := newEnv(t)

	tb, err := e.gen.TrialBalance(context.Background(), balance.Range{})
	require.NoError(t, err)
	assert.Empty(t, tb.Rows)
	assert.True(t, tb.TotalDebit.IsZero())
}
