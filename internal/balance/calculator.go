package balance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookkeep-dev/bookkeep/internal/model"
	"github.com/bookkeep-dev/bookkeep/internal/store"
)

const dateFormat = "2006-01-02"

// Range is a closed date interval. Zero times leave that side
// unbounded; no bounds at all means all-time.
type Range struct {
	From time.Time
	To   time.Time
}

// Calculator derives account balances from the ledger. It only reads
// active lines of active transactions and never consults the cached
// balance on the account row.
type Calculator struct {
	store *store.Store
}

// NewCalculator creates a Calculator.
func NewCalculator(st *store.Store) *Calculator {
	return &Calculator{store: st}
}

// SumOptions restricts a debit/credit summation.
type SumOptions struct {
	AccountID uuid.UUID
	Range     Range
	// TransactionType, when set, restricts to transactions of that type.
	TransactionType model.TransactionType
	// SettlementOnly restricts to payment-settlement transactions
	// (cash-basis reporting).
	SettlementOnly bool
}

// Sum returns total debits and credits over active lines of active
// transactions matching the options. No matching lines yields zeros,
// not an error.
func (c *Calculator) Sum(ctx context.Context, opts SumOptions) (debit, credit decimal.Decimal, err error) {
	query := `
		SELECT COALESCE(SUM(l.debit_cents), 0), COALESCE(SUM(l.credit_cents), 0)
		FROM transaction_lines l
		JOIN transactions t ON t.id = l.transaction_id
		WHERE l.account_id = ? AND l.active = 1 AND t.active = 1`
	args := []any{opts.AccountID.String()}

	if !opts.Range.From.IsZero() {
		query += " AND t.date >= ?"
		args = append(args, opts.Range.From.Format(dateFormat))
	}
	if !opts.Range.To.IsZero() {
		query += " AND t.date <= ?"
		args = append(args, opts.Range.To.Format(dateFormat))
	}
	if opts.TransactionType != "" {
		query += " AND t.type = ?"
		args = append(args, string(opts.TransactionType))
	}
	if opts.SettlementOnly {
		query += " AND t.payment_settlement = 1"
	}

	var debitCents, creditCents int64
	if err := c.store.DB().QueryRowContext(ctx, query, args...).Scan(&debitCents, &creditCents); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("summing lines for account %s: %w", opts.AccountID, err)
	}
	return model.FromCents(debitCents), model.FromCents(creditCents), nil
}

// Balance returns the account's derived balance over the range, signed
// by the account category's normal-balance convention: debit minus
// credit for assets and expenses, credit minus debit otherwise.
func (c *Calculator) Balance(ctx context.Context, acct *model.Account, r Range) (decimal.Decimal, error) {
	debit, credit, err := c.Sum(ctx, SumOptions{AccountID: acct.ID, Range: r})
	if err != nil {
		return decimal.Zero, err
	}
	if acct.Category().NormalSign() < 0 {
		return credit.Sub(debit), nil
	}
	return debit.Sub(credit), nil
}

// Totals returns raw debit and credit sums for the account over the
// range, for trial-balance style output.
func (c *Calculator) Totals(ctx context.Context, acctID uuid.UUID, r Range) (debit, credit decimal.Decimal, err error) {
	return c.Sum(ctx, SumOptions{AccountID: acctID, Range: r})
}
