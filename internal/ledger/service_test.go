package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookkeep-dev/bookkeep/internal/accounts"
	"github.com/bookkeep-dev/bookkeep/internal/model"
	"github.com/bookkeep-dev/bookkeep/internal/store"
)

type fixture struct {
	store    *store.Store
	accounts *accounts.Service
	ledger   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	acctSvc := accounts.NewService(st, zerolog.Nop())
	_, err = acctSvc.SeedDefaults(context.Background())
	require.NoError(t, err)

	return &fixture{
		store:    st,
		accounts: acctSvc,
		ledger:   NewService(st, acctSvc, zerolog.Nop()),
	}
}

func (f *fixture) balance(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	acct, err := f.accounts.GetByCode(context.Background(), code)
	require.NoError(t, err)
	return acct.Balance
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func expensePost(amount string) PostParams {
	return PostParams{
		Type:        model.TxnExpense,
		Date:        date(2025, 1, 15),
		Description: "Office supplies",
		CreatedBy:   "tester",
		Lines: []LineParams{
			{AccountCode: "5000", Debit: dec(amount)},
			{AccountCode: "1010", Credit: dec(amount)},
		},
	}
}

func TestPost_UpdatesCachedBalances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.ledger.Post(ctx, expensePost("42.00"))
	require.NoError(t, err)
	require.Len(t, txn.Lines, 2)
	assert.True(t, txn.Balanced())

	// Expense is debit-normal: +42. Bank is debit-normal and was
	// credited: -42.
	assert.True(t, f.balance(t, "5000").Equal(dec("42.00")), "expense balance = %s", f.balance(t, "5000"))
	assert.True(t, f.balance(t, "1010").Equal(dec("-42.00")), "bank balance = %s", f.balance(t, "1010"))
}

func TestPost_CreditNormalSign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Capital contribution: debit bank, credit owner's equity.
	_, err := f.ledger.Post(ctx, PostParams{
		Type: model.TxnJournal,
		Date: date(2025, 1, 1),
		Lines: []LineParams{
			{AccountCode: "1010", Debit: dec("1000.00")},
			{AccountCode: "3000", Credit: dec("1000.00")},
		},
	})
	require.NoError(t, err)

	// Equity is credit-normal: a credit increases its balance.
	assert.True(t, f.balance(t, "3000").Equal(dec("1000.00")))
	assert.True(t, f.balance(t, "1010").Equal(dec("1000.00")))
}

func TestPost_GeneratesSequentialReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.ledger.Post(ctx, expensePost("10.00"))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-0001", first.Reference)

	second, err := f.ledger.Post(ctx, expensePost("20.00"))
	require.NoError(t, err)
	assert.Equal(t, "2025-01-0002", second.Reference)

	// A different month starts its own sequence.
	other := expensePost("30.00")
	other.Date = date(2025, 2, 1)
	third, err := f.ledger.Post(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-0001", third.Reference)
}

func TestPost_Unbalanced_NothingPersisted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	params := expensePost("100.00")
	params.Lines[1].Credit = dec("90.00")

	_, err := f.ledger.Post(ctx, params)
	require.ErrorIs(t, err, ErrValidation)

	txns, err := f.ledger.List(ctx, ListFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Empty(t, txns)
	assert.True(t, f.balance(t, "5000").IsZero())
	assert.True(t, f.balance(t, "1010").IsZero())
}

func TestPost_DuplicateReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	params := expensePost("10.00")
	params.Reference = "2025-01-0001"
	_, err := f.ledger.Post(ctx, params)
	require.NoError(t, err)

	_, err = f.ledger.Post(ctx, params)
	require.ErrorIs(t, err, store.ErrConflict)
}

func TestPost_UnknownAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	params := expensePost("10.00")
	params.Lines[0].AccountCode = "9999"

	_, err := f.ledger.Post(ctx, params)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPost_InactiveAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.accounts.Deactivate(ctx, "5000"))

	_, err := f.ledger.Post(ctx, expensePost("10.00"))
	require.ErrorIs(t, err, ErrValidation)
}

func TestVoid_RestoresBalances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.ledger.Post(ctx, expensePost("42.00"))
	require.NoError(t, err)

	require.NoError(t, f.ledger.Void(ctx, txn.ID, "tester"))

	assert.True(t, f.balance(t, "5000").IsZero())
	assert.True(t, f.balance(t, "1010").IsZero())

	got, err := f.ledger.Get(ctx, txn.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	for _, l := range got.Lines {
		assert.False(t, l.Active)
	}
}

func TestVoid_AlreadyVoided(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.ledger.Post(ctx, expensePost("42.00"))
	require.NoError(t, err)
	require.NoError(t, f.ledger.Void(ctx, txn.ID, "tester"))

	// The reversal must apply exactly once.
	err = f.ledger.Void(ctx, txn.ID, "tester")
	require.ErrorIs(t, err, ErrValidation)
	assert.True(t, f.balance(t, "5000").IsZero())
}

func TestVoid_NotFound(t *testing.T) {
	f := newFixture(t)
	err := f.ledger.Void(context.Background(), uuid.New(), "tester")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEdit_MatchesVoidThenRepost(t *testing.T) {
	ctx := context.Background()

	edited := newFixture(t)
	reposted := newFixture(t)

	original := expensePost("42.00")
	replacement := PostParams{
		Type:        model.TxnExpense,
		Date:        date(2025, 1, 20),
		Description: "Corrected amount",
		Lines: []LineParams{
			{AccountCode: "5000", Debit: dec("55.00")},
			{AccountCode: "2010", Credit: dec("55.00")},
		},
	}

	// Path 1: post then edit.
	txn, err := edited.ledger.Post(ctx, original)
	require.NoError(t, err)
	_, err = edited.ledger.Edit(ctx, txn.ID, EditParams{
		Type:        replacement.Type,
		Date:        replacement.Date,
		Description: replacement.Description,
		Actor:       "tester",
		Lines:       replacement.Lines,
	})
	require.NoError(t, err)

	// Path 2: post, void, repost.
	txn2, err := reposted.ledger.Post(ctx, original)
	require.NoError(t, err)
	require.NoError(t, reposted.ledger.Void(ctx, txn2.ID, "tester"))
	_, err = reposted.ledger.Post(ctx, replacement)
	require.NoError(t, err)

	for _, code := range []string{"1010", "2010", "5000"} {
		a := edited.balance(t, code)
		b := reposted.balance(t, code)
		assert.True(t, a.Equal(b), "account %s: edit=%s void+repost=%s", code, a, b)
	}
}

func TestEdit_PreservesAuditTrail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.ledger.Post(ctx, expensePost("42.00"))
	require.NoError(t, err)

	_, err = f.ledger.Edit(ctx, txn.ID, EditParams{
		Type:  model.TxnExpense,
		Date:  date(2025, 1, 16),
		Actor: "tester",
		Lines: []LineParams{
			{AccountCode: "5000", Debit: dec("50.00")},
			{AccountCode: "1010", Credit: dec("50.00")},
		},
	})
	require.NoError(t, err)

	got, err := f.ledger.Get(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, txn.Reference, got.Reference, "reference survives edits")
	require.Len(t, got.Lines, 4, "old lines deactivated, not deleted")

	active := 0
	for _, l := range got.Lines {
		if l.Active {
			active++
		}
	}
	assert.Equal(t, 2, active)

	assert.True(t, f.balance(t, "5000").Equal(dec("50.00")))
	assert.True(t, f.balance(t, "1010").Equal(dec("-50.00")))
}

func TestEdit_VoidedRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.ledger.Post(ctx, expensePost("42.00"))
	require.NoError(t, err)
	require.NoError(t, f.ledger.Void(ctx, txn.ID, "tester"))

	_, err = f.ledger.Edit(ctx, txn.ID, EditParams{
		Type:  model.TxnExpense,
		Date:  date(2025, 1, 16),
		Lines: balancedLines("10.00"),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestList_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	jan := expensePost("10.00")
	jan.Date = date(2025, 1, 10)
	_, err := f.ledger.Post(ctx, jan)
	require.NoError(t, err)

	feb := expensePost("20.00")
	feb.Date = date(2025, 2, 10)
	feb.Type = model.TxnJournal
	_, err = f.ledger.Post(ctx, feb)
	require.NoError(t, err)

	// Inclusive date bounds.
	txns, err := f.ledger.List(ctx, ListFilter{From: date(2025, 1, 10), To: date(2025, 1, 10)})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, date(2025, 1, 10), txns[0].Date)

	byType, err := f.ledger.List(ctx, ListFilter{Type: model.TxnJournal})
	require.NoError(t, err)
	require.Len(t, byType, 1)

	all, err := f.ledger.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetByReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	txn, err := f.ledger.Post(ctx, expensePost("10.00"))
	require.NoError(t, err)

	got, err := f.ledger.GetByReference(ctx, txn.Reference)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, got.ID)

	_, err = f.ledger.GetByReference(ctx, "2099-01-0001")
	require.ErrorIs(t, err, store.ErrNotFound)
}
