package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookkeep-dev/bookkeep/internal/model"
)

const chaseSample = `Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #
DEBIT,01/03/2025,GITHUB INC,-10.00,ACH_DEBIT,1990.00,
CREDIT,01/05/2025,STRIPE PAYOUT,250.50,ACH_CREDIT,2240.50,
`

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestChaseParser_Parse(t *testing.T) {
	txns, err := (&ChaseParser{}).Parse(strings.NewReader(chaseSample))
	require.NoError(t, err)
	require.Len(t, txns, 2)

	first := txns[0]
	assert.Equal(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "GITHUB INC", first.Description)
	assert.True(t, first.Amount.Equal(dec("-10.00")))
	assert.Equal(t, "ACH_DEBIT", first.Type)
	assert.Equal(t, "chase_20250103_GITHUBINC", first.Reference)

	second := txns[1]
	assert.True(t, second.Amount.Equal(dec("250.50")))
}

func TestChaseParser_HeaderOnly(t *testing.T) {
	header := "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"
	txns, err := (&ChaseParser{}).Parse(strings.NewReader(header))
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestChaseParser_BadRow(t *testing.T) {
	bad := chaseSample + "DEBIT,not-a-date,X,-1.00,ACH_DEBIT,0.00,\n"
	_, err := (&ChaseParser{}).Parse(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestMakeChaseRef_TruncatesAndStrips(t *testing.T) {
	date := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	ref := makeChaseRef(date, "AMAZON WEB SERVICES #1234")
	assert.Equal(t, "chase_20250103_AMAZONWEBS", ref)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("chase"))
	assert.NotNil(t, r.Get("CHASE"))
	assert.Nil(t, r.Get("unknown"))

	assert.Panics(t, func() { r.Register(&ChaseParser{}) })
}

func TestDraft_MoneyOut(t *testing.T) {
	mapping := DraftMapping{BankCode: "1010", ExpenseCode: "5000", IncomeCode: "4000"}
	bt := model.BankTransaction{
		Date:        time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		Description: "GITHUB INC",
		Amount:      dec("-10.00"),
	}

	params, err := Draft(bt, mapping)
	require.NoError(t, err)
	assert.Equal(t, model.TxnExpense, params.Type)
	require.Len(t, params.Lines, 2)
	assert.Equal(t, "5000", params.Lines[0].AccountCode)
	assert.True(t, params.Lines[0].Debit.Equal(dec("10.00")))
	assert.Equal(t, "1010", params.Lines[1].AccountCode)
	assert.True(t, params.Lines[1].Credit.Equal(dec("10.00")))
}

func TestDraft_MoneyIn(t *testing.T) {
	mapping := DraftMapping{BankCode: "1010", ExpenseCode: "5000", IncomeCode: "4000"}
	bt := model.BankTransaction{
		Date:   time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		Amount: dec("250.50"),
	}

	params, err := Draft(bt, mapping)
	require.NoError(t, err)
	assert.Equal(t, model.TxnIncome, params.Type)
	require.Len(t, params.Lines, 2)
	assert.Equal(t, "1010", params.Lines[0].AccountCode)
	assert.True(t, params.Lines[0].Debit.Equal(dec("250.50")))
	assert.Equal(t, "4000", params.Lines[1].AccountCode)
}

func TestDraft_ZeroAmount(t *testing.T) {
	_, err := Draft(model.BankTransaction{Amount: decimal.Zero}, DraftMapping{})
	assert.Error(t, err)
}

func TestScanAndMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jan.csv"), []byte(chaseSample), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "jan.csv", files[0].Name)
	assert.Positive(t, files[0].Size)

	require.NoError(t, MarkProcessed(dir, "jan.csv"))

	files, err = Scan(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.FileExists(t, filepath.Join(dir, "processed", "jan.csv"))
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
