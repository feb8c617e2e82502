package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookkeep-dev/bookkeep/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func balancedLines(amount string) []LineParams {
	return []LineParams{
		{AccountCode: "5000", Debit: dec(amount)},
		{AccountCode: "1010", Credit: dec(amount)},
	}
}

func TestValidateLines_Balanced(t *testing.T) {
	errs := ValidateLines("ref", balancedLines("100.00"))
	assert.Empty(t, errs)
}

func TestValidateLines_Empty(t *testing.T) {
	errs := ValidateLines("ref", nil)
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Invariant)
}

func TestValidateLines_Unbalanced(t *testing.T) {
	lines := []LineParams{
		{AccountCode: "5000", Debit: dec("100.00")},
		{AccountCode: "1010", Credit: dec("90.00")},
	}
	errs := ValidateLines("ref", lines)
	require.Len(t, errs, 1)
	assert.Equal(t, 7, errs[0].Invariant)
	assert.Contains(t, errs[0].Description, "100.00")
	assert.Contains(t, errs[0].Description, "90.00")
}

func TestValidateLines_PerLine(t *testing.T) {
	tests := []struct {
		name          string
		line          LineParams
		wantInvariant int
	}{
		{
			name:          "both sides set",
			line:          LineParams{AccountCode: "1010", Debit: dec("10.00"), Credit: dec("10.00")},
			wantInvariant: 2,
		},
		{
			name:          "neither side set",
			line:          LineParams{AccountCode: "1010"},
			wantInvariant: 2,
		},
		{
			name:          "negative amount",
			line:          LineParams{AccountCode: "1010", Debit: dec("-10.00")},
			wantInvariant: 2,
		},
		{
			name:          "missing account code",
			line:          LineParams{Debit: dec("10.00")},
			wantInvariant: 3,
		},
		{
			name:          "too many decimal places",
			line:          LineParams{AccountCode: "1010", Debit: dec("10.001")},
			wantInvariant: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Pair with a balancing counter-line so only the flaw
			// under test is reported.
			counter := LineParams{AccountCode: "9999", Credit: tt.line.Debit.Sub(tt.line.Credit)}
			errs := ValidateLines("ref", []LineParams{tt.line, counter})

			found := false
			for _, ve := range errs {
				if ve.Invariant == tt.wantInvariant {
					found = true
				}
			}
			assert.True(t, found, "expected invariant %d in %v", tt.wantInvariant, errs)
		})
	}
}

func TestValidateHeader(t *testing.T) {
	errs := ValidateHeader("ref", model.TxnExpense, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	assert.Empty(t, errs)

	errs = ValidateHeader("ref", "bogus", time.Time{})
	require.Len(t, errs, 2)
	assert.Equal(t, 5, errs[0].Invariant)
	assert.Equal(t, 6, errs[1].Invariant)
}

func TestValidationError_Error(t *testing.T) {
	ve := ValidationError{Invariant: 7, Reference: "2025-01-0001", Description: "debits != credits"}
	assert.Equal(t, "invariant 7 [2025-01-0001]: debits != credits", ve.Error())
}
