package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bookkeep-dev/bookkeep/internal/model"
)

// ErrValidation marks business-rule rejections. Validation runs before
// any persistence attempt, so a failed posting leaves no trace.
var ErrValidation = errors.New("validation failed")

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	Reference   string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.Reference, e.Description)
}

// LineParams describes one transaction line to post.
type LineParams struct {
	AccountCode   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Description   string
	InvoiceItemID *uuid.UUID
	BillItemID    *uuid.UUID
	PartyID       *uuid.UUID
}

// ValidateHeader checks transaction-level fields.
func ValidateHeader(ref string, txnType model.TransactionType, date time.Time) []ValidationError {
	var errs []ValidationError
	if !txnType.Valid() {
		errs = append(errs, ValidationError{
			Invariant:   5,
			Reference:   ref,
			Description: fmt.Sprintf("unknown transaction type %q", txnType),
		})
	}
	if date.IsZero() {
		errs = append(errs, ValidationError{
			Invariant:   6,
			Reference:   ref,
			Description: "transaction date is required",
		})
	}
	return errs
}

// ValidateLines enforces the posting invariants on a proposed line set:
// non-empty, one-sided positive amounts, balanced debits and credits,
// and no more than two decimal places.
func ValidateLines(ref string, lines []LineParams) []ValidationError {
	var errs []ValidationError

	// Invariant 1: at least one line.
	if len(lines) == 0 {
		return append(errs, ValidationError{
			Invariant:   1,
			Reference:   ref,
			Description: "transaction has no lines",
		})
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, line := range lines {
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)

		// Invariant 2: exactly one positive side per line.
		hasDebit := !line.Debit.IsZero()
		hasCredit := !line.Credit.IsZero()
		if hasDebit == hasCredit {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Reference:   ref,
				Description: fmt.Sprintf("line %d must have exactly one of debit or credit", i+1),
			})
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Reference:   ref,
				Description: fmt.Sprintf("line %d has a negative amount", i+1),
			})
		}

		if line.AccountCode == "" {
			errs = append(errs, ValidationError{
				Invariant:   3,
				Reference:   ref,
				Description: fmt.Sprintf("line %d is missing an account code", i+1),
			})
		}

		// Invariant 4: no more than 2 decimal places.
		for _, amt := range []decimal.Decimal{line.Debit, line.Credit} {
			if amt.IsZero() {
				continue
			}
			scaled := amt.Mul(decimal.NewFromInt(100))
			if !scaled.Equal(scaled.Floor()) {
				errs = append(errs, ValidationError{
					Invariant:   4,
					Reference:   ref,
					Description: fmt.Sprintf("line %d amount %s has more than 2 decimal places", i+1, amt),
				})
			}
		}
	}

	// Invariant 7: debits balance credits.
	if !totalDebit.Equal(totalCredit) {
		errs = append(errs, ValidationError{
			Invariant:   7,
			Reference:   ref,
			Description: fmt.Sprintf("debits (%s) != credits (%s)", totalDebit.StringFixed(2), totalCredit.StringFixed(2)),
		})
	}

	return errs
}

// joinValidation folds violations into a single ErrValidation-wrapped
// error, or nil.
func joinValidation(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, ve := range errs {
		msgs[i] = ve.Error()
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}
