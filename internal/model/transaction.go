package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType labels the business intent of a transaction.
type TransactionType string

const (
	TxnExpense  TransactionType = "expense"
	TxnIncome   TransactionType = "income"
	TxnTransfer TransactionType = "transfer"
	TxnJournal  TransactionType = "journal"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TxnExpense, TxnIncome, TxnTransfer, TxnJournal:
		return true
	}
	return false
}

// Transaction is a balanced double-entry posting. Voided and edited
// transactions are never physically deleted: the transaction and its
// lines carry Active flags so the audit trail survives.
type Transaction struct {
	ID          uuid.UUID
	Reference   string
	Type        TransactionType
	Date        time.Time
	Description string
	Active      bool
	// PaymentSettlement marks postings that stem from a payment
	// settlement event rather than an accrual. Maintained by the
	// invoice/bill subsystem and consumed by cash-basis reporting.
	PaymentSettlement bool
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Lines []TransactionLine
}

// TotalDebits sums debit amounts over active lines.
func (t Transaction) TotalDebits() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range t.Lines {
		if l.Active {
			sum = sum.Add(l.Debit)
		}
	}
	return sum
}

// TotalCredits sums credit amounts over active lines.
func (t Transaction) TotalCredits() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range t.Lines {
		if l.Active {
			sum = sum.Add(l.Credit)
		}
	}
	return sum
}

// Balanced reports whether active debits equal active credits.
func (t Transaction) Balanced() bool {
	return t.TotalDebits().Equal(t.TotalCredits())
}

// TransactionLine is one side of a posting against a single account.
// Exactly one of Debit/Credit is non-zero.
type TransactionLine struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	AccountID     uuid.UUID
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Description   string
	InvoiceItemID *uuid.UUID
	BillItemID    *uuid.UUID
	// PartyID links the line to a customer or vendor so receivable and
	// payable trackers can be reconciled against the ledger.
	PartyID  *uuid.UUID
	Active   bool
	Position int
}

// SignedAmount returns the line's effect on an account of the given
// category: debit minus credit, flipped for credit-normal categories.
func (l TransactionLine) SignedAmount(c Category) decimal.Decimal {
	raw := l.Debit.Sub(l.Credit)
	if c.NormalSign() < 0 {
		return raw.Neg()
	}
	return raw
}
