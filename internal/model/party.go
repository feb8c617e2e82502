package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartyKind distinguishes customers (receivables) from vendors (payables).
type PartyKind string

const (
	PartyCustomer PartyKind = "customer"
	PartyVendor   PartyKind = "vendor"
)

// Party is a customer or vendor the business trades with.
type Party struct {
	ID        uuid.UUID
	Kind      PartyKind
	Name      string
	Active    bool
	CreatedAt time.Time
}

// Tracking is a per-party running total of amounts owed (receivable for
// customers, payable for vendors) plus advances/prepayments. These are
// fast-path accumulators updated alongside ledger postings, not derived
// from replay; see tracker.Reconcile for the drift check.
type Tracking struct {
	PartyID   uuid.UUID
	Amount    decimal.Decimal
	Advance   decimal.Decimal
	UpdatedAt time.Time
}
