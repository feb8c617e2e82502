package model

import "github.com/shopspring/decimal"

// Amounts are persisted as integer cents so balance updates can be
// atomic increments in the store. Posting validation rejects amounts
// with more than two decimal places before anything reaches here.

// Cents converts a decimal amount to integer cents.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).IntPart()
}

// FromCents converts integer cents back to a decimal amount.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
