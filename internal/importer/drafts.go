package importer

import (
	"fmt"

	"github.com/bookkeep-dev/bookkeep/internal/ledger"
	"github.com/bookkeep-dev/bookkeep/internal/model"
)

// DraftMapping names the accounts bank rows are posted against.
type DraftMapping struct {
	BankCode    string // bank account the statement belongs to
	ExpenseCode string // default account for money out
	IncomeCode  string // default account for money in
}

// Draft converts a bank statement row into a balanced double-entry
// posting: money out debits the expense account and credits the bank,
// money in debits the bank and credits the income account. Zero-amount
// rows are rejected.
func Draft(bt model.BankTransaction, m DraftMapping) (ledger.PostParams, error) {
	if bt.Amount.IsZero() {
		return ledger.PostParams{}, fmt.Errorf("bank row %q has zero amount", bt.Reference)
	}

	params := ledger.PostParams{
		Date:        bt.Date,
		Description: bt.Description,
		CreatedBy:   "importer",
	}

	if bt.Amount.IsNegative() {
		amount := bt.Amount.Abs()
		params.Type = model.TxnExpense
		params.Lines = []ledger.LineParams{
			{AccountCode: m.ExpenseCode, Debit: amount, Description: bt.Description},
			{AccountCode: m.BankCode, Credit: amount, Description: bt.Description},
		}
		return params, nil
	}

	params.Type = model.TxnIncome
	params.Lines = []ledger.LineParams{
		{AccountCode: m.BankCode, Debit: bt.Amount, Description: bt.Description},
		{AccountCode: m.IncomeCode, Credit: bt.Amount, Description: bt.Description},
	}
	return params, nil
}
