package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bookkeep-dev/bookkeep/internal/report"
)

// CSV rendering of report output. Reports hand over plain name/amount
// records; nothing here touches ledger state.

// WriteBalanceSheet writes a balance sheet as CSV sections with group
// totals.
func WriteBalanceSheet(w io.Writer, bs *report.BalanceSheet) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"section", "code", "name", "amount"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	sections := []struct {
		name  string
		rows  []report.AccountAmount
		total string
	}{
		{"assets", bs.Assets, bs.TotalAssets.StringFixed(2)},
		{"liabilities", bs.Liabilities, bs.TotalLiabilities.StringFixed(2)},
		{"equity", bs.Equity, bs.TotalEquity.StringFixed(2)},
	}
	for _, sec := range sections {
		for _, row := range sec.rows {
			if err := cw.Write([]string{sec.name, row.Code, row.Name, row.Amount.StringFixed(2)}); err != nil {
				return fmt.Errorf("writing %s row: %w", sec.name, err)
			}
		}
		if err := cw.Write([]string{sec.name, "", "TOTAL", sec.total}); err != nil {
			return fmt.Errorf("writing %s total: %w", sec.name, err)
		}
	}
	return cw.Error()
}

// WriteProfitAndLoss writes an income statement as CSV.
func WriteProfitAndLoss(w io.Writer, pnl *report.ProfitAndLoss) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"section", "code", "name", "amount"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range pnl.Income {
		if err := cw.Write([]string{"income", row.Code, row.Name, row.Amount.StringFixed(2)}); err != nil {
			return fmt.Errorf("writing income row: %w", err)
		}
	}
	for _, row := range pnl.Expenses {
		if err := cw.Write([]string{"expenses", row.Code, row.Name, row.Amount.StringFixed(2)}); err != nil {
			return fmt.Errorf("writing expense row: %w", err)
		}
	}
	if err := cw.Write([]string{"summary", "", "net_profit", pnl.NetProfit.StringFixed(2)}); err != nil {
		return fmt.Errorf("writing net profit: %w", err)
	}
	return cw.Error()
}

// WriteTrialBalance writes a trial balance as CSV.
func WriteTrialBalance(w io.Writer, tb *report.TrialBalance) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"code", "name", "type", "debit", "credit"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range tb.Rows {
		rec := []string{row.Code, row.Name, string(row.Type),
			row.Debit.StringFixed(2), row.Credit.StringFixed(2)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %s: %w", row.Code, err)
		}
	}
	if err := cw.Write([]string{"", "TOTAL", "",
		tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2)}); err != nil {
		return fmt.Errorf("writing totals: %w", err)
	}
	return cw.Error()
}
