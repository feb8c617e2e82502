package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bookkeep-dev/bookkeep/internal/balance"
	"github.com/bookkeep-dev/bookkeep/internal/export"
	"github.com/bookkeep-dev/bookkeep/internal/report"
)

func newReportCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate financial reports",
	}
	cmd.AddCommand(newBalanceSheetCommand(configPath))
	cmd.AddCommand(newProfitLossCommand(configPath))
	cmd.AddCommand(newTrialBalanceCommand(configPath))
	return cmd
}

func parseRange(fromStr, toStr string) (balance.Range, error) {
	var r balance.Range
	if fromStr != "" {
		from, err := time.Parse(flagDateFormat, fromStr)
		if err != nil {
			return r, fmt.Errorf("parsing --from %q: %w", fromStr, err)
		}
		r.From = from
	}
	if toStr != "" {
		to, err := time.Parse(flagDateFormat, toStr)
		if err != nil {
			return r, fmt.Errorf("parsing --to %q: %w", toStr, err)
		}
		r.To = to
	}
	return r, nil
}

func newBalanceSheetCommand(configPath *string) *cobra.Command {
	var asOfStr string

	cmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Assets, liabilities and equity with group totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var asOf time.Time
			if asOfStr != "" {
				var err error
				if asOf, err = time.Parse(flagDateFormat, asOfStr); err != nil {
					return fmt.Errorf("parsing --as-of %q: %w", asOfStr, err)
				}
			}

			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			bs, err := app.reports.BalanceSheet(cmd.Context(), asOf)
			if err != nil {
				return err
			}
			return export.WriteBalanceSheet(os.Stdout, bs)
		},
	}

	cmd.Flags().StringVar(&asOfStr, "as-of", "", "balance date (YYYY-MM-DD), empty = all time")
	return cmd
}

func newProfitLossCommand(configPath *string) *cobra.Command {
	var (
		fromStr string
		toStr   string
		period  string
		cash    bool
	)

	cmd := &cobra.Command{
		Use:   "pnl",
		Short: "Profit and loss, optionally periodized",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseRange(fromStr, toStr)
			if err != nil {
				return err
			}

			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			basis := report.BasisAccrual
			if cash {
				basis = report.BasisCash
			}

			if period != "" {
				if r.From.IsZero() || r.To.IsZero() {
					return fmt.Errorf("--period requires both --from and --to")
				}
				pnls, err := app.reports.PeriodizedProfitAndLoss(cmd.Context(),
					r.From, r.To, report.Granularity(period), basis)
				if err != nil {
					return err
				}
				for _, pnl := range pnls {
					fmt.Printf("# %s to %s\n",
						pnl.Period.Start.Format(flagDateFormat),
						pnl.Period.End.Format(flagDateFormat))
					if err := export.WriteProfitAndLoss(os.Stdout, &pnl); err != nil {
						return err
					}
				}
				return nil
			}

			pnl, err := app.reports.ProfitAndLoss(cmd.Context(), report.PnLOptions{Range: r, Basis: basis})
			if err != nil {
				return err
			}
			return export.WriteProfitAndLoss(os.Stdout, pnl)
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "period end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&period, "period", "", "periodize: monthly, quarterly or yearly")
	cmd.Flags().BoolVar(&cash, "cash", false, "cash basis (payment settlements only)")
	return cmd
}

func newTrialBalanceCommand(configPath *string) *cobra.Command {
	var (
		fromStr string
		toStr   string
	)

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Raw debit/credit totals per account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseRange(fromStr, toStr)
			if err != nil {
				return err
			}

			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			tb, err := app.reports.TrialBalance(cmd.Context(), r)
			if err != nil {
				return err
			}
			return export.WriteTrialBalance(os.Stdout, tb)
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "period end (YYYY-MM-DD)")
	return cmd
}
