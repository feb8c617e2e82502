package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bookkeep-dev/bookkeep/internal/ledger"
	"github.com/bookkeep-dev/bookkeep/internal/model"
)

func newEditCommand(configPath *string) *cobra.Command {
	var (
		txnType     string
		dateStr     string
		description string
		debitCode   string
		creditCode  string
		amountStr   string
	)

	cmd := &cobra.Command{
		Use:   "edit <reference>",
		Short: "Replace a transaction's fields and lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse(flagDateFormat, dateStr)
			if err != nil {
				return fmt.Errorf("parsing date %q: %w", dateStr, err)
			}
			amount, err := decimal.NewFromString(amountStr)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amountStr, err)
			}

			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			txn, err := app.ledger.GetByReference(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			edited, err := app.ledger.Edit(cmd.Context(), txn.ID, ledger.EditParams{
				Type:        model.TransactionType(txnType),
				Date:        date,
				Description: description,
				Actor:       "cli",
				Lines: []ledger.LineParams{
					{AccountCode: debitCode, Debit: amount, Description: description},
					{AccountCode: creditCode, Credit: amount, Description: description},
				},
			})
			if err != nil {
				return err
			}

			fmt.Printf("Edited %s (%s %s)\n", edited.Reference, edited.Type, amount.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&txnType, "type", "journal", "transaction type (expense, income, transfer, journal)")
	cmd.Flags().StringVar(&dateStr, "date", time.Now().Format(flagDateFormat), "transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&debitCode, "debit", "", "account code to debit (required)")
	_ = cmd.MarkFlagRequired("debit")
	cmd.Flags().StringVar(&creditCode, "credit", "", "account code to credit (required)")
	_ = cmd.MarkFlagRequired("credit")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
