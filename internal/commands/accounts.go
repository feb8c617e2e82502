package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookkeep-dev/bookkeep/internal/accounts"
	"github.com/bookkeep-dev/bookkeep/internal/model"
)

func newAccountsCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage the chart of accounts",
	}
	cmd.AddCommand(newAccountsListCommand(configPath))
	cmd.AddCommand(newAccountsAddCommand(configPath))
	return cmd
}

func newAccountsListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts with cached balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			accts, err := app.accounts.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, a := range accts {
				status := ""
				if !a.Active {
					status = " (inactive)"
				}
				fmt.Printf("%-6s %-30s %-20s %12s%s\n",
					a.Code, a.Name, a.Type, a.Balance.StringFixed(2), status)
			}
			return nil
		},
	}
}

func newAccountsAddCommand(configPath *string) *cobra.Command {
	var code, name, acctType string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account to the chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			acct, err := app.accounts.Create(cmd.Context(), accounts.CreateParams{
				Code: code,
				Name: name,
				Type: model.AccountType(acctType),
			})
			if err != nil {
				return err
			}
			fmt.Printf("Created account %s (%s, %s)\n", acct.Code, acct.Name, acct.Type)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "account code (required)")
	_ = cmd.MarkFlagRequired("code")
	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&acctType, "type", "", "account type (required)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}
