package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReconcileCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Check receivable/payable trackers against the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			drifts, err := app.tracker.Reconcile(cmd.Context())
			if err != nil {
				return err
			}
			if len(drifts) == 0 {
				fmt.Println("Trackers agree with the ledger")
				return nil
			}

			for _, d := range drifts {
				fmt.Printf("%-10s %-30s tracked %12s, ledger %12s (diff %s)\n",
					d.Kind, d.PartyName,
					d.Tracked.StringFixed(2), d.Derived.StringFixed(2),
					d.Diff().StringFixed(2))
			}
			return fmt.Errorf("%d parties drifted from ledger truth", len(drifts))
		},
	}
}

func newAuditCommand(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent ledger mutations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			entries, err := app.audit.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%s %-6s %-12s %-10s %s\n",
					e.At.Format("2006-01-02 15:04:05"), e.Action, e.Reference, e.Actor, e.Detail)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show")
	return cmd
}
