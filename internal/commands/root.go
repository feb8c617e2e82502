package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bookkeep-dev/bookkeep/internal/accounts"
	"github.com/bookkeep-dev/bookkeep/internal/audit"
	"github.com/bookkeep-dev/bookkeep/internal/balance"
	"github.com/bookkeep-dev/bookkeep/internal/buildinfo"
	"github.com/bookkeep-dev/bookkeep/internal/config"
	"github.com/bookkeep-dev/bookkeep/internal/ledger"
	"github.com/bookkeep-dev/bookkeep/internal/report"
	"github.com/bookkeep-dev/bookkeep/internal/store"
	"github.com/bookkeep-dev/bookkeep/internal/tracker"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "bookkeep",
		Short:   "Small business double-entry accounting",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.FileName, "path to bookkeep.yaml")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountsCommand(&configPath))
	rootCmd.AddCommand(newPostCommand(&configPath))
	rootCmd.AddCommand(newVoidCommand(&configPath))
	rootCmd.AddCommand(newEditCommand(&configPath))
	rootCmd.AddCommand(newReportCommand(&configPath))
	rootCmd.AddCommand(newImportCommand(&configPath))
	rootCmd.AddCommand(newReconcileCommand(&configPath))
	rootCmd.AddCommand(newAuditCommand(&configPath))

	return rootCmd
}

// app bundles the wired services behind the CLI.
type app struct {
	cfg      *config.Config
	store    *store.Store
	accounts *accounts.Service
	ledger   *ledger.Service
	tracker  *tracker.Service
	reports  *report.Generator
	audit    *audit.Log
	log      zerolog.Logger
}

// openApp loads config, opens the store and wires the services.
func openApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	st, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		return nil, err
	}

	acctSvc := accounts.NewService(st, log)
	calc := balance.NewCalculator(st)
	return &app{
		cfg:      cfg,
		store:    st,
		accounts: acctSvc,
		ledger:   ledger.NewService(st, acctSvc, log),
		tracker:  tracker.NewService(st, log),
		reports:  report.NewGenerator(acctSvc, calc),
		audit:    audit.NewLog(st),
		log:      log,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing store")
	}
}
