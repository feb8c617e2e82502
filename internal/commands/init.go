package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bookkeep-dev/bookkeep/internal/accounts"
	"github.com/bookkeep-dev/bookkeep/internal/config"
	"github.com/bookkeep-dev/bookkeep/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var entityType string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new set of books",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(cmd, absDir, name, entityType)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&entityType, "entity-type", "llc_single_member", "entity type")

	return cmd
}

func runInit(cmd *cobra.Command, dir, name, entityType string) error {
	if err := os.MkdirAll(filepath.Join(dir, "import"), 0o755); err != nil {
		return fmt.Errorf("creating import directory: %w", err)
	}

	cfg := config.Default(name, entityType)
	cfg.Database.Path = filepath.Join(dir, "bookkeep.db")
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	st, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	created, err := accounts.NewService(st, log).SeedDefaults(cmd.Context())
	if err != nil {
		return fmt.Errorf("seeding default accounts: %w", err)
	}

	fmt.Printf("Initialized books for %s at %s (%d accounts)\n", name, dir, created)
	return nil
}
