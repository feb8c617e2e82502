package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bookkeep-dev/bookkeep/internal/importer"
)

func newImportCommand(configPath *string) *cobra.Command {
	var (
		format    string
		importDir string
		bankCode  string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bank statement CSVs as draft postings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(*configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown statement format %q", format)
			}

			mapping := importer.DraftMapping{
				BankCode:    bankCode,
				ExpenseCode: app.cfg.Defaults.ExpenseCode,
				IncomeCode:  app.cfg.Defaults.IncomeCode,
			}

			files, err := importer.Scan(importDir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("Nothing to import")
				return nil
			}

			for _, file := range files {
				posted, err := importFile(cmd, app, parser, mapping, file)
				if err != nil {
					return fmt.Errorf("importing %s: %w", file.Name, err)
				}
				if err := importer.MarkProcessed(importDir, file.Name); err != nil {
					return err
				}
				fmt.Printf("Imported %s (%d transactions)\n", file.Name, posted)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "chase", "statement format")
	cmd.Flags().StringVar(&importDir, "dir", "import", "directory of statement CSVs")
	cmd.Flags().StringVar(&bankCode, "bank", "1010", "bank account code the statements belong to")

	return cmd
}

func importFile(cmd *cobra.Command, app *app, parser importer.Parser, mapping importer.DraftMapping, file importer.FileInfo) (int, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return 0, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	rows, err := parser.Parse(f)
	if err != nil {
		return 0, err
	}

	posted := 0
	for _, row := range rows {
		params, err := importer.Draft(row, mapping)
		if err != nil {
			app.log.Warn().Err(err).Str("row", row.Reference).Msg("skipping bank row")
			continue
		}
		if _, err := app.ledger.Post(cmd.Context(), params); err != nil {
			return posted, err
		}
		posted++
	}
	return posted, nil
}
