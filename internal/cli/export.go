package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/report"
	"tradejournal/internal/store"
)

// addExportCommands adds the export command.
func addExportCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full report as CSV",
		Long: `Export every report section for the active account as CSV. Every field
is quoted so pairs, strategy names, and notes containing commas or
quotes survive a round trip through spreadsheet tools.`,
		Example: `  tradejournal export --out report.csv
  tradejournal export > report.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			account, settings, err := app.activeAccount(ctx)
			if err != nil {
				return err
			}

			trades, err := app.Store.GetTrades(ctx, store.TradeFilter{AccountID: account.ID})
			if err != nil {
				return err
			}
			reflections, err := app.Store.GetReflections(ctx, account.ID)
			if err != nil {
				reflections = nil
			}

			actx := app.analyticsContext(account, settings)
			r := report.NewAggregator(actx).Build(trades, reflections, account.InitialBalance)
			rows := report.Rows(r)

			path, _ := cmd.Flags().GetString("out")
			if path == "" {
				return report.WriteCSV(cmd.OutOrStdout(), rows)
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			defer f.Close()
			if err := report.WriteCSV(f, rows); err != nil {
				return err
			}

			output.Success("Report exported to %s (%d rows)", path, len(rows))
			app.Logger.Info().Str("path", path).Int("rows", len(rows)).Msg("report exported")
			return nil
		},
	}

	cmd.Flags().String("out", "", "Output file (stdout when omitted)")
	rootCmd.AddCommand(cmd)
}
