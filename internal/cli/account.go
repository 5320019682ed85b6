package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/models"
	"tradejournal/pkg/utils"
)

// addAccountCommands adds account management commands.
func addAccountCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Trading account management",
		Long:  "Create, list, select, and delete trading accounts.",
	}

	cmd.AddCommand(newAccountAddCmd(app))
	cmd.AddCommand(newAccountListCmd(app))
	cmd.AddCommand(newAccountUseCmd(app))
	cmd.AddCommand(newAccountDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

func newAccountAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new account",
		Example: `  tradejournal account add "FTMO 100k" --balance 100000 --prop --max-drawdown 10
  tradejournal account add Personal --balance 5000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			balance, _ := cmd.Flags().GetFloat64("balance")
			if balance <= 0 {
				return fmt.Errorf("initial balance must be positive")
			}
			isProp, _ := cmd.Flags().GetBool("prop")
			maxDD, _ := cmd.Flags().GetFloat64("max-drawdown")
			dailyDD, _ := cmd.Flags().GetFloat64("daily-drawdown")
			maxLoss, _ := cmd.Flags().GetFloat64("max-loss-per-day")
			maxTrades, _ := cmd.Flags().GetInt("max-trades-per-day")
			split, _ := cmd.Flags().GetFloat64("profit-split")

			if isProp && maxDD <= 0 {
				return fmt.Errorf("prop firm accounts require --max-drawdown")
			}

			account := &models.Account{
				Name:            args[0],
				InitialBalance:  balance,
				MaxDrawdown:     maxDD,
				DailyDrawdown:   dailyDD,
				MaxLossPerDay:   maxLoss,
				MaxTradesPerDay: maxTrades,
				ProfitSplit:     split,
				IsPropFirm:      isProp,
			}
			if err := app.Store.SaveAccount(ctx, account); err != nil {
				return err
			}

			// First account becomes active automatically.
			settings, err := app.Store.GetSettings(ctx)
			if err == nil && settings.ActiveAccountID == 0 {
				settings.ActiveAccountID = account.ID
				if err := app.Store.SaveSettings(ctx, settings); err == nil {
					output.Info("Account set as active.")
				}
			}

			output.Success("Account %q created (id %d)", account.Name, account.ID)
			return nil
		},
	}

	cmd.Flags().Float64("balance", 0, "Initial balance (required, > 0)")
	cmd.Flags().Bool("prop", false, "Prop firm account")
	cmd.Flags().Float64("max-drawdown", 0, "Max drawdown percent (0-100)")
	cmd.Flags().Float64("daily-drawdown", 0, "Daily drawdown percent (0-100)")
	cmd.Flags().Float64("max-loss-per-day", 0, "Max loss per day percent (0-100)")
	cmd.Flags().Int("max-trades-per-day", 0, "Max trades per day")
	cmd.Flags().Float64("profit-split", 0, "Profit split percent (0-100)")
	cmd.MarkFlagRequired("balance")

	return cmd
}

func newAccountListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			accounts, err := app.Store.GetAccounts(ctx)
			if err != nil {
				return err
			}
			settings, _ := app.Store.GetSettings(ctx)

			if output.IsJSON() {
				return output.JSON(accounts)
			}
			if len(accounts) == 0 {
				output.Info("No accounts yet. Create one with: tradejournal account add")
				return nil
			}

			table := NewTable(output, "", "ID", "Name", "Balance", "Type", "Max DD")
			for _, a := range accounts {
				active := ""
				if settings != nil && settings.ActiveAccountID == a.ID {
					active = output.Green("*")
				}
				kind := "Personal"
				if a.IsPropFirm {
					kind = "Prop"
				}
				table.AddRow(
					active,
					strconv.FormatInt(a.ID, 10),
					a.Name,
					utils.FormatCurrency(a.InitialBalance),
					kind,
					fmt.Sprintf("%.0f%%", a.MaxDrawdown),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newAccountUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Set the active account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid account id: %s", args[0])
			}
			account, err := app.Store.GetAccount(ctx, id)
			if err != nil {
				return err
			}

			settings, err := app.Store.GetSettings(ctx)
			if err != nil {
				return err
			}
			settings.ActiveAccountID = account.ID
			if err := app.Store.SaveSettings(ctx, settings); err != nil {
				return err
			}

			output.Success("Active account: %s", account.Name)
			return nil
		},
	}
}

func newAccountDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account and all its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid account id: %s", args[0])
			}
			confirmed, _ := cmd.Flags().GetBool("yes")
			if !confirmed {
				output.Warning("Deleting an account removes all its trades, strategies, and reflections.")
				output.Println("Re-run with --yes to confirm.")
				return nil
			}

			if err := app.Store.DeleteAccount(ctx, id); err != nil {
				return err
			}

			// Clear the active pointer if it referenced the deleted account.
			settings, err := app.Store.GetSettings(ctx)
			if err == nil && settings.ActiveAccountID == id {
				settings.ActiveAccountID = 0
				app.Store.SaveSettings(ctx, settings)
			}

			app.Logger.Info().Int64("account_id", id).Msg("account deleted")
			output.Success("Account %d deleted", id)
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "Skip confirmation")
	return cmd
}
