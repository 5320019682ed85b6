package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/models"
)

// addSettingsCommands adds the settings command group.
func addSettingsCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Journal settings",
	}

	cmd.AddCommand(newSettingsShowCmd(app))
	cmd.AddCommand(newSettingsWindowCmd(app))
	cmd.AddCommand(newSettingsConditionTypesCmd(app))
	cmd.AddCommand(newSettingsBackupCmd(app))

	rootCmd.AddCommand(cmd)
}

func newSettingsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			settings, err := app.Store.GetSettings(ctx)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(settings)
			}

			window := "unrestricted"
			if !settings.TradingWindow.Unrestricted() {
				window = fmt.Sprintf("%s - %s", settings.TradingWindow.Start, settings.TradingWindow.End)
			}
			output.Printf("Active account:  %d\n", settings.ActiveAccountID)
			output.Printf("Trading window:  %s\n", window)
			output.Printf("Condition types: %s\n", strings.Join(settings.ConditionTypes, ", "))
			output.Printf("Backups:         %s\n", settings.BackupFrequency)
			return nil
		},
	}
}

func newSettingsWindowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Set or clear the trading window",
		Example: `  tradejournal settings window --start 08:00 --end 17:00
  tradejournal settings window --clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			settings, err := app.Store.GetSettings(ctx)
			if err != nil {
				return err
			}

			if clear, _ := cmd.Flags().GetBool("clear"); clear {
				settings.TradingWindow = models.TradingWindow{}
				if err := app.Store.SaveSettings(ctx, settings); err != nil {
					return err
				}
				output.Success("Trading window cleared")
				return nil
			}

			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			if !models.ValidClock(start) || !models.ValidClock(end) {
				return fmt.Errorf("start and end must be HH:MM")
			}
			settings.TradingWindow = models.TradingWindow{Start: start, End: end}
			if err := app.Store.SaveSettings(ctx, settings); err != nil {
				return err
			}

			output.Success("Trading window set: %s - %s", start, end)
			return nil
		},
	}

	cmd.Flags().String("start", "", "Window start (HH:MM)")
	cmd.Flags().String("end", "", "Window end (HH:MM)")
	cmd.Flags().Bool("clear", false, "Remove the window")
	return cmd
}

func newSettingsConditionTypesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "condition-types",
		Short: "Set the allowed strategy condition types",
		Example: `  tradejournal settings condition-types --set price_action,indicator,time,fundamental`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			settings, err := app.Store.GetSettings(ctx)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("set") {
				output.Printf("Condition types: %s\n", strings.Join(settings.ConditionTypes, ", "))
				return nil
			}

			types, _ := cmd.Flags().GetStringSlice("set")
			settings.ConditionTypes = types
			if err := app.Store.SaveSettings(ctx, settings); err != nil {
				return err
			}

			output.Success("Condition types updated")
			return nil
		},
	}

	cmd.Flags().StringSlice("set", nil, "Replace the type list, comma separated (empty disables validation)")
	return cmd
}

func newSettingsBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup <off|daily|weekly>",
		Short: "Set the backup frequency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			freq := strings.ToLower(args[0])
			switch freq {
			case "off", "daily", "weekly":
			default:
				return fmt.Errorf("frequency must be off, daily, or weekly")
			}

			settings, err := app.Store.GetSettings(ctx)
			if err != nil {
				return err
			}
			settings.BackupFrequency = freq
			if err := app.Store.SaveSettings(ctx, settings); err != nil {
				return err
			}

			output.Success("Backup frequency: %s", freq)
			return nil
		},
	}
	return cmd
}
