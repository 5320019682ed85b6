package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// addStrategyCommands adds strategy management commands.
func addStrategyCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Trading strategy management",
		Long:  "Define, list, and delete the strategies trades are tagged with.",
	}

	cmd.AddCommand(newStrategyAddCmd(app))
	cmd.AddCommand(newStrategyListCmd(app))
	cmd.AddCommand(newStrategyShowCmd(app))
	cmd.AddCommand(newStrategyDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

func newStrategyAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a strategy on the active account",
		Example: `  tradejournal strategy add "London Breakout" --market forex --timeframes 15m,1h \
    --entry "price_action:Break of Asian range high" --exit "target:Fixed 2R" \
    --risk 1 --rr 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			account, settings, err := app.activeAccount(ctx)
			if err != nil {
				return err
			}

			market, _ := cmd.Flags().GetString("market")
			timeframes, _ := cmd.Flags().GetStringSlice("timeframes")
			entries, _ := cmd.Flags().GetStringArray("entry")
			exits, _ := cmd.Flags().GetStringArray("exit")
			risk, _ := cmd.Flags().GetFloat64("risk")
			slPips, _ := cmd.Flags().GetFloat64("sl-pips")
			rr, _ := cmd.Flags().GetFloat64("rr")
			tags, _ := cmd.Flags().GetStringSlice("tags")

			entryConds, err := parseConditions(entries, settings.ConditionTypes)
			if err != nil {
				return err
			}
			exitConds, err := parseConditions(exits, settings.ConditionTypes)
			if err != nil {
				return err
			}

			strategy := &models.Strategy{
				AccountID:       account.ID,
				Name:            args[0],
				MarketType:      market,
				Timeframes:      timeframes,
				EntryConditions: entryConds,
				ExitConditions:  exitConds,
				RiskSettings: models.RiskSettings{
					RiskPercent:  risk,
					StopLossPips: slPips,
					RR:           rr,
				},
				Tags: tags,
			}
			if err := app.Store.SaveStrategy(ctx, strategy); err != nil {
				if errors.Is(err, apperrors.ErrDuplicateName) {
					return fmt.Errorf("a strategy named %q already exists on this account", args[0])
				}
				return err
			}

			output.Success("Strategy %q created (id %d)", strategy.Name, strategy.ID)
			return nil
		},
	}

	cmd.Flags().String("market", "", "Market type (forex, futures, crypto, stocks)")
	cmd.Flags().StringSlice("timeframes", nil, "Timeframes, comma separated")
	cmd.Flags().StringArray("entry", nil, "Entry condition as type:description (repeatable)")
	cmd.Flags().StringArray("exit", nil, "Exit condition as type:description (repeatable)")
	cmd.Flags().Float64("risk", 0, "Default risk percent per trade")
	cmd.Flags().Float64("sl-pips", 0, "Default stop loss in pips")
	cmd.Flags().Float64("rr", 0, "Default risk:reward ratio")
	cmd.Flags().StringSlice("tags", nil, "Tags, comma separated")

	return cmd
}

// parseConditions turns "type:description" strings into Conditions. When the
// settings carry a configured type list, unknown types are rejected.
func parseConditions(raw []string, knownTypes []string) ([]models.Condition, error) {
	conds := make([]models.Condition, 0, len(raw))
	for _, r := range raw {
		parts := strings.SplitN(r, ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("condition %q must be type:description", r)
		}
		condType := strings.TrimSpace(parts[0])
		if len(knownTypes) > 0 && !containsString(knownTypes, condType) {
			return nil, fmt.Errorf("unknown condition type %q (configured: %s)",
				condType, strings.Join(knownTypes, ", "))
		}
		conds = append(conds, models.Condition{
			Type:        condType,
			Description: strings.TrimSpace(parts[1]),
		})
	}
	return conds, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func newStrategyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List strategies on the active account",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			account, _, err := app.activeAccount(ctx)
			if err != nil {
				return err
			}
			strategies, err := app.Store.GetStrategies(ctx, account.ID)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(strategies)
			}
			if len(strategies) == 0 {
				output.Info("No strategies yet. Create one with: tradejournal strategy add")
				return nil
			}

			table := NewTable(output, "ID", "Name", "Market", "Timeframes", "Risk %", "RR")
			for _, s := range strategies {
				table.AddRow(
					strconv.FormatInt(s.ID, 10),
					s.Name,
					s.MarketType,
					strings.Join(s.Timeframes, ", "),
					fmt.Sprintf("%.1f", s.RiskSettings.RiskPercent),
					fmt.Sprintf("%.1f", s.RiskSettings.RR),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newStrategyShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a strategy's full definition",
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
				return fmt.Errorf("invalid strategy id: %s", args[0])
			}
			strategy, err := app.Store.GetStrategy(ctx, id)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(strategy)
			}

			output.Bold("%s", strategy.Name)
			output.Printf("Market:      %s\n", strategy.MarketType)
			output.Printf("Timeframes:  %s\n", strings.Join(strategy.Timeframes, ", "))
			output.Printf("Risk:        %.1f%% / SL %.1f pips / RR %.1f\n",
				strategy.RiskSettings.RiskPercent,
				strategy.RiskSettings.StopLossPips,
				strategy.RiskSettings.RR)
			if len(strategy.EntryConditions) > 0 {
				output.Println("Entry conditions:")
				for i, c := range strategy.EntryConditions {
					output.Printf("  %d. [%s] %s\n", i+1, c.Type, c.Description)
				}
			}
			if len(strategy.ExitConditions) > 0 {
				output.Println("Exit conditions:")
				for i, c := range strategy.ExitConditions {
					output.Printf("  %d. [%s] %s\n", i+1, c.Type, c.Description)
				}
			}
			if len(strategy.Tags) > 0 {
				output.Printf("Tags: %s\n", strings.Join(strategy.Tags, ", "))
			}
			return nil
		},
	}
}

func newStrategyDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a strategy",
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
				return fmt.Errorf("invalid strategy id: %s", args[0])
			}
			if err := app.Store.DeleteStrategy(ctx, id); err != nil {
				if errors.Is(err, apperrors.ErrStrategyInUse) {
					output.Error("Strategy %d has trades referencing it and cannot be deleted.", id)
					output.Println("Reassign or delete those trades first.")
					return nil
				}
				return err
			}

			output.Success("Strategy %d deleted", id)
			return nil
		},
	}
}
