package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/analytics"
	"tradejournal/internal/report"
	"tradejournal/internal/store"
	"tradejournal/pkg/utils"
)

// addReportCommands adds the report command.
func addReportCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Performance and behavior reports",
		Long: `Build the full report for the active account: performance cards and
equity curve, statistics bucketed by time dimension, a trader profile of
behavioral patterns, and trades outside the configured trading window.`,
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

			filter, err := filterFromFlags(cmd)
			if err != nil {
				return err
			}
			cache := analytics.NewFilterCache(app.strategyResolver(ctx, account.ID))
			trades = cache.Apply(trades, account.ID, filter)

			reflections, err := app.Store.GetReflections(ctx, account.ID)
			if err != nil {
				app.Logger.Warn().Err(err).Msg("reflections unavailable, discipline scores degrade")
				reflections = nil
			}

			actx := app.analyticsContext(account, settings)
			r := report.NewAggregator(actx).Build(trades, reflections, account.InitialBalance)

			if output.IsJSON() {
				return output.JSON(r)
			}

			section, _ := cmd.Flags().GetString("section")
			switch section {
			case "performance":
				renderPerformance(output, r.Performance)
			case "statistics":
				renderStatistics(output, r.Statistics)
			case "profile":
				renderProfile(output, r.Profile)
			case "window":
				renderWindow(output, r.OutsideWindow)
			case "", "all":
				renderPerformance(output, r.Performance)
				renderStatistics(output, r.Statistics)
				renderProfile(output, r.Profile)
				renderWindow(output, r.OutsideWindow)
			default:
				return fmt.Errorf("unknown section %q (performance, statistics, profile, window, all)", section)
			}

			for _, e := range r.Errors {
				output.Error("%v", e)
			}
			return nil
		},
	}

	cmd.Flags().String("section", "all", "Section to render: performance, statistics, profile, window, all")
	cmd.Flags().String("search", "", "Free text search (pair, strategy, outcome)")
	cmd.Flags().String("pair", "", "Filter by instrument")
	cmd.Flags().String("outcome", "", "Filter by outcome (Win/Loss)")
	cmd.Flags().Int64("strategy", 0, "Filter by strategy ID")
	cmd.Flags().Float64("risk-plan", 0, "Filter by planned risk percent")
	cmd.Flags().String("from", "", "Date from (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Date to (YYYY-MM-DD)")
	cmd.Flags().Float64("balance-min", 0, "Minimum running balance")
	cmd.Flags().Float64("balance-max", 0, "Maximum running balance")
	cmd.Flags().StringSlice("tag", nil, "Require custom tag (repeatable)")
	cmd.Flags().String("sort", "date-desc", "Sort order: date-desc, date-asc, pl-desc")

	rootCmd.AddCommand(cmd)
}

func renderPerformance(output *Output, s *report.PerformanceSection) {
	output.Bold("── Performance ──")
	if s == nil {
		output.Error("Section unavailable.")
		return
	}
	if s.Empty {
		output.Info("No data")
		output.Println()
		return
	}

	table := NewTable(output, "Metric", "Value")
	table.AddRow("Total Trades", strconv.Itoa(s.TotalTrades))
	table.AddRow("Net P&L", output.FormatPnL(s.NetPnL))
	table.AddRow("Win Rate", utils.FormatPercent(s.WinRate))
	table.AddRow("Profit Factor", utils.FormatRatio(s.ProfitFactor))
	table.AddRow("Avg Win/Loss", utils.FormatRatio(s.AvgWinLoss))
	table.AddRow("Max Drawdown", utils.FormatPercent(s.MaxDrawdown))
	table.AddRow("Avg Discipline", utils.FormatScore(s.AvgDiscipline))
	table.AddRow("Wins / Losses", fmt.Sprintf("%d / %d", s.Wins, s.Losses))
	table.Render()

	if len(s.PairPnL) > 0 {
		output.Println()
		pairs := NewTable(output, "Pair", "Trades", "Net P&L", "Win Rate")
		for _, p := range s.PairPnL {
			pairs.AddRow(p.Pair, strconv.Itoa(p.Trades), output.FormatPnL(p.NetPnL), utils.FormatPercent(p.WinRate))
		}
		pairs.Render()
	}
	output.Println()
}

func renderStatistics(output *Output, s *report.StatisticsSection) {
	output.Bold("── Statistics ──")
	if s == nil {
		output.Error("Section unavailable.")
		return
	}
	if s.Empty || len(s.Dimensions) == 0 {
		output.Info("No data")
		output.Println()
		return
	}

	for _, d := range s.Dimensions {
		output.Println()
		output.Printf("By %s:\n", d.Dimension)
		table := NewTable(output, "Bucket", "Trades", "Win Rate", "Net P&L", "Avg P&L", "W/L Ratio", "Drawdown")
		for _, b := range d.Buckets {
			table.AddRow(
				b.Key,
				strconv.Itoa(b.Stats.TradeCount),
				utils.FormatPercent(b.Stats.WinRate),
				output.FormatPnL(b.Stats.NetPnL),
				output.FormatPnL(b.Stats.AvgPnL),
				utils.FormatRatio(b.Stats.WinLossRatio),
				utils.FormatPercent(b.Stats.Drawdown),
			)
		}
		table.Render()
	}
	output.Println()
}

func renderProfile(output *Output, s *report.ProfileSection) {
	output.Bold("── Trader Profile ──")
	if s == nil {
		output.Error("Section unavailable.")
		return
	}
	if s.Empty {
		output.Info("No data")
		output.Println()
		return
	}

	table := NewTable(output, "Signal", "Value")
	table.AddRow("Stop Loss Usage", utils.FormatPercent(s.StopLossUsage))
	table.AddRow("Long Win Rate", utils.FormatPercent(s.LongWinRate))
	table.AddRow("Short Win Rate", utils.FormatPercent(s.ShortWinRate))
	table.AddRow("Win Rate Imbalance", utils.FormatPercent(s.WinRateImbalance))
	table.Render()

	if len(s.OvertradedDays) > 0 {
		output.Println()
		output.Warning("Overtraded days:")
		for _, d := range s.OvertradedDays {
			output.Printf("  %s  %d trades\n", d.Date, d.Count)
		}
	}
	if len(s.RapidSequences) > 0 {
		output.Println()
		output.Warning("Rapid trade sequences:")
		for _, r := range s.RapidSequences {
			output.Printf("  %s  trades %d -> %d within %d min\n", r.Date, r.FirstID, r.SecondID, r.GapMinutes)
		}
	}
	if len(s.LargeLosses) > 0 {
		output.Println()
		output.Warning("Large losses:")
		for _, t := range s.LargeLosses {
			output.Printf("  %s  %s  %s\n", t.Date, t.Pair, output.FormatPnL(t.ProfitLoss))
		}
	}
	output.Println()
}

func renderWindow(output *Output, s *report.WindowSection) {
	output.Bold("── Outside Trading Window ──")
	if s == nil {
		output.Error("Section unavailable.")
		return
	}
	if s.Window.Unrestricted() {
		output.Info("No trading window configured.")
		output.Println()
		return
	}
	output.Printf("Window: %s - %s\n", s.Window.Start, s.Window.End)
	if s.Empty || len(s.Trades) == 0 {
		output.Info("No data")
		output.Println()
		return
	}

	table := NewTable(output, "ID", "Date", "Time", "Pair", "P&L")
	for _, t := range s.Trades {
		table.AddRow(
			strconv.FormatInt(t.ID, 10),
			t.Date,
			t.TradeTime,
			t.Pair,
			output.FormatPnL(t.ProfitLoss),
		)
	}
	table.Render()
	output.Printf("Net P&L outside window: %s  (win rate %s)\n",
		output.FormatPnL(s.NetPnL), utils.FormatPercent(s.WinRate))
	output.Println()
}
