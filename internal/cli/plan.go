package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/models"
)

// addPlanCommands adds daily plan and weekly review commands.
func addPlanCommands(rootCmd *cobra.Command, app *App) {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Daily trading plans",
	}
	planCmd.AddCommand(newPlanAddCmd(app))
	planCmd.AddCommand(newPlanListCmd(app))
	rootCmd.AddCommand(planCmd)

	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Weekly reviews",
	}
	reviewCmd.AddCommand(newReviewAddCmd(app))
	reviewCmd.AddCommand(newReviewListCmd(app))
	rootCmd.AddCommand(reviewCmd)
}

func newPlanAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a plan for a trading day",
		Example: `  tradejournal plan add --bias "Bullish after NFP" \
    --levels "1.0850 support, 1.0920 resistance" --max-trades 3`,
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

			date, _ := cmd.Flags().GetString("date")
			if !models.ValidDate(date) {
				return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
			}
			bias, _ := cmd.Flags().GetString("bias")
			levels, _ := cmd.Flags().GetString("levels")
			notes, _ := cmd.Flags().GetString("notes")
			maxTrades, _ := cmd.Flags().GetInt("max-trades")

			plan := &models.DailyPlan{
				AccountID: account.ID,
				Date:      date,
				Bias:      bias,
				KeyLevels: levels,
				Notes:     notes,
				MaxTrades: maxTrades,
			}
			if err := app.Store.SaveDailyPlan(ctx, plan); err != nil {
				return err
			}

			output.Success("Plan saved for %s", plan.Date)
			return nil
		},
	}

	cmd.Flags().String("date", time.Now().Format("2006-01-02"), "Plan date (YYYY-MM-DD)")
	cmd.Flags().String("bias", "", "Market bias")
	cmd.Flags().String("levels", "", "Key price levels")
	cmd.Flags().String("notes", "", "Free-form notes")
	cmd.Flags().Int("max-trades", 0, "Self-imposed trade limit for the day")
	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent daily plans",
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
			limit, _ := cmd.Flags().GetInt("limit")
			plans, err := app.Store.GetDailyPlans(ctx, account.ID, limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(plans)
			}
			if len(plans) == 0 {
				output.Info("No plans recorded.")
				return nil
			}

			table := NewTable(output, "Date", "Bias", "Key Levels", "Max")
			for _, p := range plans {
				max := ""
				if p.MaxTrades > 0 {
					max = fmt.Sprintf("%d", p.MaxTrades)
				}
				table.AddRow(p.Date, TruncateString(p.Bias, 30), TruncateString(p.KeyLevels, 40), max)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("limit", 14, "Number of plans to show")
	return cmd
}

func newReviewAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a weekly review",
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

			weekStart, _ := cmd.Flags().GetString("week")
			if weekStart == "" {
				weekStart = mondayOf(time.Now()).Format("2006-01-02")
			}
			if !models.ValidDate(weekStart) {
				return fmt.Errorf("invalid week start %q, expected YYYY-MM-DD", weekStart)
			}
			wentWell, _ := cmd.Flags().GetString("went-well")
			toImprove, _ := cmd.Flags().GetString("improve")
			lessons, _ := cmd.Flags().GetString("lessons")
			grade, _ := cmd.Flags().GetString("grade")

			review := &models.WeeklyReview{
				AccountID: account.ID,
				WeekStart: weekStart,
				WentWell:  wentWell,
				ToImprove: toImprove,
				Lessons:   lessons,
				Grade:     grade,
			}
			if err := app.Store.SaveWeeklyReview(ctx, review); err != nil {
				return err
			}

			output.Success("Review saved for week of %s", review.WeekStart)
			return nil
		},
	}

	cmd.Flags().String("week", "", "Week start Monday (YYYY-MM-DD, defaults to current week)")
	cmd.Flags().String("went-well", "", "What went well")
	cmd.Flags().String("improve", "", "What to improve")
	cmd.Flags().String("lessons", "", "Lessons learned")
	cmd.Flags().String("grade", "", "Self-grade, e.g. A-")
	return cmd
}

func newReviewListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent weekly reviews",
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
			limit, _ := cmd.Flags().GetInt("limit")
			reviews, err := app.Store.GetWeeklyReviews(ctx, account.ID, limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(reviews)
			}
			if len(reviews) == 0 {
				output.Info("No reviews recorded.")
				return nil
			}

			for _, r := range reviews {
				output.Bold("Week of %s  [%s]", r.WeekStart, r.Grade)
				if r.WentWell != "" {
					output.Printf("  Went well:  %s\n", r.WentWell)
				}
				if r.ToImprove != "" {
					output.Printf("  Improve:    %s\n", r.ToImprove)
				}
				if r.Lessons != "" {
					output.Printf("  Lessons:    %s\n", r.Lessons)
				}
				output.Println()
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 8, "Number of reviews to show")
	return cmd
}

// mondayOf returns the Monday of t's ISO week.
func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
