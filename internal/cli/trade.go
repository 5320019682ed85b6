package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/analytics"
	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
	"tradejournal/internal/store"
)

// addTradeCommands adds trade logging and management commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Trade logging and management",
		Long:  "Log, list, edit, and delete trades on the active account.",
	}

	cmd.AddCommand(newTradeAddCmd(app))
	cmd.AddCommand(newTradeListCmd(app))
	cmd.AddCommand(newTradeEditCmd(app))
	cmd.AddCommand(newTradeDeleteCmd(app))
	cmd.AddCommand(newTradeUndoCmd(app))
	cmd.AddCommand(newTradeReflectCmd(app))

	rootCmd.AddCommand(cmd)
}

func newTradeAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a trade on the active account",
		Example: `  tradejournal trade add --pair EURUSD --position long --risk 1 --actual-risk 50 \
    --rr 2 --actual-rr 2 --date 2026-08-28 --time 09:15 --strategy 1 \
    --setup-score 8 --adherence 5`,
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

			trade, err := tradeFromFlags(cmd, account.ID)
			if err != nil {
				return err
			}

			// Risk check against today's trades. Warnings never block the log.
			todays, err := app.Store.GetTrades(ctx, store.TradeFilter{
				AccountID: account.ID,
				StartDate: trade.Date,
				EndDate:   trade.Date,
			})
			if err != nil {
				return err
			}
			warnings := analytics.ValidateRisk(account, todays, trade)

			if err := app.Store.LogTrade(ctx, trade); err != nil {
				return err
			}

			for _, w := range warnings {
				output.Warning("%s", w.Message)
			}
			output.Success("Trade %d logged: %s %s %s",
				trade.ID, trade.Pair, trade.Position, output.FormatPnL(trade.ProfitLoss))
			app.Logger.Info().
				Int64("trade_id", trade.ID).
				Str("pair", trade.Pair).
				Float64("pl", trade.ProfitLoss).
				Msg("trade logged")
			return nil
		},
	}

	addTradeFlags(cmd)
	cmd.MarkFlagRequired("pair")
	return cmd
}

// addTradeFlags registers the shared trade field flags used by add and edit.
func addTradeFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", time.Now().Format("2006-01-02"), "Trade date (YYYY-MM-DD)")
	cmd.Flags().String("time", "", "Entry time (HH:MM)")
	cmd.Flags().String("pair", "", "Instrument, e.g. EURUSD")
	cmd.Flags().Int64("strategy", 0, "Strategy ID")
	cmd.Flags().String("position", "", "long or short")
	cmd.Flags().Float64("risk", 0, "Planned risk percent")
	cmd.Flags().Float64("actual-risk", 0, "Actual risk amount")
	cmd.Flags().Float64("rr", 0, "Planned risk:reward")
	cmd.Flags().Float64("actual-rr", 0, "Actual risk:reward (signed)")
	cmd.Flags().Float64("lots", 0, "Lot size")
	cmd.Flags().Float64("sl", 0, "Stop loss in pips")
	cmd.Flags().Float64("entry-price", 0, "Entry price")
	cmd.Flags().Float64("sl-price", 0, "Stop loss price")
	cmd.Flags().Float64("exit-price", 0, "Exit price")
	cmd.Flags().Int("hold", 0, "Hold time in minutes")
	cmd.Flags().StringSlice("mistakes", nil, "Mistake tags, comma separated")
	cmd.Flags().StringSlice("emotions", nil, "Emotion tags, comma separated")
	cmd.Flags().StringSlice("tags", nil, "Custom tags, comma separated")
	cmd.Flags().StringArray("screenshot", nil, "Screenshot as url or url|caption (repeatable)")
	cmd.Flags().Int("setup-score", 0, "Setup quality 1-10")
	cmd.Flags().Int("adherence", 0, "Plan adherence 1-5")
}

// tradeFromFlags builds a new Trade from the add command's flags.
func tradeFromFlags(cmd *cobra.Command, accountID int64) (*models.Trade, error) {
	date, _ := cmd.Flags().GetString("date")
	if !models.ValidDate(date) {
		return nil, apperrors.NewValidationError("date", date, "expected YYYY-MM-DD")
	}
	clock, _ := cmd.Flags().GetString("time")
	if clock != "" && !models.ValidClock(clock) {
		return nil, apperrors.NewValidationError("time", clock, "expected HH:MM")
	}

	trade := &models.Trade{
		AccountID: accountID,
		Date:      date,
		TradeTime: clock,
	}
	trade.Pair, _ = cmd.Flags().GetString("pair")
	if sid, _ := cmd.Flags().GetInt64("strategy"); sid != 0 {
		trade.StrategyID = &sid
	}
	pos, _ := cmd.Flags().GetString("position")
	trade.Position = models.NormalizePosition(pos)
	trade.PlannedRisk, _ = cmd.Flags().GetFloat64("risk")
	trade.ActualRisk, _ = cmd.Flags().GetFloat64("actual-risk")
	trade.PlannedRR, _ = cmd.Flags().GetFloat64("rr")
	trade.ActualRR, _ = cmd.Flags().GetFloat64("actual-rr")
	if v, _ := cmd.Flags().GetFloat64("lots"); v != 0 {
		trade.LotSize = &v
	}
	if v, _ := cmd.Flags().GetFloat64("sl"); v != 0 {
		trade.StopLoss = &v
	}
	if v, _ := cmd.Flags().GetFloat64("entry-price"); v != 0 {
		trade.EntryPrice = &v
	}
	if v, _ := cmd.Flags().GetFloat64("sl-price"); v != 0 {
		trade.SLPrice = &v
	}
	if v, _ := cmd.Flags().GetFloat64("exit-price"); v != 0 {
		trade.ExitPrice = &v
	}
	if v, _ := cmd.Flags().GetInt("hold"); v != 0 {
		trade.HoldTime = &v
	}
	trade.Mistakes, _ = cmd.Flags().GetStringSlice("mistakes")
	trade.Emotions, _ = cmd.Flags().GetStringSlice("emotions")
	trade.CustomTags, _ = cmd.Flags().GetStringSlice("tags")
	trade.SetupScore, _ = cmd.Flags().GetInt("setup-score")
	trade.Adherence, _ = cmd.Flags().GetInt("adherence")

	shots, _ := cmd.Flags().GetStringArray("screenshot")
	for _, s := range shots {
		parts := strings.SplitN(s, "|", 2)
		shot := models.Screenshot{URL: parts[0]}
		if len(parts) == 2 {
			shot.Caption = parts[1]
		}
		trade.Screenshots = append(trade.Screenshots, shot)
	}

	// Derive profit/loss and outcome up front so the risk check sees the
	// prospective trade as it will be stored.
	models.NormalizeTrade(trade)

	return trade, nil
}

func newTradeListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trades on the active account",
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

			trades, err := app.Store.GetTrades(ctx, store.TradeFilter{AccountID: account.ID})
			if err != nil {
				return err
			}

			// Project balances so balance range filters can apply. The
			// per-trade replays run concurrently on the app pool.
			chrono := analytics.SortChronological(trades)
			ids := make([]int64, len(chrono))
			for i, t := range chrono {
				ids[i] = t.ID
			}
			balances := analytics.BalanceBatch(app.Pool, chrono, ids, account.InitialBalance)
			for i := range trades {
				if b, ok := balances[trades[i].ID]; ok {
					bal := b
					trades[i].Balance = &bal
				}
			}

			filter, err := filterFromFlags(cmd)
			if err != nil {
				return err
			}
			cache := analytics.NewFilterCache(app.strategyResolver(ctx, account.ID))
			filtered := cache.Apply(trades, account.ID, filter)

			if output.IsJSON() {
				return output.JSON(filtered)
			}
			if len(filtered) == 0 {
				output.Info("No trades match.")
				return nil
			}

			table := NewTable(output, "ID", "Date", "Time", "Pair", "Pos", "Outcome", "P&L", "Balance")
			for _, t := range filtered {
				bal := ""
				if t.Balance != nil {
					bal = fmt.Sprintf("%.2f", *t.Balance)
				}
				table.AddRow(
					strconv.FormatInt(t.ID, 10),
					t.Date,
					t.TradeTime,
					t.Pair,
					t.Position,
					t.Outcome,
					output.FormatPnL(t.ProfitLoss),
					bal,
				)
			}
			table.Render()
			output.Dim("%d trades", len(filtered))
			return nil
		},
	}

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
	return cmd
}

// filterFromFlags builds an analytics filter from the list command's flags.
func filterFromFlags(cmd *cobra.Command) (analytics.Filter, error) {
	var f analytics.Filter
	f.Search, _ = cmd.Flags().GetString("search")
	f.Pair, _ = cmd.Flags().GetString("pair")
	f.Outcome, _ = cmd.Flags().GetString("outcome")
	if sid, _ := cmd.Flags().GetInt64("strategy"); sid != 0 {
		f.StrategyID = &sid
	}
	if cmd.Flags().Changed("risk-plan") {
		v, _ := cmd.Flags().GetFloat64("risk-plan")
		f.RiskPlan = &v
	}
	f.DateFrom, _ = cmd.Flags().GetString("from")
	f.DateTo, _ = cmd.Flags().GetString("to")
	if f.DateFrom != "" && !models.ValidDate(f.DateFrom) {
		return f, apperrors.NewValidationError("from", f.DateFrom, "expected YYYY-MM-DD")
	}
	if f.DateTo != "" && !models.ValidDate(f.DateTo) {
		return f, apperrors.NewValidationError("to", f.DateTo, "expected YYYY-MM-DD")
	}
	if cmd.Flags().Changed("balance-min") {
		v, _ := cmd.Flags().GetFloat64("balance-min")
		f.BalanceMin = &v
	}
	if cmd.Flags().Changed("balance-max") {
		v, _ := cmd.Flags().GetFloat64("balance-max")
		f.BalanceMax = &v
	}
	f.Tags, _ = cmd.Flags().GetStringSlice("tag")
	sortFlag, _ := cmd.Flags().GetString("sort")
	switch analytics.SortOrder(sortFlag) {
	case analytics.SortDateDesc, analytics.SortDateAsc, analytics.SortPLDesc:
		f.Sort = analytics.SortOrder(sortFlag)
	default:
		return f, apperrors.NewValidationError("sort", sortFlag, "must be date-desc, date-asc or pl-desc")
	}
	return f, nil
}

func newTradeEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a logged trade",
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
				return fmt.Errorf("invalid trade id: %s", args[0])
			}
			trade, err := app.Store.GetTrade(ctx, id)
			if err != nil {
				return err
			}

			if err := applyTradeEdits(cmd, trade); err != nil {
				return err
			}
			if err := app.Store.UpdateTrade(ctx, trade); err != nil {
				return err
			}

			output.Success("Trade %d updated", trade.ID)
			return nil
		},
	}

	addTradeFlags(cmd)
	return cmd
}

// applyTradeEdits overwrites only the fields whose flags were set.
func applyTradeEdits(cmd *cobra.Command, trade *models.Trade) error {
	if cmd.Flags().Changed("date") {
		date, _ := cmd.Flags().GetString("date")
		if !models.ValidDate(date) {
			return apperrors.NewValidationError("date", date, "expected YYYY-MM-DD")
		}
		trade.Date = date
	}
	if cmd.Flags().Changed("time") {
		clock, _ := cmd.Flags().GetString("time")
		if clock != "" && !models.ValidClock(clock) {
			return apperrors.NewValidationError("time", clock, "expected HH:MM")
		}
		trade.TradeTime = clock
	}
	if cmd.Flags().Changed("pair") {
		trade.Pair, _ = cmd.Flags().GetString("pair")
	}
	if cmd.Flags().Changed("strategy") {
		sid, _ := cmd.Flags().GetInt64("strategy")
		if sid == 0 {
			trade.StrategyID = nil
		} else {
			trade.StrategyID = &sid
		}
	}
	if cmd.Flags().Changed("position") {
		pos, _ := cmd.Flags().GetString("position")
		trade.Position = models.NormalizePosition(pos)
	}
	if cmd.Flags().Changed("risk") {
		trade.PlannedRisk, _ = cmd.Flags().GetFloat64("risk")
	}
	if cmd.Flags().Changed("actual-risk") {
		trade.ActualRisk, _ = cmd.Flags().GetFloat64("actual-risk")
	}
	if cmd.Flags().Changed("rr") {
		trade.PlannedRR, _ = cmd.Flags().GetFloat64("rr")
	}
	if cmd.Flags().Changed("actual-rr") {
		trade.ActualRR, _ = cmd.Flags().GetFloat64("actual-rr")
	}
	if cmd.Flags().Changed("hold") {
		v, _ := cmd.Flags().GetInt("hold")
		trade.HoldTime = &v
	}
	if cmd.Flags().Changed("mistakes") {
		trade.Mistakes, _ = cmd.Flags().GetStringSlice("mistakes")
	}
	if cmd.Flags().Changed("emotions") {
		trade.Emotions, _ = cmd.Flags().GetStringSlice("emotions")
	}
	if cmd.Flags().Changed("tags") {
		trade.CustomTags, _ = cmd.Flags().GetStringSlice("tags")
	}
	if cmd.Flags().Changed("setup-score") {
		trade.SetupScore, _ = cmd.Flags().GetInt("setup-score")
	}
	if cmd.Flags().Changed("adherence") {
		trade.Adherence, _ = cmd.Flags().GetInt("adherence")
	}
	return nil
}

func newTradeDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a trade (undoable for a short window)",
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
				return fmt.Errorf("invalid trade id: %s", args[0])
			}
			if err := app.Store.SoftDeleteTrade(ctx, id); err != nil {
				return err
			}

			window := app.Config.Journal.UndoWindow
			output.Success("Trade %d deleted", id)
			output.Dim("Undo within %s: tradejournal trade undo %d", window, id)
			return nil
		},
	}
}

func newTradeUndoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <id>",
		Short: "Restore a recently deleted trade",
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
				return fmt.Errorf("invalid trade id: %s", args[0])
			}
			trade, err := app.Store.UndoDelete(ctx, id, app.Config.Journal.UndoWindow)
			if err != nil {
				switch {
				case errors.Is(err, apperrors.ErrUndoExpired):
					output.Error("The undo window for trade %d has expired.", id)
					return nil
				case errors.Is(err, apperrors.ErrNothingToUndo):
					output.Error("No recently deleted trade with id %d.", id)
					return nil
				}
				return err
			}

			output.Success("Trade %d restored: %s %s", trade.ID, trade.Pair, trade.Date)
			return nil
		},
	}
}

func newTradeReflectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reflect <trade-id>",
		Short: "Attach or update a post-trade reflection",
		Example: `  tradejournal trade reflect 12 --notes "Chased the entry" \
    --check followed_plan=true --check waited_for_confirmation=false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid trade id: %s", args[0])
			}
			trade, err := app.Store.GetTrade(ctx, id)
			if err != nil {
				return err
			}

			notes, _ := cmd.Flags().GetString("notes")
			checks, _ := cmd.Flags().GetStringArray("check")

			reflection, err := app.Store.GetReflection(ctx, trade.ID, trade.AccountID)
			if err != nil && !errors.Is(err, apperrors.ErrDataNotFound) {
				return err
			}
			if reflection == nil {
				reflection = &models.Reflection{
					TradeID:   trade.ID,
					AccountID: trade.AccountID,
					Checklist: map[string]bool{},
				}
			}
			if reflection.Checklist == nil {
				reflection.Checklist = map[string]bool{}
			}
			if cmd.Flags().Changed("notes") {
				reflection.Notes = notes
			}
			for _, c := range checks {
				parts := strings.SplitN(c, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("checklist entry %q must be item=true|false", c)
				}
				val, err := strconv.ParseBool(parts[1])
				if err != nil {
					return fmt.Errorf("checklist entry %q must be item=true|false", c)
				}
				reflection.Checklist[parts[0]] = val
			}

			if err := app.Store.SaveReflection(ctx, reflection); err != nil {
				return err
			}

			output.Success("Reflection saved for trade %d", trade.ID)
			return nil
		},
	}

	cmd.Flags().String("notes", "", "Reflection notes")
	cmd.Flags().StringArray("check", nil, "Checklist entry item=true|false (repeatable)")
	return cmd
}
