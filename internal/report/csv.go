package report

import (
	"fmt"
	"io"
	"strings"

	"tradejournal/pkg/utils"
)

// escapeField wraps a field in double quotes, doubling any embedded
// quotes. Every field is quoted regardless of content so the export is
// byte-stable.
func escapeField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteCSV writes rows comma-joined with every field quoted.
func WriteCSV(w io.Writer, rows [][]string) error {
	for _, row := range rows {
		escaped := make([]string, len(row))
		for i, field := range row {
			escaped[i] = escapeField(field)
		}
		if _, err := fmt.Fprintln(w, strings.Join(escaped, ",")); err != nil {
			return err
		}
	}
	return nil
}

// Rows flattens the report's visible tables into CSV rows, one table per
// section with a blank row between sections. Failed (nil) sections are
// skipped.
func Rows(r *Report) [][]string {
	var rows [][]string

	if p := r.Performance; p != nil {
		rows = append(rows, []string{"Performance"})
		if p.Empty {
			rows = append(rows, []string{"No data"})
		} else {
			rows = append(rows,
				[]string{"Metric", "Value"},
				[]string{"Total Trades", fmt.Sprintf("%d", p.TotalTrades)},
				[]string{"Net P&L", utils.FormatPnL(p.NetPnL)},
				[]string{"Win Rate", fmt.Sprintf("%.2f%%", p.WinRate)},
				[]string{"Profit Factor", utils.FormatRatio(p.ProfitFactor)},
				[]string{"Avg Win/Loss", utils.FormatRatio(p.AvgWinLoss)},
				[]string{"Max Drawdown", fmt.Sprintf("%.2f%%", p.MaxDrawdown)},
				[]string{"Avg Discipline", fmt.Sprintf("%.0f", p.AvgDiscipline)},
				[]string{"Wins", fmt.Sprintf("%d", p.Wins)},
				[]string{"Losses", fmt.Sprintf("%d", p.Losses)},
			)
			rows = append(rows, nil, []string{"Pair", "Trades", "Net P&L", "Win Rate"})
			for _, ps := range p.PairPnL {
				rows = append(rows, []string{
					ps.Pair,
					fmt.Sprintf("%d", ps.Trades),
					utils.FormatPnL(ps.NetPnL),
					fmt.Sprintf("%.2f%%", ps.WinRate),
				})
			}
		}
		rows = append(rows, nil)
	}

	if s := r.Statistics; s != nil {
		rows = append(rows, []string{"Statistics"})
		if s.Empty {
			rows = append(rows, []string{"No data"})
		}
		for _, ds := range s.Dimensions {
			rows = append(rows, nil,
				[]string{string(ds.Dimension)},
				[]string{"Bucket", "Trades", "Win Rate", "Net P&L", "Avg P&L", "Win/Loss", "Drawdown"},
			)
			for _, b := range ds.Buckets {
				rows = append(rows, []string{
					b.Key,
					fmt.Sprintf("%d", b.Stats.TradeCount),
					fmt.Sprintf("%.2f%%", b.Stats.WinRate),
					utils.FormatPnL(b.Stats.NetPnL),
					utils.FormatPnL(b.Stats.AvgPnL),
					utils.FormatRatio(b.Stats.WinLossRatio),
					fmt.Sprintf("%.2f%%", b.Stats.Drawdown),
				})
			}
		}
		rows = append(rows, nil)
	}

	if p := r.Profile; p != nil {
		rows = append(rows, []string{"Trader Profile"})
		if p.Empty {
			rows = append(rows, []string{"No data"})
		} else {
			rows = append(rows,
				[]string{"Metric", "Value"},
				[]string{"Stop-Loss Usage", fmt.Sprintf("%.2f%%", p.StopLossUsage)},
				[]string{"Long Win Rate", fmt.Sprintf("%.2f%%", p.LongWinRate)},
				[]string{"Short Win Rate", fmt.Sprintf("%.2f%%", p.ShortWinRate)},
				[]string{"Win Rate Imbalance", fmt.Sprintf("%.2f%%", p.WinRateImbalance)},
				[]string{"Overtraded Days", fmt.Sprintf("%d", len(p.OvertradedDays))},
				[]string{"Rapid Sequences", fmt.Sprintf("%d", len(p.RapidSequences))},
				[]string{"Large Losses", fmt.Sprintf("%d", len(p.LargeLosses))},
			)
		}
		rows = append(rows, nil)
	}

	if w := r.OutsideWindow; w != nil {
		rows = append(rows, []string{"Outside Trading Window"})
		if w.Empty || len(w.Trades) == 0 {
			rows = append(rows, []string{"No data"})
		} else {
			rows = append(rows, []string{"Trade ID", "Date", "Time", "Pair", "P&L"})
			for _, t := range w.Trades {
				rows = append(rows, []string{
					fmt.Sprintf("%d", t.ID),
					t.Date,
					t.TradeTime,
					t.Pair,
					utils.FormatPnL(t.ProfitLoss),
				})
			}
		}
	}

	return rows
}
