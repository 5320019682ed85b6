// Package report assembles the named report sections from the analytics
// engine's outputs. Sections are computed independently: a failure in
// one never prevents the others from rendering.
package report

import (
	"fmt"
	"sort"

	"tradejournal/internal/analytics"
	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// Report holds every section payload. A nil section means its
// computation failed; the matching error is in Errors. An empty input
// produces non-nil sections with their Empty flag set.
type Report struct {
	Performance   *PerformanceSection
	Statistics    *StatisticsSection
	Profile       *ProfileSection
	OutsideWindow *WindowSection
	Errors        []error
}

// PerformanceSection holds the aggregate cards, equity curve, win/loss
// split, and per-pair P&L.
type PerformanceSection struct {
	Empty         bool
	TotalTrades   int
	NetPnL        float64
	WinRate       float64
	ProfitFactor  float64
	AvgWinLoss    float64
	MaxDrawdown   float64
	AvgDiscipline float64
	EquityCurve   []analytics.BalancePoint
	Wins          int
	Losses        int
	PairPnL       []PairStat
}

// PairStat is the per-pair aggregate row.
type PairStat struct {
	Pair    string
	Trades  int
	NetPnL  float64
	WinRate float64
}

// StatisticsSection holds one bucket table per temporal dimension.
type StatisticsSection struct {
	Empty      bool
	Dimensions []DimensionStats
}

// DimensionStats is the bucket table for one grouping axis.
type DimensionStats struct {
	Dimension analytics.Dimension
	Buckets   []analytics.Bucket
}

// ProfileSection holds the behavioral heuristics.
type ProfileSection struct {
	Empty            bool
	OvertradedDays   []DayCount
	RapidSequences   []RapidSequence
	LargeLosses      []models.Trade
	StopLossUsage    float64 // percent of trades with a stop recorded
	LongWinRate      float64
	ShortWinRate     float64
	WinRateImbalance float64 // |long - short|
}

// DayCount is a date with its trade count.
type DayCount struct {
	Date  string
	Count int
}

// RapidSequence is a pair of same-day trades entered within the
// rapid-sequence threshold of each other.
type RapidSequence struct {
	Date       string
	FirstID    int64
	SecondID   int64
	GapMinutes int
}

// WindowSection holds the trades logged outside the configured trading
// window.
type WindowSection struct {
	Empty   bool
	Window  models.TradingWindow
	Trades  []models.Trade
	NetPnL  float64
	WinRate float64
}

// Aggregator builds reports for one analytics context.
type Aggregator struct {
	ctx analytics.Context
}

// NewAggregator creates an aggregator bound to a context.
func NewAggregator(ctx analytics.Context) *Aggregator {
	return &Aggregator{ctx: ctx}
}

// Build assembles every section. trades need not be pre-sorted; each
// section sorts what it needs. reflections may be nil. initialBalance is
// the account's starting balance for equity and drawdown walks.
func (a *Aggregator) Build(trades []models.Trade, reflections map[int64]models.Reflection, initialBalance float64) *Report {
	r := &Report{}
	chrono := analytics.SortChronological(trades)

	a.runSection(r, "performance", func() error {
		r.Performance = a.buildPerformance(chrono, reflections, initialBalance)
		return nil
	})
	a.runSection(r, "statistics", func() error {
		r.Statistics = a.buildStatistics(chrono, initialBalance)
		return nil
	})
	a.runSection(r, "profile", func() error {
		r.Profile = a.buildProfile(chrono)
		return nil
	})
	a.runSection(r, "outside-window", func() error {
		r.OutsideWindow = a.buildWindow(chrono)
		return nil
	})

	return r
}

// runSection isolates one section computation: a panic or error surfaces
// in Report.Errors without touching the other sections.
func (a *Aggregator) runSection(r *Report, name string, fn func() error) {
	defer func() {
		if rec := recover(); rec != nil {
			err := apperrors.NewReportError(name, fmt.Errorf("panic: %v", rec))
			a.ctx.Logger.Error().Str("section", name).Interface("panic", rec).Msg("report section failed")
			r.Errors = append(r.Errors, err)
		}
	}()
	if err := fn(); err != nil {
		r.Errors = append(r.Errors, apperrors.NewReportError(name, err))
	}
}

func (a *Aggregator) buildPerformance(chrono []models.Trade, reflections map[int64]models.Reflection, initialBalance float64) *PerformanceSection {
	s := &PerformanceSection{Empty: len(chrono) == 0}
	if s.Empty {
		return s
	}

	s.TotalTrades = len(chrono)
	s.NetPnL = analytics.NetPL(chrono)
	s.WinRate = analytics.WinRate(chrono, nil)
	s.ProfitFactor = analytics.ProfitFactor(chrono, nil)
	s.AvgWinLoss = analytics.AvgWinLoss(chrono, nil)
	s.MaxDrawdown = analytics.Drawdown(chrono, initialBalance)
	s.EquityCurve = analytics.Project(chrono, initialBalance)

	var disciplineSum int
	for _, t := range chrono {
		if t.IsWin() {
			s.Wins++
		} else {
			s.Losses++
		}
		var refl *models.Reflection
		if reflections != nil {
			if r, ok := reflections[t.ID]; ok {
				r := r
				refl = &r
			}
		}
		disciplineSum += analytics.DisciplineScore(t, refl, a.ctx.OutsideWindow(t))
	}
	s.AvgDiscipline = float64(disciplineSum) / float64(len(chrono))

	byPair := make(map[string][]models.Trade)
	for _, t := range chrono {
		byPair[t.Pair] = append(byPair[t.Pair], t)
	}
	for pair, ts := range byPair {
		s.PairPnL = append(s.PairPnL, PairStat{
			Pair:    pair,
			Trades:  len(ts),
			NetPnL:  analytics.NetPL(ts),
			WinRate: analytics.WinRate(ts, nil),
		})
	}
	sort.Slice(s.PairPnL, func(i, j int) bool {
		if s.PairPnL[i].NetPnL != s.PairPnL[j].NetPnL {
			return s.PairPnL[i].NetPnL > s.PairPnL[j].NetPnL
		}
		return s.PairPnL[i].Pair < s.PairPnL[j].Pair
	})

	return s
}

func (a *Aggregator) buildStatistics(chrono []models.Trade, initialBalance float64) *StatisticsSection {
	s := &StatisticsSection{Empty: len(chrono) == 0}
	if s.Empty {
		return s
	}
	for _, dim := range analytics.Dimensions {
		buckets := analytics.Group(a.ctx, dim, chrono, initialBalance)
		if len(buckets) == 0 {
			continue
		}
		s.Dimensions = append(s.Dimensions, DimensionStats{Dimension: dim, Buckets: buckets})
	}
	return s
}

func (a *Aggregator) buildProfile(chrono []models.Trade) *ProfileSection {
	s := &ProfileSection{Empty: len(chrono) == 0}
	if s.Empty {
		return s
	}

	overLimit := a.ctx.OvertradingLimit
	if overLimit <= 0 {
		overLimit = 10
	}
	rapidMins := a.ctx.RapidSequenceMins
	if rapidMins <= 0 {
		rapidMins = 15
	}

	byDay := make(map[string][]models.Trade)
	var days []string
	for _, t := range chrono {
		if _, seen := byDay[t.Date]; !seen {
			days = append(days, t.Date)
		}
		byDay[t.Date] = append(byDay[t.Date], t)
	}
	sort.Strings(days)

	withStop := 0
	for _, day := range days {
		ts := byDay[day]
		if len(ts) > overLimit {
			s.OvertradedDays = append(s.OvertradedDays, DayCount{Date: day, Count: len(ts)})
		}
		for i := 1; i < len(ts); i++ {
			gap, ok := minutesBetween(ts[i-1], ts[i])
			if ok && gap < rapidMins {
				s.RapidSequences = append(s.RapidSequences, RapidSequence{
					Date:       day,
					FirstID:    ts[i-1].ID,
					SecondID:   ts[i].ID,
					GapMinutes: gap,
				})
			}
		}
	}

	var longs, shorts []models.Trade
	for _, t := range chrono {
		if t.HasStopLoss() {
			withStop++
		}
		if t.ProfitLoss < 0 && -t.ProfitLoss > a.ctx.LargeLossThreshold && a.ctx.LargeLossThreshold > 0 {
			s.LargeLosses = append(s.LargeLosses, t)
		}
		switch t.Position {
		case models.PositionLong:
			longs = append(longs, t)
		case models.PositionShort:
			shorts = append(shorts, t)
		}
	}

	s.StopLossUsage = 100 * float64(withStop) / float64(len(chrono))
	s.LongWinRate = analytics.WinRate(longs, nil)
	s.ShortWinRate = analytics.WinRate(shorts, nil)
	s.WinRateImbalance = s.LongWinRate - s.ShortWinRate
	if s.WinRateImbalance < 0 {
		s.WinRateImbalance = -s.WinRateImbalance
	}

	return s
}

func (a *Aggregator) buildWindow(chrono []models.Trade) *WindowSection {
	s := &WindowSection{Window: a.ctx.TradingWindow, Empty: len(chrono) == 0}
	if s.Empty {
		return s
	}
	for _, t := range chrono {
		if a.ctx.OutsideWindow(t) {
			s.Trades = append(s.Trades, t)
		}
	}
	s.NetPnL = analytics.NetPL(s.Trades)
	s.WinRate = analytics.WinRate(s.Trades, nil)
	return s
}

// minutesBetween returns the gap in whole minutes between two same-day
// trades. ok is false when either trade lacks a parseable time.
func minutesBetween(a, b models.Trade) (int, bool) {
	at, aok := a.When()
	bt, bok := b.When()
	if !aok || !bok || a.TradeTime == "" || b.TradeTime == "" {
		return 0, false
	}
	gap := bt.Sub(at).Minutes()
	if gap < 0 {
		gap = -gap
	}
	return int(gap), true
}
