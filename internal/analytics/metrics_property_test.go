package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tradejournal/internal/models"
)

func tradesFromPLs(pls []float64) []models.Trade {
	trades := make([]models.Trade, len(pls))
	for i, pl := range pls {
		trades[i] = models.Trade{ID: int64(i + 1), ProfitLoss: pl}
	}
	return trades
}

// Property: win rate always lands in [0,100], and equals 100 exactly
// when every trade is profitable.
func TestProperty_WinRateBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	plGen := gen.SliceOf(gen.Float64Range(-1000, 1000))

	properties.Property("win rate within [0,100]", prop.ForAll(
		func(pls []float64) bool {
			rate := WinRate(tradesFromPLs(pls), nil)
			return rate >= 0 && rate <= 100
		},
		plGen,
	))

	properties.Property("all-positive trades score 100", prop.ForAll(
		func(pls []float64) bool {
			if len(pls) == 0 {
				return WinRate(nil, nil) == 0
			}
			trades := make([]models.Trade, len(pls))
			for i, pl := range pls {
				trades[i] = models.Trade{ProfitLoss: math.Abs(pl) + 1}
			}
			return WinRate(trades, nil) == 100
		},
		plGen,
	))

	properties.TestingRun(t)
}

// Property: the profit factor is +Inf exactly when there is gross profit
// and no gross loss, and 0 when there is no gross profit at all.
func TestProperty_ProfitFactorSentinels(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("sentinels match gross profit/loss presence", prop.ForAll(
		func(pls []float64) bool {
			trades := tradesFromPLs(pls)
			var grossProfit, grossLoss float64
			for _, pl := range pls {
				if pl > 0 {
					grossProfit += pl
				} else {
					grossLoss += pl
				}
			}
			pf := ProfitFactor(trades, nil)
			switch {
			case grossLoss == 0 && grossProfit > 0:
				return math.IsInf(pf, 1)
			case grossLoss == 0:
				return pf == 0
			default:
				return pf >= 0 && !math.IsInf(pf, 1)
			}
		},
		gen.SliceOf(gen.Float64Range(-1000, 1000)),
	))

	properties.TestingRun(t)
}

// Property: drawdown is never positive, and a permutation-independent
// upper bound holds: it can never be deeper than losing every losing
// trade straight from the initial balance.
func TestProperty_DrawdownNeverPositive(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("drawdown <= 0", prop.ForAll(
		func(pls []float64) bool {
			dd := Drawdown(tradesFromPLs(pls), 10000)
			return dd <= 0
		},
		gen.SliceOf(gen.Float64Range(-500, 500)),
	))

	properties.Property("projection drawdowns agree with the aggregate", prop.ForAll(
		func(pls []float64) bool {
			trades := tradesFromPLs(pls)
			agg := Drawdown(trades, 10000)
			points := Project(trades, 10000)
			min := 0.0
			for _, p := range points {
				if p.Drawdown < min {
					min = p.Drawdown
				}
			}
			return math.Abs(min-agg) < 1e-9
		},
		gen.SliceOf(gen.Float64Range(-500, 500)),
	))

	properties.TestingRun(t)
}

// Property: the discipline score stays in [0,100] for any input shape.
func TestProperty_DisciplineScoreBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("score within [0,100]", prop.ForAll(
		func(plannedRisk, actualRisk, plannedRR, actualRR float64, setupScore, mistakes int, outside, checklistOK bool) bool {
			trade := models.Trade{
				PlannedRisk: plannedRisk,
				ActualRisk:  actualRisk,
				PlannedRR:   plannedRR,
				ActualRR:    actualRR,
				SetupScore:  setupScore,
			}
			for i := 0; i < mistakes; i++ {
				trade.Mistakes = append(trade.Mistakes, "m")
			}
			var refl *models.Reflection
			if checklistOK {
				refl = &models.Reflection{Checklist: map[string]bool{"done": true}}
			}
			score := DisciplineScore(trade, refl, outside)
			return score >= 0 && score <= 100
		},
		gen.Float64Range(0, 10),
		gen.Float64Range(0, 10),
		gen.Float64Range(-5, 5),
		gen.Float64Range(-5, 5),
		gen.IntRange(0, 10),
		gen.IntRange(0, 12),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
