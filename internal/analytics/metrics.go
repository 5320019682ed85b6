package analytics

import (
	"math"

	"tradejournal/internal/models"
)

// ValueFunc selects the numeric field a metric aggregates. A nil
// ValueFunc means profit/loss.
type ValueFunc func(models.Trade) float64

// PL is the default ValueFunc.
func PL(t models.Trade) float64 { return t.ProfitLoss }

func orPL(fn ValueFunc) ValueFunc {
	if fn == nil {
		return PL
	}
	return fn
}

// WinRate returns the percentage of trades with a positive value,
// in [0,100]. Empty input yields 0.
func WinRate(trades []models.Trade, fn ValueFunc) float64 {
	if len(trades) == 0 {
		return 0
	}
	fn = orPL(fn)
	wins := 0
	for _, t := range trades {
		if fn(t) > 0 {
			wins++
		}
	}
	return 100 * float64(wins) / float64(len(trades))
}

// ProfitFactor returns gross profit divided by absolute gross loss.
// When gross loss is zero and gross profit is positive the result is
// +Inf; when both are zero (or the list is empty) the result is 0.
func ProfitFactor(trades []models.Trade, fn ValueFunc) float64 {
	fn = orPL(fn)
	var grossProfit, grossLoss float64
	for _, t := range trades {
		v := fn(t)
		if v > 0 {
			grossProfit += v
		} else {
			grossLoss += v
		}
	}
	if grossLoss == 0 {
		if grossProfit > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return grossProfit / math.Abs(grossLoss)
}

// AvgWinLoss returns the ratio of mean win magnitude to mean loss
// magnitude, with the same Inf/0 sentinel rules as ProfitFactor.
func AvgWinLoss(trades []models.Trade, fn ValueFunc) float64 {
	fn = orPL(fn)
	var winSum, lossSum float64
	var wins, losses int
	for _, t := range trades {
		v := fn(t)
		if v > 0 {
			winSum += v
			wins++
		} else if v < 0 {
			lossSum += v
			losses++
		}
	}
	if losses == 0 {
		if wins > 0 {
			return math.Inf(1)
		}
		return 0
	}
	avgWin := 0.0
	if wins > 0 {
		avgWin = winSum / float64(wins)
	}
	avgLoss := math.Abs(lossSum / float64(losses))
	return avgWin / avgLoss
}

// NetPL returns the summed profit/loss of the trades.
func NetPL(trades []models.Trade) float64 {
	var sum float64
	for _, t := range trades {
		sum += t.ProfitLoss
	}
	return sum
}

// AvgPL returns the mean profit/loss, 0 for empty input.
func AvgPL(trades []models.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	return NetPL(trades) / float64(len(trades))
}

// Drawdown walks the trades in the given order, accumulating a running
// balance from initialBalance and tracking the peak, and returns the
// most negative percentage decline from peak. Sequences that never fall
// below a peak return 0. Order-sensitive: the caller pre-sorts
// chronologically.
func Drawdown(trades []models.Trade, initialBalance float64) float64 {
	balance := initialBalance
	peak := initialBalance
	maxDD := 0.0
	for _, t := range trades {
		balance += t.ProfitLoss
		if balance > peak {
			peak = balance
		}
		if peak != 0 {
			dd := (balance - peak) / peak * 100
			if dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// Discipline score ingredients.
const (
	riskTolerance = 0.01
	rrTolerance   = 0.1
)

// DisciplineScore scores a trade's plan adherence on a 0-100 scale:
// +20 planned risk matched, +20 planned RR matched, +20 inside the
// trading window, +30 reflection checklist fully true, +10 clean A-setup
// (setup score >= 8 with no mistakes), minus 10 per recorded mistake,
// clamped to [0,100]. A nil reflection simply forfeits the checklist
// points.
func DisciplineScore(t models.Trade, reflection *models.Reflection, outsideWindow bool) int {
	score := 0
	if math.Abs(t.PlannedRisk-t.ActualRisk) <= riskTolerance {
		score += 20
	}
	if math.Abs(t.PlannedRR-t.ActualRR) <= rrTolerance {
		score += 20
	}
	if !outsideWindow {
		score += 20
	}
	if reflection != nil && len(reflection.Checklist) > 0 {
		allTrue := true
		for _, ok := range reflection.Checklist {
			if !ok {
				allTrue = false
				break
			}
		}
		if allTrue {
			score += 30
		}
	}
	if t.SetupScore >= 8 && len(t.Mistakes) == 0 {
		score += 10
	}

	score -= 10 * len(t.Mistakes)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
