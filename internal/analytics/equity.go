package analytics

import (
	"sort"
	"sync"

	"tradejournal/internal/models"
	"tradejournal/internal/performance"
)

// BalancePoint is one step of an equity projection.
type BalancePoint struct {
	TradeID  int64
	Balance  float64
	Drawdown float64 // percent decline from the running peak, <= 0
}

// Project walks the trades in the given order, accumulating a running
// balance from initialBalance, and returns one point per trade with the
// drawdown relative to the running peak. The caller provides the list in
// chronological order; Project does not re-sort.
func Project(trades []models.Trade, initialBalance float64) []BalancePoint {
	points := make([]BalancePoint, 0, len(trades))
	balance := initialBalance
	peak := initialBalance
	for _, t := range trades {
		balance += t.ProfitLoss
		if balance > peak {
			peak = balance
		}
		dd := 0.0
		if peak != 0 {
			dd = (balance - peak) / peak * 100
		}
		if dd > 0 {
			dd = 0
		}
		points = append(points, BalancePoint{TradeID: t.ID, Balance: balance, Drawdown: dd})
	}
	return points
}

// BalanceFor returns the running balance after the identified trade by
// replaying the full preceding history. No cached shortcut is taken: a
// consistent value requires the replay. ok is false when the trade is
// not in the list.
func BalanceFor(trades []models.Trade, tradeID int64, initialBalance float64) (float64, bool) {
	balance := initialBalance
	for _, t := range trades {
		balance += t.ProfitLoss
		if t.ID == tradeID {
			return balance, true
		}
	}
	return 0, false
}

// BalanceBatch computes the running balance for several trades at once,
// running one full replay per trade on the worker pool. The replays are
// independent and may interleave arbitrarily; each is self-consistent
// because it walks the same immutable slice. Trades not present in the
// list are absent from the result.
func BalanceBatch(pool *performance.WorkerPool, trades []models.Trade, tradeIDs []int64, initialBalance float64) map[int64]float64 {
	results := make(map[int64]float64, len(tradeIDs))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range tradeIDs {
		id := id
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if balance, ok := BalanceFor(trades, id, initialBalance); ok {
				mu.Lock()
				results[id] = balance
				mu.Unlock()
			}
		}
		if pool == nil || !pool.Submit(task) {
			task()
		}
	}

	wg.Wait()
	return results
}

// SortChronological orders trades by calendar date, with time-of-day as
// tiebreak where available and creation order as the final tiebreak. It
// returns a new slice; the input is untouched.
func SortChronological(trades []models.Trade) []models.Trade {
	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.TradeTime != b.TradeTime {
			return a.TradeTime < b.TradeTime
		}
		return a.ID < b.ID
	})
	return sorted
}
