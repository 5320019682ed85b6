package analytics

import (
	"math"
	"testing"

	"tradejournal/internal/models"
	"tradejournal/internal/performance"
)

func TestProject(t *testing.T) {
	trades := []models.Trade{
		{ID: 1, ProfitLoss: 120},
		{ID: 2, ProfitLoss: -130},
		{ID: 3, ProfitLoss: 50},
	}
	points := Project(trades, 1000)
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
	wantBalances := []float64{1120, 990, 1040}
	for i, p := range points {
		if p.Balance != wantBalances[i] {
			t.Errorf("point %d balance = %v, want %v", i, p.Balance, wantBalances[i])
		}
		if p.Drawdown > 0 {
			t.Errorf("point %d drawdown = %v, must not be positive", i, p.Drawdown)
		}
	}
	wantDD := (990.0 - 1120.0) / 1120.0 * 100
	if math.Abs(points[1].Drawdown-wantDD) > 1e-9 {
		t.Errorf("point 1 drawdown = %v, want %v", points[1].Drawdown, wantDD)
	}
	if points[0].Drawdown != 0 {
		t.Errorf("point 0 drawdown = %v, want 0 at a new peak", points[0].Drawdown)
	}
}

func TestBalanceFor(t *testing.T) {
	trades := []models.Trade{
		{ID: 7, ProfitLoss: 100},
		{ID: 9, ProfitLoss: -30},
		{ID: 11, ProfitLoss: 10},
	}
	balance, ok := BalanceFor(trades, 9, 1000)
	if !ok || balance != 1070 {
		t.Errorf("BalanceFor(9) = %v, %v; want 1070, true", balance, ok)
	}
	if _, ok := BalanceFor(trades, 999, 1000); ok {
		t.Error("BalanceFor(unknown) reported ok")
	}
}

func TestBalanceBatch(t *testing.T) {
	trades := make([]models.Trade, 50)
	for i := range trades {
		trades[i] = models.Trade{ID: int64(i + 1), ProfitLoss: float64(i%5) - 2}
	}
	ids := []int64{1, 10, 25, 50, 999}

	want := make(map[int64]float64)
	for _, id := range ids {
		if b, ok := BalanceFor(trades, id, 1000); ok {
			want[id] = b
		}
	}

	pool := performance.NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	got := BalanceBatch(pool, trades, ids, 1000)
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d", len(got), len(want))
	}
	for id, balance := range want {
		if got[id] != balance {
			t.Errorf("balance for %d = %v, want %v", id, got[id], balance)
		}
	}
	if _, found := got[999]; found {
		t.Error("unknown trade id appeared in results")
	}
}

func TestBalanceBatchWithoutPool(t *testing.T) {
	trades := []models.Trade{{ID: 1, ProfitLoss: 50}}
	got := BalanceBatch(nil, trades, []int64{1}, 100)
	if got[1] != 150 {
		t.Errorf("balance = %v, want 150", got[1])
	}
}

func TestSortChronological(t *testing.T) {
	trades := []models.Trade{
		{ID: 3, Date: "2026-08-25", TradeTime: "09:00"},
		{ID: 1, Date: "2026-08-24", TradeTime: "15:00"},
		{ID: 4, Date: "2026-08-25", TradeTime: ""},
		{ID: 2, Date: "2026-08-24", TradeTime: "15:00"},
	}
	sorted := SortChronological(trades)

	wantIDs := []int64{1, 2, 4, 3}
	for i, tr := range sorted {
		if tr.ID != wantIDs[i] {
			t.Errorf("position %d = trade %d, want %d", i, tr.ID, wantIDs[i])
		}
	}
	// Input order untouched.
	if trades[0].ID != 3 {
		t.Error("input slice was reordered")
	}
}
