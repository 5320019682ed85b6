package analytics

import (
	"math"
	"testing"

	"tradejournal/internal/models"
)

func trade(pl float64) models.Trade {
	return models.Trade{ProfitLoss: pl}
}

func TestWinRate(t *testing.T) {
	tests := []struct {
		name   string
		trades []models.Trade
		want   float64
	}{
		{"empty", nil, 0},
		{"all wins", []models.Trade{trade(10), trade(20)}, 100},
		{"all losses", []models.Trade{trade(-10), trade(-20)}, 0},
		{"half", []models.Trade{trade(10), trade(-10)}, 50},
		{"breakeven counts as loss", []models.Trade{trade(0), trade(10)}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WinRate(tt.trades, nil)
			if got != tt.want {
				t.Errorf("WinRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWinRateCustomValueFunc(t *testing.T) {
	trades := []models.Trade{
		{ActualRR: 2, ProfitLoss: -5},
		{ActualRR: -1, ProfitLoss: 10},
	}
	got := WinRate(trades, func(t models.Trade) float64 { return t.ActualRR })
	if got != 50 {
		t.Errorf("WinRate(ActualRR) = %v, want 50", got)
	}
}

func TestProfitFactor(t *testing.T) {
	t.Run("mixed", func(t *testing.T) {
		trades := []models.Trade{trade(300), trade(-100), trade(-50)}
		got := ProfitFactor(trades, nil)
		if got != 2 {
			t.Errorf("ProfitFactor() = %v, want 2", got)
		}
	})
	t.Run("no losses yields infinity", func(t *testing.T) {
		got := ProfitFactor([]models.Trade{trade(100)}, nil)
		if !math.IsInf(got, 1) {
			t.Errorf("ProfitFactor() = %v, want +Inf", got)
		}
	})
	t.Run("no trades yields zero", func(t *testing.T) {
		if got := ProfitFactor(nil, nil); got != 0 {
			t.Errorf("ProfitFactor() = %v, want 0", got)
		}
	})
	t.Run("only losses yields zero", func(t *testing.T) {
		if got := ProfitFactor([]models.Trade{trade(-50)}, nil); got != 0 {
			t.Errorf("ProfitFactor() = %v, want 0", got)
		}
	})
}

func TestAvgWinLoss(t *testing.T) {
	t.Run("ratio of means", func(t *testing.T) {
		// avg win 100, avg loss 50
		trades := []models.Trade{trade(150), trade(50), trade(-60), trade(-40)}
		got := AvgWinLoss(trades, nil)
		if got != 2 {
			t.Errorf("AvgWinLoss() = %v, want 2", got)
		}
	})
	t.Run("wins without losses yields infinity", func(t *testing.T) {
		got := AvgWinLoss([]models.Trade{trade(10)}, nil)
		if !math.IsInf(got, 1) {
			t.Errorf("AvgWinLoss() = %v, want +Inf", got)
		}
	})
	t.Run("empty yields zero", func(t *testing.T) {
		if got := AvgWinLoss(nil, nil); got != 0 {
			t.Errorf("AvgWinLoss() = %v, want 0", got)
		}
	})
}

func TestDrawdown(t *testing.T) {
	t.Run("worked example", func(t *testing.T) {
		// Balance walk from 1000: 1120 (peak), 990, 1040.
		// Deepest decline is (990-1120)/1120 = -11.607%.
		trades := []models.Trade{trade(120), trade(-130), trade(50)}
		got := Drawdown(trades, 1000)
		want := (990.0 - 1120.0) / 1120.0 * 100
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Drawdown() = %v, want %v", got, want)
		}
	})
	t.Run("monotone gains never draw down", func(t *testing.T) {
		trades := []models.Trade{trade(10), trade(20), trade(5)}
		if got := Drawdown(trades, 1000); got != 0 {
			t.Errorf("Drawdown() = %v, want 0", got)
		}
	})
	t.Run("empty yields zero", func(t *testing.T) {
		if got := Drawdown(nil, 1000); got != 0 {
			t.Errorf("Drawdown() = %v, want 0", got)
		}
	})
	t.Run("order sensitivity", func(t *testing.T) {
		a := []models.Trade{trade(-100), trade(100)}
		b := []models.Trade{trade(100), trade(-100)}
		ddA := Drawdown(a, 1000)
		ddB := Drawdown(b, 1000)
		// Losing first draws down from 1000; losing after a win draws
		// down from the higher peak, a different percentage.
		if ddA == ddB {
			t.Errorf("expected order-dependent drawdowns, both %v", ddA)
		}
	})
}

func TestNetAndAvgPL(t *testing.T) {
	trades := []models.Trade{trade(100), trade(-40), trade(30)}
	if got := NetPL(trades); got != 90 {
		t.Errorf("NetPL() = %v, want 90", got)
	}
	if got := AvgPL(trades); got != 30 {
		t.Errorf("AvgPL() = %v, want 30", got)
	}
	if got := AvgPL(nil); got != 0 {
		t.Errorf("AvgPL(empty) = %v, want 0", got)
	}
}

func TestDisciplineScore(t *testing.T) {
	fullChecklist := &models.Reflection{Checklist: map[string]bool{"followed_plan": true, "waited": true}}
	partialChecklist := &models.Reflection{Checklist: map[string]bool{"followed_plan": true, "waited": false}}

	tests := []struct {
		name          string
		trade         models.Trade
		reflection    *models.Reflection
		outsideWindow bool
		want          int
	}{
		{
			name: "perfect trade",
			trade: models.Trade{
				PlannedRisk: 1, ActualRisk: 1,
				PlannedRR: 2, ActualRR: 2,
				SetupScore: 9,
			},
			reflection: fullChecklist,
			want:       100,
		},
		{
			name: "risk within tolerance still counts",
			trade: models.Trade{
				PlannedRisk: 1, ActualRisk: 1.005,
				PlannedRR: 2, ActualRR: 2.05,
				SetupScore: 8,
			},
			reflection: fullChecklist,
			want:       100,
		},
		{
			name: "no reflection forfeits checklist points",
			trade: models.Trade{
				PlannedRisk: 1, ActualRisk: 1,
				PlannedRR: 2, ActualRR: 2,
				SetupScore: 9,
			},
			want: 70,
		},
		{
			name: "partial checklist scores nothing",
			trade: models.Trade{
				PlannedRisk: 1, ActualRisk: 1,
				PlannedRR: 2, ActualRR: 2,
				SetupScore: 9,
			},
			reflection: partialChecklist,
			want:       70,
		},
		{
			name: "outside window loses window points",
			trade: models.Trade{
				PlannedRisk: 1, ActualRisk: 1,
				PlannedRR: 2, ActualRR: 2,
				SetupScore: 9,
			},
			reflection:    fullChecklist,
			outsideWindow: true,
			want:          80,
		},
		{
			name: "mistakes deduct and forfeit the clean-setup bonus",
			trade: models.Trade{
				PlannedRisk: 1, ActualRisk: 1,
				PlannedRR: 2, ActualRR: 2,
				SetupScore: 9,
				Mistakes:   []string{"chased entry", "moved stop"},
			},
			reflection: fullChecklist,
			want:       70, // 20+20+20+30 - 20
		},
		{
			name: "score floors at zero",
			trade: models.Trade{
				PlannedRisk: 1, ActualRisk: 5,
				PlannedRR: 3, ActualRR: -1,
				Mistakes:  []string{"a", "b", "c", "d", "e"},
			},
			outsideWindow: true,
			want:          0,
		},
		{
			name: "low setup score forfeits the bonus",
			trade: models.Trade{
				PlannedRisk: 1, ActualRisk: 1,
				PlannedRR: 2, ActualRR: 2,
				SetupScore: 7,
			},
			reflection: fullChecklist,
			want:       90,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DisciplineScore(tt.trade, tt.reflection, tt.outsideWindow)
			if got != tt.want {
				t.Errorf("DisciplineScore() = %d, want %d", got, tt.want)
			}
		})
	}
}
