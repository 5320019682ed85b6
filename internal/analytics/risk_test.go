package analytics

import (
	"testing"

	"tradejournal/internal/models"
)

func TestValidateRiskTradeCount(t *testing.T) {
	account := &models.Account{InitialBalance: 10000, MaxTradesPerDay: 3}
	todays := []models.Trade{{ID: 1}, {ID: 2}, {ID: 3}}

	warnings := ValidateRisk(account, todays, &models.Trade{ProfitLoss: 10})
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if warnings[0].Rule != "max-trades-per-day" {
		t.Errorf("rule = %q", warnings[0].Rule)
	}

	// At the limit, not over it.
	warnings = ValidateRisk(account, todays[:2], &models.Trade{ProfitLoss: 10})
	if len(warnings) != 0 {
		t.Errorf("got %d warnings at the limit, want 0", len(warnings))
	}
}

func TestValidateRiskDailyLoss(t *testing.T) {
	account := &models.Account{InitialBalance: 10000, MaxLossPerDay: 2} // limit 200
	todays := []models.Trade{{ProfitLoss: -150}, {ProfitLoss: 40}}

	warnings := ValidateRisk(account, todays, &models.Trade{ProfitLoss: -100})
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	w := warnings[0]
	if w.Rule != "daily-loss-limit" || w.Current != 250 || w.Limit != 200 {
		t.Errorf("warning = %+v", w)
	}

	// Wins never count toward the loss total.
	warnings = ValidateRisk(account, todays, &models.Trade{ProfitLoss: 500})
	if len(warnings) != 0 {
		t.Errorf("got %d warnings for a winning trade, want 0", len(warnings))
	}
}

func TestValidateRiskUnlimitedAccount(t *testing.T) {
	account := &models.Account{InitialBalance: 10000}
	warnings := ValidateRisk(account, make([]models.Trade, 50), &models.Trade{ProfitLoss: -5000})
	if len(warnings) != 0 {
		t.Errorf("account without limits produced %d warnings", len(warnings))
	}
	if got := ValidateRisk(nil, nil, &models.Trade{}); got != nil {
		t.Error("nil account produced warnings")
	}
}
