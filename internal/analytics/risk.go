package analytics

import (
	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// ValidateRisk checks a prospective trade against the account's daily
// limits and returns any violations as warnings. Warnings are advisory:
// the trade is logged regardless, and the caller decides how loudly to
// surface them.
func ValidateRisk(account *models.Account, todays []models.Trade, trade *models.Trade) []*apperrors.RiskWarning {
	if account == nil {
		return nil
	}

	var warnings []*apperrors.RiskWarning

	if account.MaxTradesPerDay > 0 && len(todays)+1 > account.MaxTradesPerDay {
		warnings = append(warnings, apperrors.NewRiskWarning(
			"max-trades-per-day",
			float64(len(todays)+1),
			float64(account.MaxTradesPerDay),
			"trade count for the day exceeds the account limit",
		))
	}

	if account.MaxLossPerDay > 0 && account.InitialBalance > 0 {
		dayLoss := 0.0
		for _, t := range todays {
			if t.ProfitLoss < 0 {
				dayLoss += -t.ProfitLoss
			}
		}
		if trade.ProfitLoss < 0 {
			dayLoss += -trade.ProfitLoss
		}
		limit := account.InitialBalance * account.MaxLossPerDay / 100
		if dayLoss > limit {
			warnings = append(warnings, apperrors.NewRiskWarning(
				"daily-loss-limit",
				dayLoss,
				limit,
				"realized loss for the day exceeds the account limit",
			))
		}
	}

	return warnings
}
