// Package utils provides shared formatting helpers.
package utils

import (
	"fmt"
	"math"
)

// FormatCurrency formats a signed currency amount.
func FormatCurrency(amount float64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", -amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}

// FormatPnL formats P&L with an explicit sign on gains.
func FormatPnL(pnl float64) string {
	formatted := FormatCurrency(pnl)
	if pnl > 0 {
		return "+" + formatted
	}
	return formatted
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatRatio formats a profit-factor style ratio. The positive-infinity
// sentinel renders as "Infinity".
func FormatRatio(value float64) string {
	if math.IsInf(value, 1) {
		return "Infinity"
	}
	return fmt.Sprintf("%.2f", value)
}

// FormatScore formats a 0-100 score.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.0f/100", score)
}
