package models

import (
	"math"
	"strings"
	"time"
)

// NormalizeTrade fills the derived and defaulted fields of a trade once
// at the store boundary so downstream analytics can assume they are
// present. ProfitLoss is actualRisk * actualRR; Outcome follows the sign
// of ProfitLoss. Non-finite numeric inputs degrade to zero.
func NormalizeTrade(t *Trade) {
	t.Pair = strings.ToUpper(strings.TrimSpace(t.Pair))
	t.Position = NormalizePosition(t.Position)

	t.PlannedRisk = sanitize(t.PlannedRisk)
	t.ActualRisk = sanitize(t.ActualRisk)
	t.PlannedRR = sanitize(t.PlannedRR)
	t.ActualRR = sanitize(t.ActualRR)
	if t.PlannedRisk < 0 {
		t.PlannedRisk = 0
	}
	if t.ActualRisk < 0 {
		t.ActualRisk = 0
	}

	t.ProfitLoss = t.ActualRisk * t.ActualRR
	if t.ProfitLoss > 0 {
		t.Outcome = OutcomeWin
	} else {
		t.Outcome = OutcomeLoss
	}

	if t.SetupScore < 1 {
		t.SetupScore = 1
	}
	if t.SetupScore > 10 {
		t.SetupScore = 10
	}
	if t.Adherence < 1 {
		t.Adherence = 1
	}
	if t.Adherence > 5 {
		t.Adherence = 5
	}

	t.Mistakes = dedupe(t.Mistakes)
	t.Emotions = dedupe(t.Emotions)
	t.CustomTags = dedupe(t.CustomTags)

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
}

// NormalizePosition maps free-form direction strings ("buy", "LONG",
// "s", "sell", ...) onto the canonical Long/Short labels. Unrecognized
// input is returned trimmed as-is.
func NormalizePosition(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "buy", "b", "l":
		return PositionLong
	case "short", "sell", "s":
		return PositionShort
	}
	return strings.TrimSpace(s)
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidClock reports whether s is a well-formed HH:MM time of day.
func ValidClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
