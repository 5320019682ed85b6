// Package models defines the record types persisted by the store and
// consumed by the analytics engine.
package models

import "time"

// Account represents a trading account. Exactly one account is active at
// a time via the Settings record; trade and strategy views are scoped to
// the active account.
type Account struct {
	ID              int64
	Name            string
	InitialBalance  float64
	MaxDrawdown     float64 // percent, 0-100
	DailyDrawdown   float64 // percent, 0-100
	MaxLossPerDay   float64 // percent, 0-100
	MaxTradesPerDay int
	ProfitSplit     float64 // percent, 0-100
	IsPropFirm      bool
	CreatedAt       time.Time
}

// Strategy represents a trading strategy owned by an account. A strategy
// cannot be deleted while any trade references it.
type Strategy struct {
	ID              int64
	AccountID       int64
	Name            string
	MarketType      string
	Timeframes      []string
	EntryConditions []Condition
	ExitConditions  []Condition
	RiskSettings    RiskSettings
	Tags            []string
	CreatedAt       time.Time
}

// Condition is a single ordered entry or exit rule on a strategy.
type Condition struct {
	Type        string            `json:"type"`
	Description string            `json:"description"`
	Params      map[string]string `json:"params,omitempty"`
}

// RiskSettings holds the per-strategy default risk parameters.
type RiskSettings struct {
	RiskPercent  float64 `json:"riskPercent"`
	StopLossPips float64 `json:"stopLossPips"`
	RR           float64 `json:"rr"`
}

// Reflection holds post-trade notes and a checklist of adherence flags.
// One reflection per trade within an account scope.
type Reflection struct {
	TradeID   int64
	AccountID int64
	Notes     string
	Checklist map[string]bool
	UpdatedAt time.Time
}

// TradingWindow is a configured daily time-of-day range considered
// in-session. Empty Start and End mean unrestricted.
type TradingWindow struct {
	Start string // HH:MM
	End   string // HH:MM
}

// Unrestricted reports whether the window covers the whole day.
func (w TradingWindow) Unrestricted() bool {
	return w.Start == "" || w.End == ""
}

// Settings is the singleton process-wide settings record.
type Settings struct {
	ActiveAccountID int64
	TradingWindow   TradingWindow
	ConditionTypes  []string
	BackupFrequency string // "off", "daily", "weekly"
}

// DailyPlan is a pre-market plan for a trading day.
type DailyPlan struct {
	ID        int64
	AccountID int64
	Date      string // YYYY-MM-DD
	Bias      string
	KeyLevels string
	Notes     string
	MaxTrades int
	CreatedAt time.Time
}

// WeeklyReview is an end-of-week retrospective.
type WeeklyReview struct {
	ID        int64
	AccountID int64
	WeekStart string // YYYY-MM-DD, Monday
	WentWell  string
	ToImprove string
	Lessons   string
	Grade     string
	CreatedAt time.Time
}
