package models

import "time"

// Outcome labels for a closed trade.
const (
	OutcomeWin  = "Win"
	OutcomeLoss = "Loss"
)

// Position direction labels. Free-form input is normalized to these.
const (
	PositionLong  = "Long"
	PositionShort = "Short"
)

// Trade represents a single logged position entry/exit with associated
// risk, outcome, and reflection data. ID is assigned by the store at
// creation and never reused.
type Trade struct {
	ID          int64
	AccountID   int64
	Date        string // YYYY-MM-DD
	TradeTime   string // HH:MM, empty when not recorded
	Pair        string
	StrategyID  *int64
	Position    string
	PlannedRisk float64
	ActualRisk  float64
	PlannedRR   float64
	ActualRR    float64
	LotSize     *float64
	StopLoss    *float64
	EntryPrice  *float64
	SLPrice     *float64
	ExitPrice   *float64
	HoldTime    *int // minutes
	Outcome     string
	ProfitLoss  float64
	Balance     *float64 // computed on demand, not always persisted
	Mistakes    []string
	Emotions    []string
	CustomTags  []string
	Screenshots []Screenshot
	SetupScore  int // 1-10
	Adherence   int // 1-5
	CreatedAt   time.Time
}

// Screenshot is an attached chart image reference.
type Screenshot struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// DeletedTrade is a tombstone for a soft-deleted trade. The trade can be
// restored until the undo window expires.
type DeletedTrade struct {
	Trade     Trade
	DeletedAt time.Time
}

// HasStopLoss reports whether a stop-loss level was recorded.
func (t *Trade) HasStopLoss() bool {
	return (t.StopLoss != nil && *t.StopLoss != 0) || (t.SLPrice != nil && *t.SLPrice != 0)
}

// IsWin reports whether the trade closed profitable.
func (t *Trade) IsWin() bool {
	return t.ProfitLoss > 0
}

// When parses the trade's calendar date and optional time-of-day into a
// single timestamp in the local zone. ok is false when the date string is
// malformed; a malformed time degrades to midnight.
func (t *Trade) When() (time.Time, bool) {
	d, err := time.ParseInLocation("2006-01-02", t.Date, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	if t.TradeTime == "" {
		return d, true
	}
	tt, err := time.Parse("15:04", t.TradeTime)
	if err != nil {
		return d, true
	}
	return d.Add(time.Duration(tt.Hour())*time.Hour + time.Duration(tt.Minute())*time.Minute), true
}
