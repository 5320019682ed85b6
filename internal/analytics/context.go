// Package analytics derives balances, discipline scores, drawdown, win
// rates, and time-bucketed statistics from trade records. All functions
// are pure given their inputs; state lives with the caller.
package analytics

import (
	"github.com/rs/zerolog"

	"tradejournal/internal/models"
)

// Context carries the settings every analytics call needs. It replaces
// any process-wide active-account or settings state: callers construct
// one per evaluation and pass it explicitly.
type Context struct {
	ActiveAccountID    int64
	TradingWindow      models.TradingWindow
	ConditionTypes     []string
	LargeLossThreshold float64
	OvertradingLimit   int
	RapidSequenceMins  int
	Logger             zerolog.Logger
}

// NewContext builds a context with the default heuristic thresholds.
func NewContext(accountID int64, window models.TradingWindow) Context {
	return Context{
		ActiveAccountID:    accountID,
		TradingWindow:      window,
		LargeLossThreshold: 500,
		OvertradingLimit:   10,
		RapidSequenceMins:  15,
		Logger:             zerolog.Nop(),
	}
}

// OutsideWindow reports whether a trade's time-of-day falls outside the
// context's trading window. An unrestricted window never flags a trade,
// nor does a trade without a recorded time or with a malformed one.
func (c Context) OutsideWindow(t models.Trade) bool {
	w := c.TradingWindow
	if w.Unrestricted() || t.TradeTime == "" {
		return false
	}
	tm, ok := clockMinutes(t.TradeTime)
	if !ok {
		c.Logger.Debug().Int64("trade_id", t.ID).Str("trade_time", t.TradeTime).Msg("malformed trade time, not flagged")
		return false
	}
	start, okS := clockMinutes(w.Start)
	end, okE := clockMinutes(w.End)
	if !okS || !okE {
		return false
	}
	if start <= end {
		return tm < start || tm > end
	}
	// Window wraps midnight.
	return tm < start && tm > end
}

func clockMinutes(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' || s[3] < '0' || s[3] > '9' || s[4] < '0' || s[4] > '9' {
		return 0, false
	}
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
