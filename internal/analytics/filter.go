package analytics

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"tradejournal/internal/models"
)

// SortOrder selects how a filtered trade list is ordered.
type SortOrder string

// Sort orders. The zero value is treated as SortDateDesc.
const (
	SortDateDesc SortOrder = "date-desc"
	SortPLDesc   SortOrder = "pl-desc"
	SortDateAsc  SortOrder = "date-asc"
)

// Filter is the set of predicates applied to a trade list.
type Filter struct {
	Search     string   // free text over pair, strategy name, outcome
	Pair       string   // exact match
	Outcome    string   // exact match
	StrategyID *int64   // exact match
	RiskPlan   *float64 // exact match on planned risk
	DateFrom   string   // YYYY-MM-DD inclusive
	DateTo     string   // YYYY-MM-DD inclusive
	BalanceMin *float64
	BalanceMax *float64
	Tags       []string // trade must carry every listed tag
	Sort       SortOrder
}

// sigEscaper escapes the signature's separator tokens inside field
// values so distinct filters can never serialize to the same key.
var sigEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, "=", `\=`, ",", `\,`)

// signature serializes the filter set and account scope into the memo
// key. Two equal filter values always yield the same string, and two
// distinct filters never collide: string values are escaped before the
// separators are applied.
func (f Filter) signature(accountID int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "acct=%d|q=%s|pair=%s|out=%s",
		accountID, sigEscaper.Replace(f.Search), sigEscaper.Replace(f.Pair), sigEscaper.Replace(f.Outcome))
	if f.StrategyID != nil {
		fmt.Fprintf(&b, "|strat=%d", *f.StrategyID)
	}
	if f.RiskPlan != nil {
		fmt.Fprintf(&b, "|risk=%g", *f.RiskPlan)
	}
	fmt.Fprintf(&b, "|from=%s|to=%s", sigEscaper.Replace(f.DateFrom), sigEscaper.Replace(f.DateTo))
	if f.BalanceMin != nil {
		fmt.Fprintf(&b, "|bmin=%g", *f.BalanceMin)
	}
	if f.BalanceMax != nil {
		fmt.Fprintf(&b, "|bmax=%g", *f.BalanceMax)
	}
	if len(f.Tags) > 0 {
		tags := make([]string, len(f.Tags))
		for i, tag := range f.Tags {
			tags[i] = sigEscaper.Replace(tag)
		}
		sort.Strings(tags)
		fmt.Fprintf(&b, "|tags=%s", strings.Join(tags, ","))
	}
	fmt.Fprintf(&b, "|sort=%s", sigEscaper.Replace(string(f.Sort)))
	return b.String()
}

// FilterCache memoizes the last filtered+sorted trade list against its
// (filters, accountID) signature. Callers rely on getting the same slice
// reference back between renders while the signature is unchanged, so
// pagination stays stable. Any trade mutation must call Invalidate;
// there is no automatic dependency tracking. Each view owns its own
// cache so concurrent views do not clobber each other.
type FilterCache struct {
	mu        sync.Mutex
	signature string
	result    []models.Trade
	valid     bool

	// resolve maps a strategy ID to its name for free-text search.
	// Optional; unresolved strategies never match the search text.
	resolve func(int64) string
}

// NewFilterCache creates a cache. resolve may be nil.
func NewFilterCache(resolve func(int64) string) *FilterCache {
	return &FilterCache{resolve: resolve}
}

// Apply filters and sorts trades, recomputing at most once per distinct
// (filter, accountID) signature. While the signature is unchanged and no
// invalidation intervened, the previously computed slice is returned
// unchanged.
func (c *FilterCache) Apply(trades []models.Trade, accountID int64, f Filter) []models.Trade {
	sig := f.signature(accountID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.signature == sig {
		return c.result
	}

	c.result = c.compute(trades, accountID, f)
	c.signature = sig
	c.valid = true
	return c.result
}

// Invalidate drops the memo slot. The next Apply recomputes even for an
// identical signature.
func (c *FilterCache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.result = nil
	c.signature = ""
	c.mu.Unlock()
}

func (c *FilterCache) compute(trades []models.Trade, accountID int64, f Filter) []models.Trade {
	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if accountID != 0 && t.AccountID != accountID {
			continue
		}
		if !c.matches(t, f) {
			continue
		}
		out = append(out, t)
	}

	switch f.Sort {
	case SortPLDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].ProfitLoss > out[j].ProfitLoss })
	case SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Date != out[j].Date {
				return out[i].Date < out[j].Date
			}
			return out[i].TradeTime < out[j].TradeTime
		})
	default: // SortDateDesc
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Date != out[j].Date {
				return out[i].Date > out[j].Date
			}
			return out[i].TradeTime > out[j].TradeTime
		})
	}

	return out
}

func (c *FilterCache) matches(t models.Trade, f Filter) bool {
	if f.Pair != "" && t.Pair != f.Pair {
		return false
	}
	if f.Outcome != "" && t.Outcome != f.Outcome {
		return false
	}
	if f.StrategyID != nil {
		if t.StrategyID == nil || *t.StrategyID != *f.StrategyID {
			return false
		}
	}
	if f.RiskPlan != nil && t.PlannedRisk != *f.RiskPlan {
		return false
	}
	if f.DateFrom != "" && t.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && t.Date > f.DateTo {
		return false
	}
	if f.BalanceMin != nil || f.BalanceMax != nil {
		if t.Balance == nil {
			return false
		}
		if f.BalanceMin != nil && *t.Balance < *f.BalanceMin {
			return false
		}
		if f.BalanceMax != nil && *t.Balance > *f.BalanceMax {
			return false
		}
	}
	for _, tag := range f.Tags {
		if !hasTag(t.CustomTags, tag) {
			return false
		}
	}
	if f.Search != "" && !c.matchesSearch(t, f.Search) {
		return false
	}
	return true
}

func (c *FilterCache) matchesSearch(t models.Trade, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Pair), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Outcome), q) {
		return true
	}
	if t.StrategyID != nil && c.resolve != nil {
		if name := c.resolve(*t.StrategyID); name != "" {
			if strings.Contains(strings.ToLower(name), q) {
				return true
			}
		}
	}
	return false
}

func hasTag(tags []string, want string) bool {
	for _, tag := range tags {
		if strings.EqualFold(tag, want) {
			return true
		}
	}
	return false
}
