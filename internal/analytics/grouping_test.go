package analytics

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"tradejournal/internal/models"
)

func testCtx() Context {
	return NewContext(1, models.TradingWindow{})
}

func TestGroupDayOfWeek(t *testing.T) {
	// 2026-08-24 is a Monday, 2026-08-25 a Tuesday.
	trades := []models.Trade{
		{ID: 1, Date: "2026-08-24", ProfitLoss: 100},
		{ID: 2, Date: "2026-08-24", ProfitLoss: -50},
		{ID: 3, Date: "2026-08-25", ProfitLoss: 30},
	}
	buckets := Group(testCtx(), DayOfWeek, trades, 1000)
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}
	if buckets[0].Key != "Monday" || buckets[1].Key != "Tuesday" {
		t.Errorf("bucket order = %q, %q; want Monday, Tuesday", buckets[0].Key, buckets[1].Key)
	}
	if buckets[0].Stats.TradeCount != 2 || buckets[0].Stats.NetPnL != 50 {
		t.Errorf("Monday stats = %+v", buckets[0].Stats)
	}
}

func TestGroupSession(t *testing.T) {
	trades := []models.Trade{
		{ID: 1, Date: "2026-08-24", TradeTime: "03:00"}, // Asian
		{ID: 2, Date: "2026-08-24", TradeTime: "08:00"}, // London
		{ID: 3, Date: "2026-08-24", TradeTime: "15:59"}, // London
		{ID: 4, Date: "2026-08-24", TradeTime: "16:00"}, // New York
		{ID: 5, Date: "2026-08-24", TradeTime: "23:59"}, // New York
	}
	buckets := Group(testCtx(), Session, trades, 1000)
	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want 3", len(buckets))
	}
	wantKeys := []string{"Asian", "London", "New York"}
	wantCounts := []int{1, 2, 2}
	for i, b := range buckets {
		if b.Key != wantKeys[i] || b.Stats.TradeCount != wantCounts[i] {
			t.Errorf("bucket %d = %q (%d trades), want %q (%d)", i, b.Key, b.Stats.TradeCount, wantKeys[i], wantCounts[i])
		}
	}
}

func TestGroupWeekOfMonth(t *testing.T) {
	trades := []models.Trade{
		{ID: 1, Date: "2026-08-01"}, // day 1 -> week 1
		{ID: 2, Date: "2026-08-07"}, // day 7 -> week 1
		{ID: 3, Date: "2026-08-08"}, // day 8 -> week 2
		{ID: 4, Date: "2026-08-31"}, // day 31 -> week 5
		{ID: 5, Date: "2026-09-01"}, // different month, week 1 again
	}
	buckets := Group(testCtx(), WeekOfMonth, trades, 1000)
	if len(buckets) != 4 {
		t.Fatalf("got %d buckets, want 4", len(buckets))
	}
	want := []string{"Aug 2026 Week 1", "Aug 2026 Week 2", "Aug 2026 Week 5", "Sep 2026 Week 1"}
	for i, b := range buckets {
		if b.Key != want[i] {
			t.Errorf("bucket %d = %q, want %q", i, b.Key, want[i])
		}
	}
	if buckets[0].Stats.TradeCount != 2 {
		t.Errorf("week 1 count = %d, want 2", buckets[0].Stats.TradeCount)
	}
}

func TestGroupMonthOfYearMergesYears(t *testing.T) {
	trades := []models.Trade{
		{ID: 1, Date: "2025-03-10"},
		{ID: 2, Date: "2026-03-11"},
		{ID: 3, Date: "2026-07-01"},
	}
	buckets := Group(testCtx(), MonthOfYear, trades, 1000)
	if len(buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(buckets))
	}
	if buckets[0].Key != "March" || buckets[0].Stats.TradeCount != 2 {
		t.Errorf("first bucket = %q (%d), want March (2)", buckets[0].Key, buckets[0].Stats.TradeCount)
	}
	if buckets[1].Key != "July" {
		t.Errorf("second bucket = %q, want July", buckets[1].Key)
	}
}

func TestGroupExcludesMalformed(t *testing.T) {
	trades := []models.Trade{
		{ID: 1, Date: "2026-08-24", TradeTime: "09:00"},
		{ID: 2, Date: "garbage", TradeTime: "09:00"},
		{ID: 3, Date: "2026-08-24", TradeTime: ""}, // no time, excluded from hour buckets
		{ID: 4, Date: "2026-08-24", TradeTime: "9am"},
	}
	buckets := Group(testCtx(), HourOfDay, trades, 1000)
	total := 0
	for _, b := range buckets {
		total += len(b.Trades)
	}
	if total != 1 {
		t.Errorf("grouped %d trades, want 1", total)
	}

	// Date-only dimensions keep the timeless trade.
	buckets = Group(testCtx(), DayOfMonth, trades, 1000)
	total = 0
	for _, b := range buckets {
		total += len(b.Trades)
	}
	if total != 3 {
		t.Errorf("grouped %d trades on day-of-month, want 3", total)
	}
}

// Property: grouping partitions its well-formed input. Every trade with
// a parseable date (and time, for time-based dimensions) appears in
// exactly one bucket, and no bucket is empty.
func TestProperty_GroupPartition(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	dayGen := gen.IntRange(1, 28)
	monthGen := gen.IntRange(1, 12)
	hourGen := gen.IntRange(0, 23)
	minuteGen := gen.IntRange(0, 59)

	properties.Property("every trade lands in exactly one bucket", prop.ForAll(
		func(days []int, months []int, hours []int, minutes []int) bool {
			n := len(days)
			if len(months) < n {
				n = len(months)
			}
			if len(hours) < n {
				n = len(hours)
			}
			if len(minutes) < n {
				n = len(minutes)
			}
			trades := make([]models.Trade, n)
			for i := 0; i < n; i++ {
				trades[i] = models.Trade{
					ID:        int64(i + 1),
					Date:      time.Date(2026, time.Month(months[i]), days[i], 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
					TradeTime: time.Date(2026, 1, 1, hours[i], minutes[i], 0, 0, time.UTC).Format("15:04"),
				}
			}
			for _, dim := range Dimensions {
				buckets := Group(testCtx(), dim, trades, 1000)
				seen := make(map[int64]int)
				for _, b := range buckets {
					if len(b.Trades) == 0 {
						return false
					}
					for _, tr := range b.Trades {
						seen[tr.ID]++
					}
				}
				if len(seen) != n {
					return false
				}
				for _, count := range seen {
					if count != 1 {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(dayGen),
		gen.SliceOf(monthGen),
		gen.SliceOf(hourGen),
		gen.SliceOf(minuteGen),
	))

	properties.TestingRun(t)
}
