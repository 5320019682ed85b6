package analytics

import (
	"fmt"
	"sort"
	"time"

	"tradejournal/internal/models"
)

// Dimension is a temporal grouping axis.
type Dimension string

// Grouping dimensions.
const (
	DayOfWeek   Dimension = "day-of-week"
	HourOfDay   Dimension = "hour-of-day"
	Session     Dimension = "session"
	DayOfMonth  Dimension = "day-of-month"
	WeekOfMonth Dimension = "week-of-month"
	MonthOfYear Dimension = "month-of-year"
)

// Dimensions lists every grouping axis in report order.
var Dimensions = []Dimension{DayOfWeek, HourOfDay, Session, DayOfMonth, WeekOfMonth, MonthOfYear}

// Bucket is a group of trades sharing one temporal classification, with
// attached statistics.
type Bucket struct {
	Key    string
	Trades []models.Trade
	Stats  BucketStats

	order int
}

// BucketStats are the derived statistics attached to each bucket.
type BucketStats struct {
	TradeCount   int
	WinRate      float64
	NetPnL       float64
	AvgPnL       float64
	WinLossRatio float64
	Drawdown     float64
}

// Sessions. Asian 00-08, London 08-16, New York 16-24, local time.
var sessionNames = [3]string{"Asian", "London", "New York"}

// Group partitions trades along a dimension, discards empty buckets, and
// attaches statistics. Each well-formed trade lands in exactly one
// bucket; trades with malformed date or time strings are excluded from
// the dimension and logged, never fatal. initialBalance seeds the
// per-bucket drawdown walk.
func Group(ctx Context, dim Dimension, trades []models.Trade, initialBalance float64) []Bucket {
	byKey := make(map[string]*Bucket)

	for _, t := range trades {
		key, order, ok := bucketKey(dim, t)
		if !ok {
			ctx.Logger.Debug().
				Int64("trade_id", t.ID).
				Str("dimension", string(dim)).
				Str("date", t.Date).
				Str("time", t.TradeTime).
				Msg("malformed date or time, trade excluded from grouping")
			continue
		}
		b, found := byKey[key]
		if !found {
			b = &Bucket{Key: key, order: order}
			byKey[key] = b
		}
		b.Trades = append(b.Trades, t)
	}

	buckets := make([]Bucket, 0, len(byKey))
	for _, b := range byKey {
		b.Stats = BucketStats{
			TradeCount:   len(b.Trades),
			WinRate:      WinRate(b.Trades, nil),
			NetPnL:       NetPL(b.Trades),
			AvgPnL:       AvgPL(b.Trades),
			WinLossRatio: AvgWinLoss(b.Trades, nil),
			Drawdown:     Drawdown(b.Trades, initialBalance),
		}
		buckets = append(buckets, *b)
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].order < buckets[j].order })
	return buckets
}

// bucketKey derives the bucket label and sort order for one trade. ok is
// false when the trade's date (or, for time-based dimensions, its time)
// cannot be parsed.
func bucketKey(dim Dimension, t models.Trade) (string, int, bool) {
	d, err := time.ParseInLocation("2006-01-02", t.Date, time.Local)
	if err != nil {
		return "", 0, false
	}

	switch dim {
	case DayOfWeek:
		wd := int(d.Weekday()) // 0=Sunday
		return d.Weekday().String(), wd, true

	case HourOfDay:
		h, ok := tradeHour(t)
		if !ok {
			return "", 0, false
		}
		return fmt.Sprintf("%02d:00", h), h, true

	case Session:
		h, ok := tradeHour(t)
		if !ok {
			return "", 0, false
		}
		idx := h / 8 // 0-7, 8-15, 16-23
		return sessionNames[idx], idx, true

	case DayOfMonth:
		return fmt.Sprintf("Day %d", d.Day()), d.Day(), true

	case WeekOfMonth:
		// Computed independently per calendar month, so "Week 1" recurs
		// across months as distinct entries.
		week := (d.Day() - 1) / 7
		if week > 4 {
			week = 4
		}
		key := fmt.Sprintf("%s Week %d", d.Format("Jan 2006"), week+1)
		return key, d.Year()*10000 + int(d.Month())*100 + week, true

	case MonthOfYear:
		// Irrespective of year.
		return d.Month().String(), int(d.Month()) - 1, true
	}

	return "", 0, false
}

// tradeHour parses the trade's HH:MM time. Trades without a recorded
// time cannot be placed on time-of-day dimensions.
func tradeHour(t models.Trade) (int, bool) {
	if t.TradeTime == "" {
		return 0, false
	}
	m, ok := clockMinutes(t.TradeTime)
	if !ok {
		return 0, false
	}
	return m / 60, true
}
