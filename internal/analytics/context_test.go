package analytics

import (
	"testing"

	"tradejournal/internal/models"
)

func TestOutsideWindow(t *testing.T) {
	window := models.TradingWindow{Start: "08:00", End: "17:00"}
	ctx := NewContext(1, window)

	cases := []struct {
		name string
		time string
		want bool
	}{
		{"inside", "12:30", false},
		{"at start", "08:00", false},
		{"at end", "17:00", false},
		{"before", "07:59", true},
		{"after", "17:01", true},
		{"no time recorded", "", false},
		{"malformed time", "noonish", false},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := ctx.OutsideWindow(models.Trade{ID: 1, TradeTime: tt.time})
			if got != tt.want {
				t.Errorf("OutsideWindow(%q) = %v, want %v", tt.time, got, tt.want)
			}
		})
	}
}

func TestOutsideWindowWrapsMidnight(t *testing.T) {
	ctx := NewContext(1, models.TradingWindow{Start: "22:00", End: "04:00"})

	cases := []struct {
		time string
		want bool
	}{
		{"23:00", false},
		{"02:00", false},
		{"22:00", false},
		{"04:00", false},
		{"12:00", true},
		{"21:59", true},
	}
	for _, tt := range cases {
		got := ctx.OutsideWindow(models.Trade{TradeTime: tt.time})
		if got != tt.want {
			t.Errorf("OutsideWindow(%q) = %v, want %v", tt.time, got, tt.want)
		}
	}
}

func TestOutsideWindowUnrestricted(t *testing.T) {
	ctx := NewContext(1, models.TradingWindow{})
	if ctx.OutsideWindow(models.Trade{TradeTime: "03:00"}) {
		t.Error("unrestricted window flagged a trade")
	}
}
