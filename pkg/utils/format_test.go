package utils

import (
	"math"
	"testing"
)

func TestFormatCurrency(t *testing.T) {
	if got := FormatCurrency(1234.5); got != "$1234.50" {
		t.Errorf("FormatCurrency(1234.5) = %q", got)
	}
	if got := FormatCurrency(-50); got != "-$50.00" {
		t.Errorf("FormatCurrency(-50) = %q", got)
	}
}

func TestFormatPnL(t *testing.T) {
	if got := FormatPnL(100); got != "+$100.00" {
		t.Errorf("FormatPnL(100) = %q", got)
	}
	if got := FormatPnL(-50); got != "-$50.00" {
		t.Errorf("FormatPnL(-50) = %q", got)
	}
	if got := FormatPnL(0); got != "$0.00" {
		t.Errorf("FormatPnL(0) = %q", got)
	}
}

func TestFormatRatio(t *testing.T) {
	if got := FormatRatio(math.Inf(1)); got != "Infinity" {
		t.Errorf("FormatRatio(+Inf) = %q", got)
	}
	if got := FormatRatio(1.5); got != "1.50" {
		t.Errorf("FormatRatio(1.5) = %q", got)
	}
	if got := FormatRatio(0); got != "0.00" {
		t.Errorf("FormatRatio(0) = %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(55.555); got != "+55.56%" {
		t.Errorf("FormatPercent(55.555) = %q", got)
	}
	if got := FormatPercent(-11.607); got != "-11.61%" {
		t.Errorf("FormatPercent(-11.607) = %q", got)
	}
}
