package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"tradejournal/internal/analytics"
	"tradejournal/internal/models"
)

func TestEscapeField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{"", `""`},
		{"with,comma", `"with,comma"`},
		{`He said "hi"`, `"He said ""hi"""`},
		{`""`, `""""""`},
	}
	for _, tt := range tests {
		if got := escapeField(tt.in); got != tt.want {
			t.Errorf("escapeField(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestWriteCSVQuotesEveryField(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]string{
		{"Pair", "Notes"},
		{"EURUSD", `entered on "news", exited late`},
	}
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != `"Pair","Notes"` {
		t.Errorf("header line = %s", lines[0])
	}
	if lines[1] != `"EURUSD","entered on ""news"", exited late"` {
		t.Errorf("data line = %s", lines[1])
	}
}

// The export must survive a round trip through a standard CSV reader.
func TestCSVRoundTrip(t *testing.T) {
	original := [][]string{
		{"Field", "Value"},
		{"quote", `He said "hi"`},
		{"comma", "a,b,c"},
		{"both", `"quoted, and, commas"`},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, original); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	parsed, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-parsing export: %v", err)
	}
	if len(parsed) != len(original) {
		t.Fatalf("got %d rows, want %d", len(parsed), len(original))
	}
	for i, row := range original {
		for j, field := range row {
			if parsed[i][j] != field {
				t.Errorf("row %d field %d = %q, want %q", i, j, parsed[i][j], field)
			}
		}
	}
}

func TestRowsCoverEverySection(t *testing.T) {
	agg := NewAggregator(analytics.NewContext(1, models.TradingWindow{Start: "08:00", End: "17:00"}))
	r := agg.Build(reportFixture(), nil, 1000)

	rows := Rows(r)
	flat := make([]string, 0, len(rows))
	for _, row := range rows {
		flat = append(flat, strings.Join(row, "|"))
	}
	joined := strings.Join(flat, "\n")

	for _, header := range []string{"Performance", "Statistics", "Trader Profile", "Outside Trading Window"} {
		if !strings.Contains(joined, header) {
			t.Errorf("missing section header %q", header)
		}
	}
	if !strings.Contains(joined, "Total Trades|3") {
		t.Error("missing total trades row")
	}
	if !strings.Contains(joined, "EURUSD") {
		t.Error("missing pair rows")
	}
}

func TestRowsEmptyReportUsesPlaceholders(t *testing.T) {
	agg := NewAggregator(analytics.NewContext(1, models.TradingWindow{}))
	r := agg.Build(nil, nil, 1000)

	rows := Rows(r)
	placeholders := 0
	for _, row := range rows {
		if len(row) == 1 && row[0] == "No data" {
			placeholders++
		}
	}
	if placeholders != 4 {
		t.Errorf("got %d 'No data' placeholders, want 4", placeholders)
	}
}

func TestRowsSkipNilSections(t *testing.T) {
	r := &Report{
		Performance: &PerformanceSection{Empty: true},
		// Statistics, Profile, OutsideWindow failed.
	}
	rows := Rows(r)
	for _, row := range rows {
		for _, field := range row {
			if field == "Statistics" || field == "Trader Profile" {
				t.Errorf("nil section rendered: %q", field)
			}
		}
	}
}
