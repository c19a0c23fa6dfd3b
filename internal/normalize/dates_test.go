package normalize_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lenflow/internal/normalize"
)

var fixedNow = time.Date(2025, time.November, 4, 12, 0, 0, 0, time.UTC)

func TestQuarterEndFromPeriod(t *testing.T) {
	tests := []struct {
		name   string
		period string
		want   string
		ok     bool
	}{
		{"range picks first month", "July-September, 2025", "2025-09-30", true},
		{"q1", "January - March 2025", "2025-03-31", true},
		{"single month", "March 2025", "2025-03-31", true},
		{"q4", "October to December, 2024", "2024-12-31", true},
		{"year missing defaults to now", "April - June", "2025-06-30", true},
		{"mixed case", "JULY-SEPTEMBER, 2025", "2025-09-30", true},
		{"no month", "Fiscal year 2025", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalize.QuarterEndFromPeriod(tt.period, fixedNow)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseReportDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"long form", "March 31, 2025", "2025-03-31", true},
		{"short month", "Mar 31, 2025", "2025-03-31", true},
		{"day first", "31 March 2025", "2025-03-31", true},
		{"iso", "2025-03-31", "2025-03-31", true},
		{"us slash", "03/31/2025", "2025-03-31", true},
		{"garbage", "as of quarter end", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalize.ParseReportDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
