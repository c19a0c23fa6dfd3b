package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// quarterEnds maps each month (1-12) to its calendar quarter-end
// month-day.
var quarterEnds = [13]string{
	1: "03-31", 2: "03-31", 3: "03-31",
	4: "06-30", 5: "06-30", 6: "06-30",
	7: "09-30", 8: "09-30", 9: "09-30",
	10: "12-31", 11: "12-31", 12: "12-31",
}

var monthNames = [13]string{
	1: "january", 2: "february", 3: "march", 4: "april",
	5: "may", 6: "june", 7: "july", 8: "august",
	9: "september", 10: "october", 11: "november", 12: "december",
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// QuarterEndFromPeriod derives a quarter-end date (YYYY-MM-DD) from a
// free-text reporting period such as "July-September, 2025". The month
// appearing earliest in the string picks the quarter; the first 4-digit
// year found supplies the year, defaulting to now's year when absent.
func QuarterEndFromPeriod(period string, now time.Time) (string, bool) {
	lower := strings.ToLower(period)

	month := 0
	earliest := len(lower) + 1
	for m := 1; m <= 12; m++ {
		if idx := strings.Index(lower, monthNames[m]); idx >= 0 && idx < earliest {
			earliest = idx
			month = m
		}
	}
	if month == 0 {
		return "", false
	}

	year := now.Year()
	if m := yearPattern.FindStringSubmatch(period); m != nil {
		if y, err := strconv.Atoi(m[1]); err == nil {
			year = y
		}
	}
	return fmt.Sprintf("%04d-%s", year, quarterEnds[month]), true
}

// reportDateLayouts are the formats the vendor has been seen to use for
// natural-language statement dates.
var reportDateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006-01-02",
	"01/02/2006",
}

// ParseReportDate parses a natural-language report date into
// YYYY-MM-DD. Unparseable input is omitted, never defaulted.
func ParseReportDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	for _, layout := range reportDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
