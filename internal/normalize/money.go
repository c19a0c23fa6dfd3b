package normalize

import (
	"math"
	"strconv"
	"strings"
)

// currency symbols and separators the vendor leaves in amount strings.
var moneyNoise = strings.NewReplacer(
	"$", "", "€", "", "£", "", "₹", "",
	",", "", " ", "", " ", "",
)

// ParseAmount converts a raw amount string to a float. Currency
// symbols, thousands separators, and whitespace are stripped first.
// Parenthesized amounts are read as negative (accounting notation).
// Anything that does not parse to a finite number is absent, not zero.
func ParseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = moneyNoise.Replace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if negative {
		f = -f
	}
	return f, true
}

// FormatAmount renders a parsed amount back to the canonical decimal
// string used in drafts.
func FormatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
