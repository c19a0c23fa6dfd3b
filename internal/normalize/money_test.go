package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lenflow/internal/normalize"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
		ok   bool
	}{
		{"plain", "1234.56", 1234.56, true},
		{"dollar and commas", "$2,143,691.98", 2143691.98, true},
		{"euro", "€1.545.862,15", 0, false}, // European separators are not supported
		{"spaces", " 1 545 862.15 ", 1545862.15, true},
		{"parentheses negative", "(12,500)", -12500, true},
		{"negative sign", "-42.5", -42.5, true},
		{"empty", "", 0, false},
		{"whitespace only", "   ", 0, false},
		{"currency only", "$", 0, false},
		{"text", "n/a", 0, false},
		{"not-a-number literal", "NaN", 0, false},
		{"infinity literal", "Inf", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalize.ParseAmount(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "2143691.98", normalize.FormatAmount(2143691.98))
	assert.Equal(t, "0", normalize.FormatAmount(0))
	assert.Equal(t, "-12500", normalize.FormatAmount(-12500))
}

func TestParseFormatRoundTrip(t *testing.T) {
	got, ok := normalize.ParseAmount(normalize.FormatAmount(1545862.15))
	assert.True(t, ok)
	assert.InDelta(t, 1545862.15, got, 1e-9)
}
