package normalize

import (
	"fmt"
	"strings"
	"time"

	"lenflow/internal/domain"
	"lenflow/internal/extraction"
)

// IncomeStatement maps an income-statement extraction payload to draft
// fields. Returns nil when none of the candidate source fields carries
// a parseable value, so callers never clobber manually entered figures
// with an empty set.
func IncomeStatement(p *extraction.Payload, now time.Time) *domain.FinancialFields {
	out := &domain.FinancialFields{}

	gross, hasGross := amountField(p, "total_income", "gross_profit")
	if hasGross {
		out.GrossRevenue = FormatAmount(gross)
	}

	net, hasNet := amountField(p, "net_income")
	if hasNet {
		out.NetIncome = FormatAmount(net)
	}

	// Net operating income stands in for EBITDA on these statements.
	if noi, ok := amountField(p, "net_operating_income"); ok {
		out.EBITDA = FormatAmount(noi)
	}

	if hasGross && hasNet && gross != 0 {
		out.ProfitMargin = fmt.Sprintf("%.2f", net/gross*100)
	}

	if rent, ok := sumRentLines(p); ok {
		out.RentalExpenses = FormatAmount(rent)
	}

	if out.IsEmpty() {
		return nil
	}

	if period, ok := p.Field("report_period"); ok {
		if date, ok := QuarterEndFromPeriod(period, now); ok {
			out.AsOfDate = date
		}
	}
	return out
}

// sumRentLines totals every expense-category line whose label mentions
// rent, skipping "current"-prefixed balance lines (e.g. "current
// portion of rent payable") that are not expenses.
func sumRentLines(p *extraction.Payload) (float64, bool) {
	var total float64
	found := false
	for _, table := range p.Tables {
		if !strings.Contains(strings.ToLower(table.Name), "expense") {
			continue
		}
		for _, row := range table.Rows {
			label := strings.ToLower(row.Label)
			if !strings.Contains(label, "rent") || strings.Contains(label, "current") {
				continue
			}
			if amt, ok := ParseAmount(row.Amount); ok {
				total += amt
				found = true
			}
		}
	}
	return total, found
}

// amountField reads the first named field that parses to a number.
func amountField(p *extraction.Payload, names ...string) (float64, bool) {
	for _, name := range names {
		if raw, ok := p.Field(name); ok {
			if f, ok := ParseAmount(raw); ok {
				return f, true
			}
		}
	}
	return 0, false
}
