package normalize

import (
	"lenflow/internal/domain"
	"lenflow/internal/extraction"
)

// BalanceSheet maps a balance-sheet extraction payload to draft
// fields. Totals are read directly; cash, receivables, and payables
// are summed from their tabular sections. Returns nil when the payload
// carries no recognizable balance-sheet signal.
func BalanceSheet(p *extraction.Payload) *domain.FinancialFields {
	out := &domain.FinancialFields{}

	if v, ok := amountField(p, "total_current_assets"); ok {
		out.TotalCurrentAssets = FormatAmount(v)
	}
	if v, ok := amountField(p, "total_current_liabilities"); ok {
		out.TotalCurrentLiabilities = FormatAmount(v)
	}
	if v, ok := amountField(p, "total_equity"); ok {
		out.Equity = FormatAmount(v)
	}

	if v, ok := sumTable(p, "cash"); ok {
		out.Cash = FormatAmount(v)
	}
	if v, ok := sumTable(p, "accounts_receivable"); ok {
		out.AccountsReceivable = FormatAmount(v)
	}
	if v, ok := sumTable(p, "accounts_payable"); ok {
		out.AccountsPayable = FormatAmount(v)
	}

	if out.IsEmpty() {
		return nil
	}

	// Downstream consumers expect a numeric string for inventory, so a
	// missing figure becomes "0" rather than being omitted.
	if v, ok := amountField(p, "inventory"); ok {
		out.Inventory = FormatAmount(v)
	} else {
		out.Inventory = "0"
	}

	if raw, ok := p.Field("report_date"); ok {
		if date, ok := ParseReportDate(raw); ok {
			out.AsOfDate = date
		}
	}
	return out
}

// sumTable totals the amount column of the first table matching the
// name fragment.
func sumTable(p *extraction.Payload, fragment string) (float64, bool) {
	table, ok := p.Table(fragment)
	if !ok {
		return 0, false
	}
	var total float64
	found := false
	for _, row := range table.Rows {
		if amt, ok := ParseAmount(row.Amount); ok {
			total += amt
			found = true
		}
	}
	return total, found
}
