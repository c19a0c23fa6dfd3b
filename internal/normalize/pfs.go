package normalize

import (
	"lenflow/internal/domain"
	"lenflow/internal/extraction"
)

// asOfDateFields are the alternate names PFS payloads have used for the
// statement date, in priority order.
var asOfDateFields = []string{"as_of_date", "statement_date", "report_date", "date"}

// PersonalFinancialStatement maps a PFS extraction payload to draft
// fields. Returns nil when no recognizable figure is present.
func PersonalFinancialStatement(p *extraction.Payload) *domain.FinancialFields {
	out := &domain.FinancialFields{}

	if v, ok := amountField(p, "assets_category_total", "total_assets"); ok {
		out.TotalAssets = FormatAmount(v)
	}
	if v, ok := amountField(p, "liability_category_total", "total_liabilities"); ok {
		out.TotalLiabilities = FormatAmount(v)
	}
	if v, ok := amountField(p, "net_worth"); ok {
		out.NetWorth = FormatAmount(v)
	}

	// No direct liquidity figure on most PFS layouts; fall back to
	// totaling the cash-accounts table.
	if v, ok := amountField(p, "liquidity"); ok {
		out.Liquidity = FormatAmount(v)
	} else if v, ok := sumTable(p, "cash"); ok {
		out.Liquidity = FormatAmount(v)
	}

	if out.IsEmpty() {
		return nil
	}

	for _, name := range asOfDateFields {
		raw, ok := p.Field(name)
		if !ok {
			continue
		}
		if date, ok := ParseReportDate(raw); ok {
			out.AsOfDate = date
			break
		}
	}
	return out
}
