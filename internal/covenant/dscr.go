// Package covenant derives debt service coverage from the latest
// submitted figures. Pure computation, no I/O, no state: callers
// re-derive whenever either source record changes.
package covenant

import (
	"fmt"

	"lenflow/internal/domain"
)

// Derivation is the DSCR result for one subject. DSCR is nil when
// undefined (no EBITDA, or no positive debt service); an undefined
// ratio renders as an em dash, never as 0 or infinity, so "no data"
// stays distinguishable from a genuinely zero coverage.
type Derivation struct {
	DSCR              *float64                `json:"dscr"`
	AnnualDebtService *float64                `json:"annual_debt_service"`
	CovenantDSCR      *float64                `json:"covenant_dscr"`
	CovenantLoan      string                  `json:"covenant_loan,omitempty"`
	Standing          domain.CovenantStanding `json:"standing"`
}

// Derive computes DSCR from the most recent financial record and
// debt-service record, and classifies it against the most restrictive
// (minimum) covenant across the subject's loans.
func Derive(record *domain.FinancialRecord, debt *domain.DebtServiceRecord, covenants []domain.LoanCovenant) Derivation {
	d := Derivation{Standing: domain.StandingUnknown}

	if debt != nil && debt.MonthlyTotalPayment != nil {
		annual := *debt.MonthlyTotalPayment * 12
		d.AnnualDebtService = &annual
	}

	if cov, loan, ok := minCovenant(covenants); ok {
		d.CovenantDSCR = &cov
		d.CovenantLoan = loan
	}

	if record == nil || record.EBITDA == nil || d.AnnualDebtService == nil || *d.AnnualDebtService <= 0 {
		return d
	}

	dscr := *record.EBITDA / *d.AnnualDebtService
	d.DSCR = &dscr

	if d.CovenantDSCR != nil {
		if dscr >= *d.CovenantDSCR {
			d.Standing = domain.StandingMeeting
		} else {
			d.Standing = domain.StandingBelow
		}
	}
	return d
}

// minCovenant finds the most restrictive covenant DSCR across loans.
func minCovenant(covenants []domain.LoanCovenant) (min float64, loan string, ok bool) {
	for _, c := range covenants {
		if c.MinDSCR == nil {
			continue
		}
		if !ok || *c.MinDSCR < min {
			min = *c.MinDSCR
			loan = c.LoanNumber
			ok = true
		}
	}
	return min, loan, ok
}

// DisplayDSCR formats a derived ratio for display.
func (d Derivation) DisplayDSCR() string {
	if d.DSCR == nil {
		return "—"
	}
	return fmt.Sprintf("%.2f", *d.DSCR)
}
