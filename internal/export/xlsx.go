// Package export renders a subject's financial history as an Excel
// workbook for relationship managers who live in spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"lenflow/internal/covenant"
	"lenflow/internal/domain"
)

const (
	historySheet = "Financial History"
	summarySheet = "Coverage Summary"
)

// columns defines the history sheet header row.
var columns = []string{
	"As Of Date",
	"Gross Revenue",
	"Net Income",
	"EBITDA",
	"Profit Margin",
	"Rental Expenses",
	"Total Current Assets",
	"Total Current Liabilities",
	"Equity",
	"Cash",
	"Accounts Receivable",
	"Accounts Payable",
	"Inventory",
	"Total Assets",
	"Total Liabilities",
	"Net Worth",
	"Liquidity",
	"Notes",
}

// Workbook builds and writes the export file.
type Workbook struct {
	f *excelize.File
}

// NewWorkbook creates a workbook with the history and summary sheets.
func NewWorkbook() (*Workbook, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", historySheet)
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("creating summary sheet: %w", err)
	}
	return &Workbook{f: f}, nil
}

// WriteHistory fills the history sheet, newest record first.
func (w *Workbook) WriteHistory(records []domain.FinancialRecord) error {
	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := w.f.SetCellStr(historySheet, cell, name); err != nil {
			return err
		}
	}

	for i := range records {
		r := &records[i]
		row := i + 2
		values := []interface{}{
			r.AsOfDate,
			cell(r.GrossRevenue),
			cell(r.NetIncome),
			cell(r.EBITDA),
			cell(r.ProfitMargin),
			cell(r.RentalExpenses),
			cell(r.TotalCurrentAssets),
			cell(r.TotalCurrentLiabilities),
			cell(r.Equity),
			cell(r.Cash),
			cell(r.AccountsReceivable),
			cell(r.AccountsPayable),
			cell(r.Inventory),
			cell(r.TotalAssets),
			cell(r.TotalLiabilities),
			cell(r.NetWorth),
			cell(r.Liquidity),
			r.Notes,
		}
		start, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := w.f.SetSheetRow(historySheet, start, &values); err != nil {
			return err
		}
	}
	return nil
}

// WriteCoverage fills the summary sheet with the derived DSCR.
func (w *Workbook) WriteCoverage(d *covenant.Derivation) error {
	rows := [][2]interface{}{
		{"DSCR", d.DisplayDSCR()},
		{"Annual Debt Service", cell(d.AnnualDebtService)},
		{"Covenant DSCR", cell(d.CovenantDSCR)},
		{"Covenant Loan", d.CovenantLoan},
		{"Standing", string(d.Standing)},
	}
	for i, r := range rows {
		start, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := []interface{}{r[0], r[1]}
		if err := w.f.SetSheetRow(summarySheet, start, &values); err != nil {
			return err
		}
	}
	return nil
}

// WriteTo serializes the workbook and closes it.
func (w *Workbook) WriteTo(out io.Writer) error {
	defer func() { _ = w.f.Close() }()
	return w.f.Write(out)
}

// cell renders a nullable figure; nil stays a blank cell, never zero.
func cell(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}
