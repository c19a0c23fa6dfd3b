package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"lenflow/internal/covenant"
	"lenflow/internal/domain"
	"lenflow/internal/export"
)

func f(v float64) *float64 { return &v }

func TestWorkbook_RoundTrip(t *testing.T) {
	wb, err := export.NewWorkbook()
	require.NoError(t, err)

	records := []domain.FinancialRecord{
		{AsOfDate: "2025-03-31", GrossRevenue: f(2143691.98), EBITDA: f(240000), Notes: "Q1"},
		{AsOfDate: "2024-12-31", GrossRevenue: f(1980000)},
	}
	require.NoError(t, wb.WriteHistory(records))

	dscr := 2.0
	require.NoError(t, wb.WriteCoverage(&covenant.Derivation{
		DSCR:              &dscr,
		AnnualDebtService: f(120000),
		Standing:          domain.StandingMeeting,
	}))

	var buf bytes.Buffer
	require.NoError(t, wb.WriteTo(&buf))

	read, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = read.Close() }()

	header, err := read.GetCellValue("Financial History", "A1")
	require.NoError(t, err)
	assert.Equal(t, "As Of Date", header)

	first, err := read.GetCellValue("Financial History", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-31", first)

	// Missing figures stay blank, never zero.
	blank, err := read.GetCellValue("Financial History", "D3")
	require.NoError(t, err)
	assert.Empty(t, blank)

	standing, err := read.GetCellValue("Coverage Summary", "B5")
	require.NoError(t, err)
	assert.Equal(t, "meeting", standing)
}
