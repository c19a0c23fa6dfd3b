package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lenflow/internal/domain"
	"lenflow/internal/extraction"
	"lenflow/internal/normalize"
)

func incomePayload() *extraction.Payload {
	return &extraction.Payload{
		DocumentKind: "financial-income-statement",
		Fields: []extraction.Field{
			{Name: "total_income", Value: "$2,143,691.98"},
			{Name: "net_income", Value: "$1,545,862.15"},
			{Name: "net_operating_income", Value: "$1,687,210.00"},
			{Name: "report_period", Value: "January - March, 2025"},
		},
		Tables: []extraction.Table{
			{
				Name: "Operating Expenses",
				Rows: []extraction.Row{
					{Label: "Rent expense", Amount: "$12,000.00"},
					{Label: "Equipment rent", Amount: "$3,000.00"},
					{Label: "Current portion of rent payable", Amount: "$1,500.00"},
					{Label: "Salaries", Amount: "$250,000.00"},
				},
			},
		},
	}
}

func TestIncomeStatement_FullPayload(t *testing.T) {
	got := normalize.IncomeStatement(incomePayload(), fixedNow)
	require.NotNil(t, got)

	assert.Equal(t, "2143691.98", got.GrossRevenue)
	assert.Equal(t, "1545862.15", got.NetIncome)
	assert.Equal(t, "1687210", got.EBITDA)
	assert.Equal(t, "72.11", got.ProfitMargin)
	assert.Equal(t, "15000", got.RentalExpenses)
	assert.Equal(t, "2025-03-31", got.AsOfDate)
}

func TestIncomeStatement_GrossProfitFallback(t *testing.T) {
	p := &extraction.Payload{
		Fields: []extraction.Field{
			{Name: "gross_profit", Value: "500,000"},
		},
	}
	got := normalize.IncomeStatement(p, fixedNow)
	require.NotNil(t, got)
	assert.Equal(t, "500000", got.GrossRevenue)
	assert.Empty(t, got.ProfitMargin)
}

func TestIncomeStatement_NoMarginWhenGrossZero(t *testing.T) {
	p := &extraction.Payload{
		Fields: []extraction.Field{
			{Name: "total_income", Value: "0"},
			{Name: "net_income", Value: "-50,000"},
		},
	}
	got := normalize.IncomeStatement(p, fixedNow)
	require.NotNil(t, got)
	assert.Empty(t, got.ProfitMargin)
	assert.Equal(t, "-50000", got.NetIncome)
}

func TestIncomeStatement_NoSignalReturnsNil(t *testing.T) {
	p := &extraction.Payload{
		Fields: []extraction.Field{
			{Name: "report_period", Value: "July-September, 2025"},
			{Name: "total_income", Value: "n/a"},
		},
	}
	assert.Nil(t, normalize.IncomeStatement(p, fixedNow))
}

func TestIncomeStatement_Idempotent(t *testing.T) {
	first := normalize.IncomeStatement(incomePayload(), fixedNow)
	second := normalize.IncomeStatement(incomePayload(), fixedNow)
	assert.Equal(t, first, second)
}

func balancePayload() *extraction.Payload {
	return &extraction.Payload{
		DocumentKind: "financial-balance-sheet",
		Fields: []extraction.Field{
			{Name: "total_current_assets", Value: "$2,143,691.98"},
			{Name: "total_current_liabilities", Value: "$1,100,000"},
			{Name: "total_equity", Value: "$1,545,862.15"},
			{Name: "report_date", Value: "March 31, 2025"},
		},
		Tables: []extraction.Table{
			{
				Name: "Cash Accounts",
				Rows: []extraction.Row{
					{Label: "Operating account", Amount: "$400,000"},
					{Label: "Savings", Amount: "$100,000"},
				},
			},
			{
				Name: "Accounts_Receivable Aging",
				Rows: []extraction.Row{
					{Label: "0-30 days", Amount: "$250,000"},
					{Label: "31-60 days", Amount: "$50,000"},
				},
			},
		},
	}
}

func TestBalanceSheet_FullPayload(t *testing.T) {
	got := normalize.BalanceSheet(balancePayload())
	require.NotNil(t, got)

	assert.Equal(t, "2143691.98", got.TotalCurrentAssets)
	assert.Equal(t, "1100000", got.TotalCurrentLiabilities)
	assert.Equal(t, "1545862.15", got.Equity)
	assert.Equal(t, "500000", got.Cash)
	assert.Equal(t, "300000", got.AccountsReceivable)
	assert.Empty(t, got.AccountsPayable)
	assert.Equal(t, "2025-03-31", got.AsOfDate)
}

func TestBalanceSheet_InventoryDefaultsToZero(t *testing.T) {
	got := normalize.BalanceSheet(balancePayload())
	require.NotNil(t, got)
	assert.Equal(t, "0", got.Inventory)
}

func TestBalanceSheet_InvalidDateOmitted(t *testing.T) {
	p := balancePayload()
	p.Fields[3].Value = "end of fiscal quarter"
	got := normalize.BalanceSheet(p)
	require.NotNil(t, got)
	assert.Empty(t, got.AsOfDate)
}

func TestBalanceSheet_NoSignalReturnsNil(t *testing.T) {
	got := normalize.BalanceSheet(&extraction.Payload{
		Fields: []extraction.Field{{Name: "report_date", Value: "March 31, 2025"}},
	})
	// No inventory default either: nil means nothing to merge.
	assert.Nil(t, got)
}

func TestPersonalFinancialStatement_CategoryTotals(t *testing.T) {
	p := &extraction.Payload{
		DocumentKind: "personal-financial-statement",
		Fields: []extraction.Field{
			{Name: "assets_category_total", Value: "$5,000,000"},
			{Name: "liability_category_total", Value: "$2,000,000"},
			{Name: "net_worth", Value: "$3,000,000"},
			{Name: "statement_date", Value: "2025-06-30"},
		},
		Tables: []extraction.Table{
			{
				Name: "Cash in Banks",
				Rows: []extraction.Row{
					{Label: "Checking", Amount: "$80,000"},
					{Label: "Money market", Amount: "$120,000"},
				},
			},
		},
	}
	got := normalize.PersonalFinancialStatement(p)
	require.NotNil(t, got)

	assert.Equal(t, "5000000", got.TotalAssets)
	assert.Equal(t, "2000000", got.TotalLiabilities)
	assert.Equal(t, "3000000", got.NetWorth)
	assert.Equal(t, "200000", got.Liquidity)
	assert.Equal(t, "2025-06-30", got.AsOfDate)
}

func TestPersonalFinancialStatement_TotalFallbacks(t *testing.T) {
	p := &extraction.Payload{
		Fields: []extraction.Field{
			{Name: "total_assets", Value: "1,000,000"},
			{Name: "total_liabilities", Value: "400,000"},
		},
	}
	got := normalize.PersonalFinancialStatement(p)
	require.NotNil(t, got)
	assert.Equal(t, "1000000", got.TotalAssets)
	assert.Equal(t, "400000", got.TotalLiabilities)
}

func TestPersonalFinancialStatement_NoSignalReturnsNil(t *testing.T) {
	assert.Nil(t, normalize.PersonalFinancialStatement(&extraction.Payload{}))
}

func TestFields_DispatchAndKindCheck(t *testing.T) {
	got, err := normalize.Fields(domain.DocTypeIncomeStatement, incomePayload(), fixedNow)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2143691.98", got.GrossRevenue)
}

func TestFields_MismatchedKindRejected(t *testing.T) {
	p := incomePayload()
	p.DocumentKind = "financial-balance-sheet"

	got, err := normalize.Fields(domain.DocTypeIncomeStatement, p, fixedNow)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrUnrecognizedPayload)
}

func TestFields_EmptyKindTolerated(t *testing.T) {
	p := incomePayload()
	p.DocumentKind = ""

	got, err := normalize.Fields(domain.DocTypeIncomeStatement, p, fixedNow)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestFields_NonExtractableType(t *testing.T) {
	got, err := normalize.Fields(domain.DocTypeDebtServiceWorksheet, &extraction.Payload{}, fixedNow)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentType)
}

func TestFields_NilPayloadRejected(t *testing.T) {
	got, err := normalize.Fields(domain.DocTypeBalanceSheet, nil, fixedNow)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrUnrecognizedPayload)
}
