package render

import (
	"strings"
	"testing"
	"time"

	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(amount string, currency currencydomain.Code) currencydomain.Money {
	return currencydomain.New(decimal.RequireFromString(amount), currency)
}

func baseData() Data {
	return Data{
		InvoiceNumber: "INV-2025-26-0042",
		ClientName:    "Acme Industries Pvt Ltd",
		MatterTitle:   "Acme v. Zenith Arbitration",
		FirmName:      "Mehta & Associates",
		InvoiceDate:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:        "SENT",
		Currency:      currencydomain.INR,
		Subtotal:      money("10000", currencydomain.INR),
		FinalAmount:   money("9000", currencydomain.INR),
		AmountPaid:    money("0", currencydomain.INR),
	}
}

func TestRenderAllSectionsPresentWithNoData(t *testing.T) {
	doc := Render(baseData())

	require.Len(t, doc.Sections, 7)
	kinds := []SectionKind{
		SectionCoverLetter, SectionInvoiceDetail, SectionTimesheet,
		SectionFeeSummary, SectionExpenses, SectionPartnerSplit,
		SectionOverallSummary,
	}
	for i, kind := range kinds {
		assert.Equal(t, kind, doc.Sections[i].Kind)
	}

	assert.True(t, doc.Sections[2].Empty)
	assert.Equal(t, "No timesheet entries for this period.", doc.Sections[2].Placeholder)
	assert.True(t, doc.Sections[3].Empty)
	assert.True(t, doc.Sections[4].Empty)
	assert.True(t, doc.Sections[5].Empty)
	assert.Contains(t, doc.Sections[6].Paragraphs, "No payments recorded.")
}

func TestRenderMissingRequiredFieldsSubstitutesPlaceholders(t *testing.T) {
	doc := Render(Data{Currency: currencydomain.INR})

	assert.Equal(t, "INV-XXXX", doc.InvoiceNumber)
	assert.Equal(t, "-", doc.ClientName)

	detail := doc.Sections[1]
	require.Len(t, detail.Tables, 1)
	assert.Equal(t, []string{"Invoice Number", "INV-XXXX"}, detail.Tables[0].Rows[0])
	assert.Equal(t, []string{"Bill To", "-"}, detail.Tables[0].Rows[1])
	assert.Equal(t, []string{"Invoice Date", "-"}, detail.Tables[0].Rows[4])
}

func TestRenderTimesheetGroupsByDateWithDaySubtotals(t *testing.T) {
	data := baseData()
	day1 := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	data.TimesheetEntries = []TimesheetLine{
		{WorkDate: day2, LawyerName: "R. Iyer", BillableHours: decimal.NewFromInt(2), Amount: money("400", currencydomain.USD)},
		{WorkDate: day1, LawyerName: "A. Mehta", BillableHours: decimal.NewFromInt(3), Amount: money("15000", currencydomain.INR)},
		{WorkDate: day1, LawyerName: "R. Iyer", BillableHours: decimal.NewFromInt(1), Amount: money("5000", currencydomain.INR)},
	}

	section := Render(data).Sections[2]
	require.Len(t, section.Tables, 1)
	rows := section.Tables[0].Rows
	require.Len(t, rows, 5)

	// Earlier day first; input order kept inside the day.
	assert.Equal(t, "2026-02-03", rows[0][0])
	assert.Equal(t, "A. Mehta", rows[0][1])
	assert.Equal(t, "R. Iyer", rows[1][1])

	// Day subtotal in the day's first-entry currency.
	assert.Equal(t, "Subtotal for 2026-02-03", rows[2][3])
	assert.Equal(t, "₹20,000.00", rows[2][5])

	assert.Equal(t, "2026-02-10", rows[3][0])
	assert.Equal(t, "$400.00", rows[4][5])
}

func TestRenderExpensesPerCurrencyTotals(t *testing.T) {
	data := baseData()
	data.Expenses = []ExpenseLine{
		{Category: "Travel", Amount: money("1200", currencydomain.INR)},
		{Category: "Filing", Amount: money("800", currencydomain.INR)},
	}

	section := Render(data).Sections[4]
	rows := section.Tables[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "Total (INR)", rows[2][3])
	assert.Equal(t, "₹2,000.00", rows[2][4])
}

func TestRenderPartnerSplitReportsTotalPercentage(t *testing.T) {
	data := baseData()
	data.PartnerShares = []PartnerShareLine{
		{PartnerName: "A. Mehta", Percentage: decimal.NewFromInt(60), Amount: money("600", currencydomain.INR)},
		{PartnerName: "S. Rao", Percentage: decimal.NewFromInt(50), Amount: money("500", currencydomain.INR)},
	}

	section := Render(data).Sections[5]
	rows := section.Tables[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "110.00%", rows[2][1])
}

func TestRenderForeignCurrencyCellsKeepOwnSymbol(t *testing.T) {
	data := baseData()
	data.Fees = []LawyerFee{
		{LawyerName: "A. Mehta", Hours: decimal.NewFromInt(6), Amount: money("1200", currencydomain.USD)},
		{LawyerName: "S. Rao", Hours: decimal.NewFromInt(4), Amount: money("20000", currencydomain.INR)},
	}

	section := Render(data).Sections[3]
	rows := section.Tables[0].Rows
	require.Len(t, rows, 4)
	assert.Equal(t, "$1,200.00", rows[0][2])
	assert.Equal(t, "₹20,000.00", rows[1][2])

	// One grand-total row per currency, never a blended scalar.
	assert.Equal(t, "Grand Total", rows[2][0])
	assert.Equal(t, "$1,200.00", rows[2][2])
	assert.Equal(t, "₹20,000.00", rows[3][2])
}

func TestHTMLRendererProducesAllSections(t *testing.T) {
	data := baseData()
	data.Payments = []PaymentLine{
		{PaidAt: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), Method: "WIRE", Amount: money("4000", currencydomain.INR)},
	}

	html, err := NewRenderer().RenderHTML(Render(data))
	require.NoError(t, err)

	for _, title := range []string{
		"Cover Letter", "Invoice Detail", "Itemized Timesheet",
		"Fee Summary", "Itemized Expenses", "Partner Split", "Summary",
	} {
		assert.Contains(t, html, title)
	}
	assert.Contains(t, html, "INV-2025-26-0042")
	assert.Equal(t, 7, strings.Count(html, `<div class="page">`))
}
