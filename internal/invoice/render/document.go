// Package render projects a fully-resolved invoice into a structured
// multi-section document and an HTML (Word-compatible) rendition of it.
package render

import (
	"fmt"
	"sort"
	"time"

	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	currencyformat "github.com/praxislegal/praxis/internal/currency/format"
	invoiceformat "github.com/praxislegal/praxis/internal/invoice/format"
	"github.com/shopspring/decimal"
)

// SectionKind identifies one of the seven fixed document sections.
type SectionKind string

const (
	SectionCoverLetter    SectionKind = "cover_letter"
	SectionInvoiceDetail  SectionKind = "invoice_detail"
	SectionTimesheet      SectionKind = "itemized_timesheet"
	SectionFeeSummary     SectionKind = "fee_summary"
	SectionExpenses       SectionKind = "itemized_expenses"
	SectionPartnerSplit   SectionKind = "partner_split"
	SectionOverallSummary SectionKind = "overall_summary"
)

const textPlaceholder = "-"

// Table is a rendered grid. Cells are pre-formatted strings; money cells
// already carry their own currency symbol and precision.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Section is one logical page of the document. A section with no source
// data still renders, with Empty set and Placeholder holding the message.
type Section struct {
	Kind        SectionKind `json:"kind"`
	Title       string      `json:"title"`
	Paragraphs  []string    `json:"paragraphs,omitempty"`
	Tables      []Table     `json:"tables,omitempty"`
	Empty       bool        `json:"empty"`
	Placeholder string      `json:"placeholder,omitempty"`
}

// Document is the renderer output: seven sections in fixed order.
type Document struct {
	InvoiceNumber string    `json:"invoice_number"`
	ClientName    string    `json:"client_name"`
	Sections      []Section `json:"sections"`
}

// TimesheetLine is one timesheet entry as seen by the document.
type TimesheetLine struct {
	WorkDate      time.Time
	LawyerName    string
	ActivityType  string
	Description   string
	BillableHours decimal.Decimal
	Amount        currencydomain.Money
}

// LawyerFee is one row of the per-lawyer fee summary.
type LawyerFee struct {
	LawyerName string
	Hours      decimal.Decimal
	Amount     currencydomain.Money
}

// ExpenseLine is one itemized expense row. Amounts are INR.
type ExpenseLine struct {
	Date        time.Time
	Category    string
	Description string
	Vendor      string
	Amount      currencydomain.Money
}

// PartnerShareLine is one row of the partner split table.
type PartnerShareLine struct {
	PartnerName string
	Percentage  decimal.Decimal
	Amount      currencydomain.Money
}

// PaymentLine is one recorded payment against the invoice.
type PaymentLine struct {
	PaidAt    time.Time
	Method    string
	Reference string
	Amount    currencydomain.Money
}

// Data is the fully-resolved input to Render. All joins are done by the
// caller; the renderer performs formatting and grouping only.
type Data struct {
	InvoiceNumber string
	ClientName    string
	ClientAddress string
	MatterTitle   string
	InvoiceDate   time.Time
	DueDate       time.Time
	Status        string

	Currency       currencydomain.Code
	Subtotal       currencydomain.Money
	DiscountAmount *currencydomain.Money
	FinalAmount    currencydomain.Money
	AmountPaid     currencydomain.Money

	TimesheetEntries []TimesheetLine
	Fees             []LawyerFee
	Expenses         []ExpenseLine
	PartnerShares    []PartnerShareLine
	Payments         []PaymentLine

	FirmName string
}

// Render builds the seven-section document from resolved invoice data.
//
// This function is PURE and best-effort:
// - No side effects
// - No DB access
// - Never fails; missing fields render as placeholders
func Render(data Data) Document {
	number := data.InvoiceNumber
	if number == "" {
		number = invoiceformat.PlaceholderInvoiceNumber
	}
	client := data.ClientName
	if client == "" {
		client = textPlaceholder
	}

	doc := Document{
		InvoiceNumber: number,
		ClientName:    client,
	}
	doc.Sections = []Section{
		coverLetterSection(data, number, client),
		invoiceDetailSection(data, number, client),
		timesheetSection(data.TimesheetEntries),
		feeSummarySection(data.Fees),
		expensesSection(data.Expenses),
		partnerSplitSection(data.PartnerShares),
		overallSummarySection(data),
	}
	return doc
}

func coverLetterSection(data Data, number, client string) Section {
	firm := data.FirmName
	if firm == "" {
		firm = textPlaceholder
	}
	matter := data.MatterTitle
	if matter == "" {
		matter = textPlaceholder
	}
	return Section{
		Kind:  SectionCoverLetter,
		Title: "Cover Letter",
		Paragraphs: []string{
			fmt.Sprintf("Dear %s,", client),
			fmt.Sprintf("Please find enclosed our invoice %s dated %s in the matter of %s.", number, formatDate(data.InvoiceDate), matter),
			fmt.Sprintf("Payment is due by %s. We would appreciate settlement of this invoice at your earliest convenience.", formatDate(data.DueDate)),
			fmt.Sprintf("Yours sincerely,\n%s", firm),
		},
	}
}

func invoiceDetailSection(data Data, number, client string) Section {
	discount := textPlaceholder
	if data.DiscountAmount != nil && !data.DiscountAmount.IsZero() {
		discount = currencyformat.Money(*data.DiscountAmount)
	}
	return Section{
		Kind:  SectionInvoiceDetail,
		Title: "Invoice Detail",
		Tables: []Table{{
			Headers: []string{"Field", "Value"},
			Rows: [][]string{
				{"Invoice Number", number},
				{"Bill To", client},
				{"Address", orDash(data.ClientAddress)},
				{"Matter", orDash(data.MatterTitle)},
				{"Invoice Date", formatDate(data.InvoiceDate)},
				{"Due Date", formatDate(data.DueDate)},
				{"Subtotal", currencyformat.Money(data.Subtotal)},
				{"Discount", discount},
				{"Total Due", currencyformat.Money(data.FinalAmount)},
			},
		}},
	}
}

// timesheetSection groups entries by calendar date, sorts the dates
// ascending, and preserves input order inside each day. The day subtotal
// row is formatted in the currency of that day's first entry.
func timesheetSection(entries []TimesheetLine) Section {
	section := Section{
		Kind:  SectionTimesheet,
		Title: "Itemized Timesheet",
	}
	if len(entries) == 0 {
		section.Empty = true
		section.Placeholder = "No timesheet entries for this period."
		return section
	}

	byDay := make(map[string][]TimesheetLine)
	for _, entry := range entries {
		key := entry.WorkDate.Format("2006-01-02")
		byDay[key] = append(byDay[key], entry)
	}
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	table := Table{
		Headers: []string{"Date", "Lawyer", "Activity", "Description", "Hours", "Amount"},
	}
	for _, day := range days {
		group := byDay[day]
		dayTotal := decimal.Zero
		dayCurrency := group[0].Amount.Currency
		for _, entry := range group {
			table.Rows = append(table.Rows, []string{
				day,
				orDash(entry.LawyerName),
				orDash(entry.ActivityType),
				orDash(entry.Description),
				entry.BillableHours.StringFixed(2),
				currencyformat.Money(entry.Amount),
			})
			dayTotal = dayTotal.Add(entry.Amount.Amount)
		}
		table.Rows = append(table.Rows, []string{
			"", "", "", "Subtotal for " + day, "",
			currencyformat.Amount(dayTotal, dayCurrency, true),
		})
	}
	section.Tables = []Table{table}
	return section
}

func feeSummarySection(fees []LawyerFee) Section {
	section := Section{
		Kind:  SectionFeeSummary,
		Title: "Fee Summary",
	}
	if len(fees) == 0 {
		section.Empty = true
		section.Placeholder = "No professional fees for this period."
		return section
	}

	table := Table{Headers: []string{"Lawyer", "Hours", "Amount"}}
	totals := make(map[currencydomain.Code]decimal.Decimal)
	order := make([]currencydomain.Code, 0, 2)
	for _, fee := range fees {
		table.Rows = append(table.Rows, []string{
			orDash(fee.LawyerName),
			fee.Hours.StringFixed(2),
			currencyformat.Money(fee.Amount),
		})
		if _, seen := totals[fee.Amount.Currency]; !seen {
			order = append(order, fee.Amount.Currency)
		}
		totals[fee.Amount.Currency] = totals[fee.Amount.Currency].Add(fee.Amount.Amount)
	}
	for _, code := range order {
		table.Rows = append(table.Rows, []string{
			"Grand Total", "", currencyformat.Amount(totals[code], code, true),
		})
	}
	section.Tables = []Table{table}
	return section
}

func expensesSection(expenses []ExpenseLine) Section {
	section := Section{
		Kind:  SectionExpenses,
		Title: "Itemized Expenses",
	}
	if len(expenses) == 0 {
		section.Empty = true
		section.Placeholder = "No reimbursable expenses for this period."
		return section
	}

	table := Table{Headers: []string{"Date", "Category", "Description", "Vendor", "Amount"}}
	totals := make(map[currencydomain.Code]decimal.Decimal)
	order := make([]currencydomain.Code, 0, 1)
	for _, expense := range expenses {
		table.Rows = append(table.Rows, []string{
			formatDate(expense.Date),
			orDash(expense.Category),
			orDash(expense.Description),
			orDash(expense.Vendor),
			currencyformat.Money(expense.Amount),
		})
		if _, seen := totals[expense.Amount.Currency]; !seen {
			order = append(order, expense.Amount.Currency)
		}
		totals[expense.Amount.Currency] = totals[expense.Amount.Currency].Add(expense.Amount.Amount)
	}
	for _, code := range order {
		table.Rows = append(table.Rows, []string{
			"", "", "", "Total (" + string(code) + ")",
			currencyformat.Amount(totals[code], code, true),
		})
	}
	section.Tables = []Table{table}
	return section
}

func partnerSplitSection(shares []PartnerShareLine) Section {
	section := Section{
		Kind:  SectionPartnerSplit,
		Title: "Partner Split",
	}
	if len(shares) == 0 {
		section.Empty = true
		section.Placeholder = "No partner shares recorded for this invoice."
		return section
	}

	table := Table{Headers: []string{"Partner", "Percentage", "Amount"}}
	totalPct := decimal.Zero
	for _, share := range shares {
		table.Rows = append(table.Rows, []string{
			orDash(share.PartnerName),
			share.Percentage.StringFixed(2) + "%",
			currencyformat.Money(share.Amount),
		})
		totalPct = totalPct.Add(share.Percentage)
	}
	table.Rows = append(table.Rows, []string{
		"Total", totalPct.StringFixed(2) + "%", "",
	})
	section.Tables = []Table{table}
	return section
}

func overallSummarySection(data Data) Section {
	remaining := data.FinalAmount.Amount.Sub(data.AmountPaid.Amount)
	summary := Table{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Status", orDash(data.Status)},
			{"Subtotal", currencyformat.Money(data.Subtotal)},
			{"Total Due", currencyformat.Money(data.FinalAmount)},
			{"Amount Paid", currencyformat.Money(data.AmountPaid)},
			{"Balance", currencyformat.Amount(remaining, data.FinalAmount.Currency, true)},
		},
	}

	section := Section{
		Kind:   SectionOverallSummary,
		Title:  "Summary",
		Tables: []Table{summary},
	}

	if len(data.Payments) == 0 {
		section.Paragraphs = []string{"No payments recorded."}
		return section
	}
	history := Table{Headers: []string{"Date", "Method", "Reference", "Amount"}}
	for _, payment := range data.Payments {
		history.Rows = append(history.Rows, []string{
			formatDate(payment.PaidAt),
			orDash(payment.Method),
			orDash(payment.Reference),
			currencyformat.Money(payment.Amount),
		})
	}
	section.Tables = append(section.Tables, history)
	return section
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return textPlaceholder
	}
	return value.UTC().Format("2006-01-02")
}

func orDash(value string) string {
	if value == "" {
		return textPlaceholder
	}
	return value
}
