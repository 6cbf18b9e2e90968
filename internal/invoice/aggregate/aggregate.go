// Package aggregate combines billable lines into invoice totals.
//
// Functions here are PURE:
// - No side effects
// - No DB access
// - Fully deterministic
package aggregate

import (
	"errors"
	"sort"
	"time"

	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	invoicedomain "github.com/praxislegal/praxis/internal/invoice/domain"
	ratecarddomain "github.com/praxislegal/praxis/internal/ratecard/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeFinalAmount  = errors.New("negative_final_amount")
	ErrInvalidDiscountValue = errors.New("invalid_discount_value")
)

// Bucket is the per-currency subtotal of a set of lines. Multi-currency
// invoices aggregate into one bucket per currency, never one scalar.
type Bucket struct {
	Currency     currencydomain.Code `json:"currency"`
	TimeCharges  decimal.Decimal     `json:"time_charges"`
	ExpenseTotal decimal.Decimal     `json:"expense_total"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
}

// Subtotals groups lines by currency in stable (alphabetical) order.
func Subtotals(lines []invoicedomain.InvoiceLine) []Bucket {
	byCurrency := make(map[currencydomain.Code]*Bucket)
	for _, line := range lines {
		bucket, ok := byCurrency[line.Currency]
		if !ok {
			bucket = &Bucket{Currency: line.Currency}
			byCurrency[line.Currency] = bucket
		}
		switch line.Kind {
		case invoicedomain.LineKindExpense:
			bucket.ExpenseTotal = bucket.ExpenseTotal.Add(line.Amount)
		default:
			bucket.TimeCharges = bucket.TimeCharges.Add(line.Amount)
		}
		bucket.Subtotal = bucket.Subtotal.Add(line.Amount)
	}

	out := make([]Bucket, 0, len(byCurrency))
	for _, bucket := range byCurrency {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

// Discount is a percentage or fixed reduction of the subtotal.
type Discount struct {
	Type  invoicedomain.DiscountType `json:"type"`
	Value decimal.Decimal            `json:"value"`
}

var hundred = decimal.NewFromInt(100)

// ApplyDiscount computes the discount amount and the final total. A discount
// exceeding the subtotal is a validation error, not a clamp to zero.
func ApplyDiscount(subtotal currencydomain.Money, discount *Discount) (discountAmount, finalAmount currencydomain.Money, err error) {
	if discount == nil {
		return currencydomain.Zero(subtotal.Currency), subtotal, nil
	}
	if discount.Value.IsNegative() {
		return currencydomain.Money{}, currencydomain.Money{}, ErrInvalidDiscountValue
	}

	var amount decimal.Decimal
	switch discount.Type {
	case invoicedomain.DiscountTypePercentage:
		amount = subtotal.Amount.Mul(discount.Value).Div(hundred).Round(currencydomain.ConversionPrecision)
	case invoicedomain.DiscountTypeFixed:
		amount = discount.Value
	default:
		return currencydomain.Money{}, currencydomain.Money{}, ErrInvalidDiscountValue
	}

	final := subtotal.Amount.Sub(amount)
	if final.IsNegative() {
		return currencydomain.Money{}, currencydomain.Money{}, ErrNegativeFinalAmount
	}

	return currencydomain.New(amount, subtotal.Currency),
		currencydomain.New(final, subtotal.Currency),
		nil
}

// SummarizeSplits derives each split's amount due and, for currency-uniform
// splits, the parent-level paid/due totals. With mixed currencies the
// summary exposes per-split figures and refuses to produce a blended scalar.
func SummarizeSplits(children []invoicedomain.Invoice) invoicedomain.SplitPaymentSummary {
	summary := invoicedomain.SplitPaymentSummary{Splits: make([]invoicedomain.SplitLine, 0, len(children))}
	if len(children) == 0 {
		return summary
	}

	uniform := children[0].Currency
	for _, child := range children {
		if child.Currency != uniform {
			summary.MixedCurrencies = true
		}
		summary.Splits = append(summary.Splits, invoicedomain.SplitLine{
			InvoiceID:   child.ID.String(),
			FinalAmount: child.FinalMoney(),
			AmountPaid:  currencydomain.New(child.AmountPaid, child.Currency),
			AmountDue:   child.RemainingAmount(),
			Status:      child.Status,
		})
	}

	if summary.MixedCurrencies {
		return summary
	}

	paid := decimal.Zero
	due := decimal.Zero
	for _, split := range summary.Splits {
		paid = paid.Add(split.AmountPaid.Amount)
		due = due.Add(split.AmountDue.Amount)
	}
	totalPaid := currencydomain.New(paid, uniform)
	totalDue := currencydomain.New(due, uniform)
	summary.TotalPaid = &totalPaid
	summary.TotalDue = &totalDue
	return summary
}

// DeriveStatus reclassifies a non-terminal invoice to OVERDUE when its due
// date has passed. Applied at the read boundary for display; the stored
// status is not mutated by this derivation.
func DeriveStatus(invoice invoicedomain.Invoice, now time.Time) invoicedomain.InvoiceStatus {
	switch invoice.Status {
	case invoicedomain.InvoiceStatusPaid, invoicedomain.InvoiceStatusVoid:
		return invoice.Status
	}
	if ratecarddomain.DateOnly(invoice.DueDate).Before(ratecarddomain.DateOnly(now)) {
		return invoicedomain.InvoiceStatusOverdue
	}
	return invoice.Status
}
