package aggregate

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	invoicedomain "github.com/praxislegal/praxis/internal/invoice/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(kind invoicedomain.LineKind, amount string, currency currencydomain.Code) invoicedomain.InvoiceLine {
	return invoicedomain.InvoiceLine{
		Kind:     kind,
		Amount:   decimal.RequireFromString(amount),
		Currency: currency,
	}
}

func TestSubtotalsGroupsByCurrency(t *testing.T) {
	lines := []invoicedomain.InvoiceLine{
		line(invoicedomain.LineKindTimeCharge, "1200", currencydomain.USD),
		line(invoicedomain.LineKindTimeCharge, "800", currencydomain.USD),
		line(invoicedomain.LineKindTimeCharge, "5000", currencydomain.INR),
		line(invoicedomain.LineKindExpense, "500", currencydomain.INR),
	}

	buckets := Subtotals(lines)
	require.Len(t, buckets, 2)

	assert.Equal(t, currencydomain.INR, buckets[0].Currency)
	assert.Equal(t, "5000", buckets[0].TimeCharges.String())
	assert.Equal(t, "500", buckets[0].ExpenseTotal.String())
	assert.Equal(t, "5500", buckets[0].Subtotal.String())

	assert.Equal(t, currencydomain.USD, buckets[1].Currency)
	assert.Equal(t, "2000", buckets[1].Subtotal.String())
	assert.True(t, buckets[1].ExpenseTotal.IsZero())
}

func TestSubtotalsEmpty(t *testing.T) {
	assert.Empty(t, Subtotals(nil))
}

func TestApplyDiscountPercentage(t *testing.T) {
	subtotal := currencydomain.New(decimal.NewFromInt(10000), currencydomain.INR)

	discountAmount, finalAmount, err := ApplyDiscount(subtotal, &Discount{
		Type:  invoicedomain.DiscountTypePercentage,
		Value: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	assert.Equal(t, "1000", discountAmount.Amount.String())
	assert.Equal(t, "9000", finalAmount.Amount.String())
	assert.Equal(t, currencydomain.INR, finalAmount.Currency)
}

func TestApplyDiscountFixed(t *testing.T) {
	subtotal := currencydomain.New(decimal.NewFromInt(10000), currencydomain.INR)

	discountAmount, finalAmount, err := ApplyDiscount(subtotal, &Discount{
		Type:  invoicedomain.DiscountTypeFixed,
		Value: decimal.NewFromInt(2500),
	})
	require.NoError(t, err)

	assert.Equal(t, "2500", discountAmount.Amount.String())
	assert.Equal(t, "7500", finalAmount.Amount.String())
}

func TestApplyDiscountNil(t *testing.T) {
	subtotal := currencydomain.New(decimal.NewFromInt(10000), currencydomain.INR)

	discountAmount, finalAmount, err := ApplyDiscount(subtotal, nil)
	require.NoError(t, err)
	assert.True(t, discountAmount.IsZero())
	assert.Equal(t, subtotal, finalAmount)
}

func TestApplyDiscountNegativeFinalRejected(t *testing.T) {
	subtotal := currencydomain.New(decimal.NewFromInt(1000), currencydomain.INR)

	_, _, err := ApplyDiscount(subtotal, &Discount{
		Type:  invoicedomain.DiscountTypeFixed,
		Value: decimal.NewFromInt(1500),
	})
	assert.ErrorIs(t, err, ErrNegativeFinalAmount)
}

func TestApplyDiscountFullySubsumedIsZeroNotError(t *testing.T) {
	subtotal := currencydomain.New(decimal.NewFromInt(1000), currencydomain.INR)

	_, finalAmount, err := ApplyDiscount(subtotal, &Discount{
		Type:  invoicedomain.DiscountTypePercentage,
		Value: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.True(t, finalAmount.IsZero())
}

func TestApplyDiscountNegativeValueRejected(t *testing.T) {
	subtotal := currencydomain.New(decimal.NewFromInt(1000), currencydomain.INR)

	_, _, err := ApplyDiscount(subtotal, &Discount{
		Type:  invoicedomain.DiscountTypePercentage,
		Value: decimal.NewFromInt(-5),
	})
	assert.ErrorIs(t, err, ErrInvalidDiscountValue)
}

func split(id int64, final, paid string, currency currencydomain.Code) invoicedomain.Invoice {
	return invoicedomain.Invoice{
		ID:          snowflake.ID(id),
		FinalAmount: decimal.RequireFromString(final),
		AmountPaid:  decimal.RequireFromString(paid),
		Currency:    currency,
		Status:      invoicedomain.InvoiceStatusSent,
	}
}

func TestSummarizeSplitsUniformCurrency(t *testing.T) {
	children := []invoicedomain.Invoice{
		split(1, "6000", "6000", currencydomain.INR),
		split(2, "4000", "1000", currencydomain.INR),
	}

	summary := SummarizeSplits(children)
	require.Len(t, summary.Splits, 2)
	assert.False(t, summary.MixedCurrencies)

	require.NotNil(t, summary.TotalPaid)
	assert.Equal(t, "7000", summary.TotalPaid.Amount.String())
	require.NotNil(t, summary.TotalDue)
	assert.Equal(t, "3000", summary.TotalDue.Amount.String())
	assert.Equal(t, "3000", summary.Splits[1].AmountDue.Amount.String())
}

func TestSummarizeSplitsMixedCurrenciesRefusesBlendedTotal(t *testing.T) {
	children := []invoicedomain.Invoice{
		split(1, "6000", "6000", currencydomain.INR),
		split(2, "100", "50", currencydomain.USD),
	}

	summary := SummarizeSplits(children)
	assert.True(t, summary.MixedCurrencies)
	assert.Nil(t, summary.TotalPaid)
	assert.Nil(t, summary.TotalDue)
	assert.Equal(t, "50", summary.Splits[1].AmountDue.Amount.String())
}

func TestDeriveStatusOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	inv := invoicedomain.Invoice{
		Status:  invoicedomain.InvoiceStatusSent,
		DueDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, invoicedomain.InvoiceStatusOverdue, DeriveStatus(inv, now))

	inv.DueDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, invoicedomain.InvoiceStatusSent, DeriveStatus(inv, now))
}

func TestDeriveStatusTerminalStatesUntouched(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	past := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	paid := invoicedomain.Invoice{Status: invoicedomain.InvoiceStatusPaid, DueDate: past}
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, DeriveStatus(paid, now))

	void := invoicedomain.Invoice{Status: invoicedomain.InvoiceStatusVoid, DueDate: past}
	assert.Equal(t, invoicedomain.InvoiceStatusVoid, DeriveStatus(void, now))
}
