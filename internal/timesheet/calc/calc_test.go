package calc

import (
	"testing"

	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	timesheetdomain "github.com/praxislegal/praxis/internal/timesheet/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func rate(amount int64) *decimal.Decimal {
	d := decimal.NewFromInt(amount)
	return &d
}

func TestAmounts_TimeChargeSixHoursAt200USD(t *testing.T) {
	entry := timesheetdomain.Entry{
		BillableMinutes:    360,
		NonBillableMinutes: 30,
		HourlyRate:         rate(200),
		Currency:           currencydomain.USD,
	}

	got := Amounts(entry)
	assert.True(t, got.TimeCharge.Amount.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, currencydomain.USD, got.TimeCharge.Currency)
	assert.True(t, got.BillableHours.Equal(decimal.NewFromInt(6)))
	assert.True(t, got.NonBillableHours.Equal(decimal.NewFromFloat(0.5)))
}

func TestAmounts_ExpenseSplitAndMixedCurrencyFlag(t *testing.T) {
	entry := timesheetdomain.Entry{
		BillableMinutes: 360,
		HourlyRate:      rate(200),
		Currency:        currencydomain.USD,
		Expenses: []timesheetdomain.Expense{
			{Amount: decimal.NewFromInt(500), Included: true},
			{Amount: decimal.NewFromInt(300), Included: false},
		},
	}

	got := Amounts(entry)
	assert.True(t, got.AcceptedExpenseTotal.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, currencydomain.INR, got.AcceptedExpenseTotal.Currency)
	assert.True(t, got.RejectedExpenseTotal.Amount.Equal(decimal.NewFromInt(300)))
	assert.True(t, got.HasMixedCurrencies)

	// Non-mixing invariant: time charge and expense total stay a pair of
	// distinct currencies; the breakdown never exposes a blended scalar.
	assert.NotEqual(t, got.TimeCharge.Currency, got.AcceptedExpenseTotal.Currency)
	_, err := got.TimeCharge.Add(got.AcceptedExpenseTotal)
	assert.ErrorIs(t, err, currencydomain.ErrCurrencyMismatch)
}

func TestAmounts_INRMatterIsNotMixed(t *testing.T) {
	entry := timesheetdomain.Entry{
		BillableMinutes: 60,
		HourlyRate:      rate(1000),
		Currency:        currencydomain.INR,
		Expenses: []timesheetdomain.Expense{
			{Amount: decimal.NewFromInt(250), Included: true},
		},
	}

	got := Amounts(entry)
	assert.False(t, got.HasMixedCurrencies)
}

func TestAmounts_NoIncludedExpensesNotMixed(t *testing.T) {
	entry := timesheetdomain.Entry{
		BillableMinutes: 60,
		HourlyRate:      rate(200),
		Currency:        currencydomain.EUR,
		Expenses: []timesheetdomain.Expense{
			{Amount: decimal.NewFromInt(900), Included: false},
		},
	}

	got := Amounts(entry)
	assert.False(t, got.HasMixedCurrencies)
	assert.True(t, got.AcceptedExpenseTotal.IsZero())
}

func TestAmounts_NilRateYieldsZeroCharge(t *testing.T) {
	entry := timesheetdomain.Entry{
		BillableMinutes: 120,
		Currency:        currencydomain.GBP,
	}

	got := Amounts(entry)
	assert.True(t, got.TimeCharge.IsZero())
	assert.Equal(t, currencydomain.GBP, got.TimeCharge.Currency)
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(30, 0))
	assert.NoError(t, ValidateDuration(0, 15))
	assert.ErrorIs(t, ValidateDuration(0, 0), timesheetdomain.ErrZeroDuration)
	assert.ErrorIs(t, ValidateDuration(-10, 20), timesheetdomain.ErrNegativeMinutes)
}

func TestHours_RoundsToConversionPrecision(t *testing.T) {
	// 50 minutes = 0.8333... hours, kept at 4 decimal places.
	assert.Equal(t, "0.8333", Hours(50).String())
}
