// Package calc derives billable amounts from timesheet entries.
//
// Functions here are PURE:
// - No side effects
// - No DB access
// - Fully deterministic
package calc

import (
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	timesheetdomain "github.com/praxislegal/praxis/internal/timesheet/domain"
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// Breakdown is the derived money view of a single entry. TimeCharge is in
// the matter's currency; expense totals are always INR. The two are never
// combined here: HasMixedCurrencies tells consumers they must either render
// the pair separately or run an explicit rate-validated conversion first.
type Breakdown struct {
	BillableHours        decimal.Decimal     `json:"billable_hours"`
	NonBillableHours     decimal.Decimal     `json:"non_billable_hours"`
	TimeCharge           currencydomain.Money `json:"time_charge"`
	AcceptedExpenseTotal currencydomain.Money `json:"accepted_expense_total"`
	RejectedExpenseTotal currencydomain.Money `json:"rejected_expense_total"`
	HasMixedCurrencies   bool                 `json:"has_mixed_currencies"`
}

// Hours converts logged minutes into an hour value at conversion precision.
func Hours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).
		Div(minutesPerHour).
		Round(currencydomain.ConversionPrecision)
}

// TimeCharge multiplies billable hours by the hourly rate, in the rate's
// currency.
func TimeCharge(billableMinutes int, hourlyRate currencydomain.Money) currencydomain.Money {
	return currencydomain.New(
		Hours(billableMinutes).Mul(hourlyRate.Amount).Round(currencydomain.ConversionPrecision),
		hourlyRate.Currency,
	)
}

// Amounts derives the full breakdown for an entry. Zero-duration entries are
// rejected at save time; this assumes a non-zero duration.
func Amounts(entry timesheetdomain.Entry) Breakdown {
	out := Breakdown{
		BillableHours:        Hours(entry.BillableMinutes),
		NonBillableHours:     Hours(entry.NonBillableMinutes),
		TimeCharge:           currencydomain.Zero(entry.Currency),
		AcceptedExpenseTotal: currencydomain.Zero(currencydomain.INR),
		RejectedExpenseTotal: currencydomain.Zero(currencydomain.INR),
	}

	if rate, ok := entry.RateMoney(); ok {
		out.TimeCharge = TimeCharge(entry.BillableMinutes, rate)
	}

	for _, expense := range entry.Expenses {
		if expense.Included {
			out.AcceptedExpenseTotal.Amount = out.AcceptedExpenseTotal.Amount.Add(expense.Amount)
		} else {
			// Tracked for audit visibility only; never part of a total.
			out.RejectedExpenseTotal.Amount = out.RejectedExpenseTotal.Amount.Add(expense.Amount)
		}
	}

	out.HasMixedCurrencies = entry.Currency != currencydomain.INR &&
		out.AcceptedExpenseTotal.Amount.IsPositive()

	return out
}

// ValidateDuration enforces the non-zero duration invariant.
func ValidateDuration(billableMinutes, nonBillableMinutes int) error {
	if billableMinutes < 0 || nonBillableMinutes < 0 {
		return timesheetdomain.ErrNegativeMinutes
	}
	if billableMinutes+nonBillableMinutes <= 0 {
		return timesheetdomain.ErrZeroDuration
	}
	return nil
}
