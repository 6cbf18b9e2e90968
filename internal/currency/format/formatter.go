// Package format renders money values for display. Formatting is PURE:
// no locale state, no side effects, fully deterministic.
package format

import (
	"strings"

	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/shopspring/decimal"
)

// Amount renders an amount with grouped thousands and the currency's native
// precision (0 for JPY, 2 otherwise). Only display rounds to native
// precision; intermediate computation keeps conversion precision.
func Amount(amount decimal.Decimal, currency currencydomain.Code, showSymbol bool) string {
	precision := currency.Precision()
	fixed := amount.Round(precision)

	negative := fixed.IsNegative()
	if negative {
		fixed = fixed.Neg()
	}

	text := fixed.StringFixed(precision)
	whole, frac, hasFrac := strings.Cut(text, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	if showSymbol {
		b.WriteString(currency.Symbol())
	}
	b.WriteString(groupThousands(whole))
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// Money renders a Money value with its own currency symbol.
func Money(m currencydomain.Money) string {
	return Amount(m.Amount, m.Currency, true)
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	first := n % 3
	if first > 0 {
		b.WriteString(digits[:first])
	}
	for i := first; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
