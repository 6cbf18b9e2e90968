package format

import (
	"testing"

	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	cases := []struct {
		name     string
		amount   decimal.Decimal
		currency currencydomain.Code
		symbol   bool
		want     string
	}{
		{"usd grouping", decimal.NewFromFloat(1234567.891), currencydomain.USD, true, "$1,234,567.89"},
		{"inr", decimal.NewFromInt(9000), currencydomain.INR, true, "₹9,000.00"},
		{"jpy zero precision", decimal.NewFromFloat(1234.56), currencydomain.JPY, true, "¥1,235"},
		{"no symbol", decimal.NewFromFloat(42.5), currencydomain.EUR, false, "42.50"},
		{"negative", decimal.NewFromFloat(-1500.25), currencydomain.GBP, true, "-£1,500.25"},
		{"small", decimal.NewFromFloat(0.5), currencydomain.USD, true, "$0.50"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Amount(tc.amount, tc.currency, tc.symbol))
		})
	}
}

func TestMoney(t *testing.T) {
	m := currencydomain.New(decimal.NewFromFloat(200.5), currencydomain.AED)
	assert.Equal(t, "د.إ200.50", Money(m))
}
