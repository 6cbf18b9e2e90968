// Package domain contains the money and exchange-rate model shared by every
// billing component.
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Code is a supported ISO currency code.
type Code string

const (
	INR Code = "INR"
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
	AED Code = "AED"
	JPY Code = "JPY"
)

// MaxSaneRate bounds exchange rates against corrupted provider data.
var MaxSaneRate = decimal.NewFromInt(10000)

// ConversionPrecision is the number of decimal places kept by intermediate
// conversions. Display rounding to the currency's native precision happens
// only at format time so chained conversions do not compound rounding error.
const ConversionPrecision = 4

var (
	ErrCurrencyMismatch    = errors.New("currency_mismatch")
	ErrUnsupportedCurrency = errors.New("unsupported_currency")
	ErrInvalidRate         = errors.New("invalid_rate")
	ErrConversionFailed    = errors.New("conversion_failed")
)

type currencyInfo struct {
	symbol    string
	precision int32
}

var currencies = map[Code]currencyInfo{
	INR: {symbol: "₹", precision: 2},
	USD: {symbol: "$", precision: 2},
	EUR: {symbol: "€", precision: 2},
	GBP: {symbol: "£", precision: 2},
	AED: {symbol: "د.إ", precision: 2},
	JPY: {symbol: "¥", precision: 0},
}

// Supported returns the closed set of supported currencies in stable order.
func Supported() []Code {
	return []Code{INR, USD, EUR, GBP, AED, JPY}
}

// IsSupported reports whether code is in the supported set.
func IsSupported(code Code) bool {
	_, ok := currencies[code]
	return ok
}

// Symbol returns the display symbol for the currency.
func (c Code) Symbol() string {
	return currencies[c].symbol
}

// Precision returns the currency's native number of decimal places.
func (c Code) Precision() int32 {
	return currencies[c].precision
}

// Money is an amount bound to a currency. Amounts of differing currencies are
// never implicitly combined; Add returns an error on mismatch.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Code            `json:"currency"`
}

// New creates a Money value.
func New(amount decimal.Decimal, currency Code) Money {
	return Money{Amount: amount, Currency: currency}
}

// Zero returns a zero amount in the given currency.
func Zero(currency Code) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add sums two amounts of the same currency. Mixing currencies is a program
// error surfaced as ErrCurrencyMismatch, never a silent coercion.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub subtracts an amount of the same currency.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// Mul scales the amount by a factor.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}

func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }

// ExchangeRate is a single from/to quote.
type ExchangeRate struct {
	From Code            `json:"from"`
	To   Code            `json:"to"`
	Rate decimal.Decimal `json:"rate"`
	AsOf time.Time       `json:"as_of"`
}

// Valid reports whether the quoted rate passes the sanity bounds.
func (r ExchangeRate) Valid() bool {
	return r.Rate.IsPositive() && r.Rate.LessThanOrEqual(MaxSaneRate)
}

// RateTable maps a source currency to the rate converting it into a fixed
// target currency. Tables are valid for a single computation session only.
type RateTable map[Code]decimal.Decimal

// ValidateRateTable checks every entry against the sanity bounds. Callers
// must validate before trusting ConvertOffline output for financial totals.
func ValidateRateTable(table RateTable) error {
	for code, rate := range table {
		if !IsSupported(code) {
			return ErrUnsupportedCurrency
		}
		if !rate.IsPositive() || rate.GreaterThan(MaxSaneRate) {
			return ErrInvalidRate
		}
	}
	return nil
}
