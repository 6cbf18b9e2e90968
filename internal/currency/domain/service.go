package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type ConvertRequest struct {
	Amount decimal.Decimal `json:"amount"`
	From   Code            `json:"from"`
	To     Code            `json:"to"`
}

type ConvertResponse struct {
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
	Rate            decimal.Decimal `json:"rate"`
}

// CurrencyInfo is the wire shape for the supported-currency listing.
type CurrencyInfo struct {
	Code      Code   `json:"code"`
	Symbol    string `json:"symbol"`
	Precision int32  `json:"precision"`
}

type Service interface {
	// Convert performs a live conversion. Identity conversions short-circuit
	// without a remote call.
	Convert(ctx context.Context, req ConvertRequest) (ConvertResponse, error)
	// Rate fetches the current from→to quote.
	Rate(ctx context.Context, from, to Code) (ExchangeRate, error)
	// ConvertOffline converts with a caller-supplied table. A missing rate
	// returns the original amount with converted=false rather than an error
	// so display paths never render an absent value.
	ConvertOffline(amount Money, to Code, table RateTable) (result Money, converted bool)
	// SupportedCurrencies lists the closed currency set.
	SupportedCurrencies() []CurrencyInfo
}
