package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/praxislegal/praxis/internal/config"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

type Service struct {
	log     *zap.Logger
	baseURL string
	client  *http.Client
}

func New(p Params) currencydomain.Service {
	timeout := time.Duration(p.Cfg.RatesTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		log:     p.Log.Named("currency.service"),
		baseURL: p.Cfg.RatesBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *Service) Convert(ctx context.Context, req currencydomain.ConvertRequest) (currencydomain.ConvertResponse, error) {
	if !currencydomain.IsSupported(req.From) || !currencydomain.IsSupported(req.To) {
		return currencydomain.ConvertResponse{}, currencydomain.ErrUnsupportedCurrency
	}

	// Identity conversion is free and never touches the provider.
	if req.From == req.To {
		return currencydomain.ConvertResponse{
			ConvertedAmount: req.Amount,
			Rate:            decimal.NewFromInt(1),
		}, nil
	}

	quote, err := s.Rate(ctx, req.From, req.To)
	if err != nil {
		return currencydomain.ConvertResponse{}, err
	}

	return currencydomain.ConvertResponse{
		ConvertedAmount: req.Amount.Mul(quote.Rate).Round(currencydomain.ConversionPrecision),
		Rate:            quote.Rate,
	}, nil
}

func (s *Service) Rate(ctx context.Context, from, to currencydomain.Code) (currencydomain.ExchangeRate, error) {
	if !currencydomain.IsSupported(from) || !currencydomain.IsSupported(to) {
		return currencydomain.ExchangeRate{}, currencydomain.ErrUnsupportedCurrency
	}

	endpoint := fmt.Sprintf("%s/rate?%s", s.baseURL, url.Values{
		"from": {string(from)},
		"to":   {string(to)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return currencydomain.ExchangeRate{}, fmt.Errorf("%w: %v", currencydomain.ErrConversionFailed, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("rate lookup failed",
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(err),
		)
		return currencydomain.ExchangeRate{}, fmt.Errorf("%w: %v", currencydomain.ErrConversionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return currencydomain.ExchangeRate{}, fmt.Errorf("%w: provider returned %d", currencydomain.ErrConversionFailed, resp.StatusCode)
	}

	var payload struct {
		Rate decimal.Decimal `json:"rate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return currencydomain.ExchangeRate{}, fmt.Errorf("%w: %v", currencydomain.ErrConversionFailed, err)
	}

	quote := currencydomain.ExchangeRate{
		From: from,
		To:   to,
		Rate: payload.Rate,
		AsOf: time.Now().UTC(),
	}
	if !quote.Valid() {
		return currencydomain.ExchangeRate{}, currencydomain.ErrInvalidRate
	}

	return quote, nil
}

func (s *Service) ConvertOffline(amount currencydomain.Money, to currencydomain.Code, table currencydomain.RateTable) (currencydomain.Money, bool) {
	if amount.Currency == to {
		return amount, true
	}

	rate, ok := table[amount.Currency]
	if !ok || !rate.IsPositive() {
		// Fallback-to-unconverted: display paths prefer a wrong-currency
		// figure plus a warning over an absent one. Callers gate totals on
		// ValidateRateTable.
		return amount, false
	}

	return currencydomain.Money{
		Amount:   amount.Amount.Mul(rate).Round(currencydomain.ConversionPrecision),
		Currency: to,
	}, true
}

func (s *Service) SupportedCurrencies() []currencydomain.CurrencyInfo {
	codes := currencydomain.Supported()
	out := make([]currencydomain.CurrencyInfo, 0, len(codes))
	for _, code := range codes {
		out = append(out, currencydomain.CurrencyInfo{
			Code:      code,
			Symbol:    code.Symbol(),
			Precision: code.Precision(),
		})
	}
	return out
}
