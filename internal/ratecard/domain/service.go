package domain

import (
	"context"
	"errors"
	"time"

	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/shopspring/decimal"
)

type CreateRateCardRequest struct {
	UserID        string              `json:"user_id"`
	ServiceType   string              `json:"service_type"`
	MinRate       decimal.Decimal     `json:"min_rate"`
	MaxRate       decimal.Decimal     `json:"max_rate"`
	Currency      currencydomain.Code `json:"currency"`
	EffectiveDate time.Time           `json:"effective_date"`
	EndDate       *time.Time          `json:"end_date,omitempty"`
}

// UpdateRateCardRequest carries inline edits. Nil fields are untouched;
// ClearEndDate distinguishes "clear the end date" from "leave it alone".
type UpdateRateCardRequest struct {
	MinRate      *decimal.Decimal `json:"min_rate,omitempty"`
	MaxRate      *decimal.Decimal `json:"max_rate,omitempty"`
	EndDate      *time.Time       `json:"end_date,omitempty"`
	ClearEndDate bool             `json:"clear_end_date,omitempty"`
	IsActive     *bool            `json:"is_active,omitempty"`
}

type ListRateCardRequest struct {
	UserID      string
	ServiceType string
}

type ListRateCardResponse struct {
	RateCards []RateCard `json:"rate_cards"`
}

// ResolveRateRequest asks for the rate range effective for a user and service
// type on a given date.
type ResolveRateRequest struct {
	UserID      string
	ServiceType string
	Date        time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRateCardRequest) (RateCard, error)
	// List reconciles end-dated cards on read and persists any flips.
	List(ctx context.Context, req ListRateCardRequest) (ListRateCardResponse, error)
	GetByID(ctx context.Context, id string) (RateCard, error)
	Update(ctx context.Context, id string, req UpdateRateCardRequest) (RateCard, error)
	Delete(ctx context.Context, id string) error
	Resolve(ctx context.Context, req ResolveRateRequest) (RateCard, error)
}

var (
	ErrInvalidFirm        = errors.New("invalid_firm")
	ErrInvalidUser        = errors.New("invalid_user")
	ErrInvalidServiceType = errors.New("invalid_service_type")
	ErrInvalidRateRange   = errors.New("invalid_rate_range")
	ErrInvalidCurrency    = errors.New("invalid_currency")
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("rate_card_not_found")
	ErrNoEffectiveRate    = errors.New("no_effective_rate")
)
