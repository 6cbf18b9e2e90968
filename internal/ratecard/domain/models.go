// Package domain contains persistence models for hourly rate cards.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/shopspring/decimal"
)

// RateCard is a time-bounded hourly-rate range for a user performing a given
// service type. Min and max share one currency.
type RateCard struct {
	ID            snowflake.ID          `gorm:"primaryKey" json:"id"`
	FirmID        snowflake.ID          `gorm:"not null;index" json:"firm_id"`
	UserID        snowflake.ID          `gorm:"not null;index" json:"user_id"`
	ServiceType   string                `gorm:"type:text;not null;index" json:"service_type"`
	MinRate       decimal.Decimal       `gorm:"type:decimal(14,4);not null" json:"min_rate"`
	MaxRate       decimal.Decimal       `gorm:"type:decimal(14,4);not null" json:"max_rate"`
	Currency      currencydomain.Code   `gorm:"type:text;not null" json:"currency"`
	EffectiveDate time.Time             `gorm:"not null" json:"effective_date"`
	EndDate       *time.Time            `gorm:"" json:"end_date,omitempty"`
	IsActive      bool                  `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time             `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time             `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (RateCard) TableName() string { return "rate_cards" }

// MinMoney returns the lower bound as Money.
func (c RateCard) MinMoney() currencydomain.Money {
	return currencydomain.New(c.MinRate, c.Currency)
}

// MaxMoney returns the upper bound as Money.
func (c RateCard) MaxMoney() currencydomain.Money {
	return currencydomain.New(c.MaxRate, c.Currency)
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DeriveActive applies the activation rule: no end date means active, an end
// date strictly before today means inactive, today-or-future means active.
func DeriveActive(endDate *time.Time, now time.Time) bool {
	if endDate == nil {
		return true
	}
	return !DateOnly(*endDate).Before(DateOnly(now))
}

// Reconcile re-derives IsActive from the end date. Applied lazily at the read
// boundary; the caller persists the flip when Changed is true.
func Reconcile(card RateCard, now time.Time) (out RateCard, changed bool) {
	active := DeriveActive(card.EndDate, now)
	if card.IsActive == active {
		return card, false
	}
	card.IsActive = active
	return card, true
}
