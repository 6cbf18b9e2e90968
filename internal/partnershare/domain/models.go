// Package domain contains partner revenue-share records and their
// computation rules.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/shopspring/decimal"
)

// PartnerShare assigns a percentage of an invoice's final amount to a
// partner. Shares are independent records; their percentages are not
// required to sum to 100.
type PartnerShare struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	FirmID      snowflake.ID    `gorm:"not null;index" json:"firm_id"`
	InvoiceID   snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	UserID      snowflake.ID    `gorm:"not null;index" json:"user_id"`
	PartnerName string          `gorm:"type:text" json:"partner_name"`
	Percentage  decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"percentage"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (PartnerShare) TableName() string { return "partner_shares" }

var hundred = decimal.NewFromInt(100)

// ImpliedAmount is the share's cut of the invoice final amount, in the
// invoice's currency.
func (s PartnerShare) ImpliedAmount(finalAmount currencydomain.Money) currencydomain.Money {
	amount := finalAmount.Amount.Mul(s.Percentage).Div(hundred).Round(currencydomain.ConversionPrecision)
	return currencydomain.New(amount, finalAmount.Currency)
}

// ComputedShare is a share with its derived amount.
type ComputedShare struct {
	PartnerShare
	Amount currencydomain.Money `json:"amount"`
}

// Report is the distribution of one invoice's final amount. TotalPercentage
// may be below or above 100; that is reported, not rejected.
type Report struct {
	Shares          []ComputedShare      `json:"shares"`
	TotalPercentage decimal.Decimal      `json:"total_percentage"`
	TotalAmount     currencydomain.Money `json:"total_amount"`
}

// Compute derives per-share amounts against an invoice final amount.
func Compute(finalAmount currencydomain.Money, shares []PartnerShare) Report {
	report := Report{
		Shares:      make([]ComputedShare, 0, len(shares)),
		TotalAmount: currencydomain.Zero(finalAmount.Currency),
	}
	for _, share := range shares {
		amount := share.ImpliedAmount(finalAmount)
		report.Shares = append(report.Shares, ComputedShare{PartnerShare: share, Amount: amount})
		report.TotalPercentage = report.TotalPercentage.Add(share.Percentage)
		report.TotalAmount = currencydomain.New(report.TotalAmount.Amount.Add(amount.Amount), finalAmount.Currency)
	}
	return report
}
