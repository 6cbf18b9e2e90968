// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states. OVERDUE is derived at
// read time and never persisted by the derivation step.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusSent          InvoiceStatus = "SENT"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	InvoiceStatusOverdue       InvoiceStatus = "OVERDUE"
	InvoiceStatusVoid          InvoiceStatus = "VOID"
)

// DiscountType selects how the discount value is applied to the subtotal.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Invoice represents a bill for a client, optionally scoped to one matter.
// Split children reference their parent; a parent's own amounts are the sum
// of its children only when all children share a currency.
type Invoice struct {
	ID            snowflake.ID        `gorm:"primaryKey" json:"id"`
	FirmID        snowflake.ID        `gorm:"not null;index" json:"firm_id"`
	InvoiceNumber string              `gorm:"type:text;not null;uniqueIndex:ux_invoice_number" json:"invoice_number"`
	ClientID      snowflake.ID        `gorm:"not null;index" json:"client_id"`
	MatterID      *snowflake.ID       `gorm:"index" json:"matter_id,omitempty"`
	InvoiceDate   time.Time           `gorm:"not null" json:"invoice_date"`
	DueDate       time.Time           `gorm:"not null;index" json:"due_date"`
	Subtotal      decimal.Decimal     `gorm:"type:decimal(16,4);not null;default:0" json:"subtotal"`
	DiscountType  *DiscountType       `gorm:"type:text" json:"discount_type,omitempty"`
	DiscountValue *decimal.Decimal    `gorm:"type:decimal(16,4)" json:"discount_value,omitempty"`
	FinalAmount   decimal.Decimal     `gorm:"type:decimal(16,4);not null;default:0" json:"final_amount"`
	AmountPaid    decimal.Decimal     `gorm:"type:decimal(16,4);not null;default:0" json:"amount_paid"`
	Currency      currencydomain.Code `gorm:"type:text;not null" json:"currency"`
	Status        InvoiceStatus       `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
	IsParent      bool                `gorm:"not null;default:false" json:"is_parent"`
	ParentID      *snowflake.ID       `gorm:"index" json:"parent_id,omitempty"`
	Metadata      datatypes.JSONMap   `gorm:"type:jsonb" json:"metadata,omitempty"`
	Lines         []InvoiceLine       `gorm:"foreignKey:InvoiceID" json:"lines,omitempty"`
	CreatedAt     time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// FinalMoney returns the invoice total as Money.
func (i Invoice) FinalMoney() currencydomain.Money {
	return currencydomain.New(i.FinalAmount, i.Currency)
}

// RemainingAmount is finalAmount - amountPaid for a non-split invoice.
func (i Invoice) RemainingAmount() currencydomain.Money {
	return currencydomain.New(i.FinalAmount.Sub(i.AmountPaid), i.Currency)
}

type LineKind string

const (
	LineKindTimeCharge LineKind = "TIME_CHARGE"
	LineKindExpense    LineKind = "EXPENSE"
)

// InvoiceLine is one billed item, either a time charge or an included
// expense. Lines carry their own currency: a multi-matter invoice may hold
// lines in several currencies, aggregated per currency and never blended.
type InvoiceLine struct {
	ID          snowflake.ID        `gorm:"primaryKey" json:"id"`
	FirmID      snowflake.ID        `gorm:"not null;index" json:"firm_id"`
	InvoiceID   snowflake.ID        `gorm:"not null;index" json:"invoice_id"`
	EntryID     *snowflake.ID       `gorm:"index" json:"entry_id,omitempty"`
	Kind        LineKind            `gorm:"type:text;not null" json:"kind"`
	Description string              `gorm:"type:text" json:"description"`
	Amount      decimal.Decimal     `gorm:"type:decimal(16,4);not null" json:"amount"`
	Currency    currencydomain.Code `gorm:"type:text;not null" json:"currency"`
	CreatedAt   time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceLine) TableName() string { return "invoice_lines" }

// Payment is one received payment against an invoice.
type Payment struct {
	ID        snowflake.ID        `gorm:"primaryKey" json:"id"`
	FirmID    snowflake.ID        `gorm:"not null;index" json:"firm_id"`
	InvoiceID snowflake.ID        `gorm:"not null;index" json:"invoice_id"`
	Amount    decimal.Decimal     `gorm:"type:decimal(16,4);not null" json:"amount"`
	Currency  currencydomain.Code `gorm:"type:text;not null" json:"currency"`
	PaidAt    time.Time           `gorm:"not null" json:"paid_at"`
	Method    string              `gorm:"type:text" json:"method,omitempty"`
	Reference string              `gorm:"type:text" json:"reference,omitempty"`
	CreatedAt time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "invoice_payments" }
