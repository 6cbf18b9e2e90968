package domain

import (
	"context"
	"errors"
	"time"

	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/praxislegal/praxis/internal/invoice/render"
	"github.com/praxislegal/praxis/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type CreateLineInput struct {
	Kind        LineKind            `json:"kind" binding:"required"`
	EntryID     *string             `json:"entry_id,omitempty"`
	Description string              `json:"description"`
	Amount      decimal.Decimal     `json:"amount" binding:"required"`
	Currency    currencydomain.Code `json:"currency" binding:"required"`
}

type CreateInvoiceRequest struct {
	ClientID      string              `json:"client_id" binding:"required"`
	MatterID      *string             `json:"matter_id,omitempty"`
	InvoiceDate   time.Time           `json:"invoice_date" binding:"required"`
	DueDate       time.Time           `json:"due_date" binding:"required"`
	Currency      currencydomain.Code `json:"currency" binding:"required"`
	DiscountType  *DiscountType       `json:"discount_type,omitempty"`
	DiscountValue *decimal.Decimal    `json:"discount_value,omitempty"`
	Lines         []CreateLineInput   `json:"lines"`
}

// GenerateInvoiceRequest builds an invoice from the client's approved
// timesheet entries inside a billing period.
type GenerateInvoiceRequest struct {
	ClientID      string           `json:"client_id" binding:"required"`
	MatterID      *string          `json:"matter_id,omitempty"`
	PeriodStart   time.Time        `json:"period_start" binding:"required"`
	PeriodEnd     time.Time        `json:"period_end" binding:"required"`
	DueDate       time.Time        `json:"due_date" binding:"required"`
	DiscountType  *DiscountType    `json:"discount_type,omitempty"`
	DiscountValue *decimal.Decimal `json:"discount_value,omitempty"`
}

type ListInvoiceRequest struct {
	Status          *InvoiceStatus `form:"status"`
	ClientID        *string        `form:"client_id"`
	InvoiceDateFrom *time.Time     `form:"invoice_date_from" time_format:"2006-01-02"`
	InvoiceDateTo   *time.Time     `form:"invoice_date_to" time_format:"2006-01-02"`
	DueFrom         *time.Time     `form:"due_from" time_format:"2006-01-02"`
	DueTo           *time.Time     `form:"due_to" time_format:"2006-01-02"`
	ParentsOnly     bool           `form:"parents_only"`
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

// SplitLine is one child of a split invoice as seen by the payment summary.
type SplitLine struct {
	InvoiceID   string               `json:"invoice_id"`
	FinalAmount currencydomain.Money `json:"final_amount"`
	AmountPaid  currencydomain.Money `json:"amount_paid"`
	AmountDue   currencydomain.Money `json:"amount_due"`
	Status      InvoiceStatus        `json:"status"`
}

// SplitPaymentSummary aggregates a parent invoice's children. TotalPaid and
// TotalDue are populated only when every split shares one currency.
type SplitPaymentSummary struct {
	Splits          []SplitLine           `json:"splits"`
	MixedCurrencies bool                  `json:"mixed_currencies"`
	TotalPaid       *currencydomain.Money `json:"total_paid,omitempty"`
	TotalDue        *currencydomain.Money `json:"total_due,omitempty"`
}

type GetInvoiceResponse struct {
	Invoice             Invoice              `json:"invoice"`
	Children            []Invoice            `json:"children,omitempty"`
	SplitPaymentSummary *SplitPaymentSummary `json:"split_payment_summary,omitempty"`
}

type UpdateInvoiceRequest struct {
	Status        *InvoiceStatus   `json:"status,omitempty"`
	DueDate       *time.Time       `json:"due_date,omitempty"`
	DiscountType  *DiscountType    `json:"discount_type,omitempty"`
	DiscountValue *decimal.Decimal `json:"discount_value,omitempty"`
	ClearDiscount bool             `json:"clear_discount,omitempty"`
}

// SplitAllocation is one child of a split request. Currency defaults to
// the parent's when empty.
type SplitAllocation struct {
	Amount   decimal.Decimal     `json:"amount" binding:"required"`
	Currency currencydomain.Code `json:"currency,omitempty"`
	ClientID *string             `json:"client_id,omitempty"`
}

type SplitInvoiceRequest struct {
	Allocations []SplitAllocation `json:"allocations" binding:"required"`
}

type RecordPaymentRequest struct {
	Amount    decimal.Decimal     `json:"amount" binding:"required"`
	Currency  currencydomain.Code `json:"currency" binding:"required"`
	PaidAt    *time.Time          `json:"paid_at,omitempty"`
	Method    string              `json:"method"`
	Reference string              `json:"reference"`
}

type RenderInvoiceResponse struct {
	RenderedHTML string `json:"rendered_html"`
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	Generate(context.Context, GenerateInvoiceRequest) (Invoice, error)
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (GetInvoiceResponse, error)
	Update(ctx context.Context, id string, req UpdateInvoiceRequest) (Invoice, error)
	Delete(ctx context.Context, id string) error
	Split(ctx context.Context, id string, req SplitInvoiceRequest) (GetInvoiceResponse, error)
	RecordPayment(ctx context.Context, id string, req RecordPaymentRequest) (Invoice, error)
	Render(ctx context.Context, id string) (RenderInvoiceResponse, error)
	// Document returns the section projection used by download formats.
	Document(ctx context.Context, id string) (render.Document, error)
}

var (
	ErrInvalidFirm         = errors.New("invalid_firm")
	ErrInvalidInvoiceID    = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound     = errors.New("invoice_not_found")
	ErrInvoiceNotDraft     = errors.New("invoice_not_draft")
	ErrInvalidClientID     = errors.New("invalid_client_id")
	ErrInvalidPeriod       = errors.New("invalid_billing_period")
	ErrNoBillableEntries   = errors.New("no_billable_entries")
	ErrInvalidStatus       = errors.New("invalid_invoice_status")
	ErrAlreadySplit        = errors.New("invoice_already_split")
	ErrSplitAmountMismatch = errors.New("split_amount_mismatch")
	ErrPaymentCurrency     = errors.New("payment_currency_mismatch")
	ErrOverpayment         = errors.New("payment_exceeds_balance")
	ErrInvoiceVoided       = errors.New("invoice_voided")
)
