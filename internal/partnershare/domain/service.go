package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ShareInput is one partner's allocation in a replace-all set call.
type ShareInput struct {
	UserID      string          `json:"user_id" binding:"required"`
	PartnerName string          `json:"partner_name"`
	Percentage  decimal.Decimal `json:"percentage" binding:"required"`
}

type SetSharesRequest struct {
	Shares []ShareInput `json:"shares" binding:"required"`
}

type Service interface {
	// Set replaces the full share set for an invoice.
	Set(ctx context.Context, invoiceID string, req SetSharesRequest) ([]PartnerShare, error)
	List(ctx context.Context, invoiceID string) ([]PartnerShare, error)
	// Report computes per-share amounts against the invoice final amount.
	Report(ctx context.Context, invoiceID string) (Report, error)
}

var (
	ErrInvalidFirm       = errors.New("invalid_firm")
	ErrInvalidInvoiceID  = errors.New("invalid_invoice_id")
	ErrInvalidUser       = errors.New("invalid_user")
	ErrInvalidPercentage = errors.New("invalid_percentage")
	ErrInvoiceNotFound   = errors.New("invoice_not_found")
)
