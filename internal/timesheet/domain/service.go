package domain

import (
	"context"
	"errors"
	"time"

	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/shopspring/decimal"
)

type CreateEntryRequest struct {
	UserID             string               `json:"user_id"`
	ClientID           string               `json:"client_id,omitempty"`
	MatterID           string               `json:"matter_id"`
	WorkDate           time.Time            `json:"work_date"`
	BillableMinutes    int                  `json:"billable_minutes"`
	NonBillableMinutes int                  `json:"non_billable_minutes"`
	ActivityType       string               `json:"activity_type"`
	HourlyRate         *decimal.Decimal     `json:"hourly_rate,omitempty"`
	Currency           currencydomain.Code  `json:"currency"`
	Expenses           []CreateExpenseInput `json:"expenses,omitempty"`
}

type CreateExpenseInput struct {
	Category    string          `json:"category"`
	SubCategory string          `json:"sub_category,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Vendor      string          `json:"vendor,omitempty"`
	Included    bool            `json:"expense_included"`
}

type ListEntryRequest struct {
	UserID   string
	MatterID string
	DateFrom *time.Time
	DateTo   *time.Time
	Status   *EntryStatus
}

type ListEntryResponse struct {
	Entries []Entry `json:"entries"`
}

// ExpenseInclusionUpdate is one element of the bulk inclusion PUT.
type ExpenseInclusionUpdate struct {
	ExpenseID string `json:"expense_id"`
	Included  bool   `json:"included"`
}

type Service interface {
	Create(ctx context.Context, req CreateEntryRequest) (Entry, error)
	List(ctx context.Context, req ListEntryRequest) (ListEntryResponse, error)
	GetByID(ctx context.Context, id string) (Entry, error)
	// Approve and Reject require the approval capability.
	Approve(ctx context.Context, id string) (Entry, error)
	Reject(ctx context.Context, id string) (Entry, error)
	// SetExpenseInclusion applies a bulk list of {expenseId, included}
	// tuples to one entry in a single update.
	SetExpenseInclusion(ctx context.Context, entryID string, updates []ExpenseInclusionUpdate) (Entry, error)
}

var (
	ErrInvalidFirm      = errors.New("invalid_firm")
	ErrInvalidUser      = errors.New("invalid_user")
	ErrInvalidMatter    = errors.New("invalid_matter")
	ErrInvalidID        = errors.New("invalid_id")
	ErrZeroDuration     = errors.New("zero_duration_entry")
	ErrNegativeMinutes  = errors.New("negative_minutes")
	ErrInvalidCurrency  = errors.New("invalid_currency")
	ErrRateOutOfRange   = errors.New("rate_out_of_range")
	ErrNotFound         = errors.New("timesheet_entry_not_found")
	ErrExpenseNotFound  = errors.New("expense_not_found")
	ErrApprovalDenied   = errors.New("approval_denied")
	ErrInvalidExpense   = errors.New("invalid_expense")
)
