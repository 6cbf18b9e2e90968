// Package domain contains persistence models for timesheet entries and their
// expenses.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/shopspring/decimal"
)

// EntryStatus represents timesheet entry lifecycle states.
type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "DRAFT"
	EntryStatusSubmitted EntryStatus = "SUBMITTED"
	EntryStatusApproved  EntryStatus = "APPROVED"
	EntryStatusRejected  EntryStatus = "REJECTED"
)

// ExpenseStatus is the approval state of a recorded expense, distinct from
// the manual inclusion flag.
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "PENDING"
	ExpenseStatusApproved ExpenseStatus = "APPROVED"
	ExpenseStatusRejected ExpenseStatus = "REJECTED"
)

// Entry is a logged unit of work against a matter. CalculatedAmount is in
// the matter's currency; expense amounts are always INR.
type Entry struct {
	ID                 snowflake.ID        `gorm:"primaryKey" json:"id"`
	FirmID             snowflake.ID        `gorm:"not null;index" json:"firm_id"`
	UserID             snowflake.ID        `gorm:"not null;index" json:"user_id"`
	ClientID           snowflake.ID        `gorm:"index" json:"client_id"`
	MatterID           snowflake.ID        `gorm:"not null;index" json:"matter_id"`
	WorkDate           time.Time           `gorm:"not null;index" json:"work_date"`
	BillableMinutes    int                 `gorm:"not null;default:0" json:"billable_minutes"`
	NonBillableMinutes int                 `gorm:"not null;default:0" json:"non_billable_minutes"`
	ActivityType       string              `gorm:"type:text" json:"activity_type"`
	HourlyRate         *decimal.Decimal    `gorm:"type:decimal(14,4)" json:"hourly_rate,omitempty"`
	Currency           currencydomain.Code `gorm:"type:text;not null" json:"currency"`
	CalculatedAmount   *decimal.Decimal    `gorm:"type:decimal(16,4)" json:"calculated_amount,omitempty"`
	Status             EntryStatus         `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
	Expenses           []Expense           `gorm:"foreignKey:EntryID" json:"expenses,omitempty"`
	CreatedAt          time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "timesheet_entries" }

// TotalMinutes is the logged duration regardless of billability.
func (e Entry) TotalMinutes() int {
	return e.BillableMinutes + e.NonBillableMinutes
}

// RateMoney returns the hourly rate as Money when set.
func (e Entry) RateMoney() (currencydomain.Money, bool) {
	if e.HourlyRate == nil {
		return currencydomain.Money{}, false
	}
	return currencydomain.New(*e.HourlyRate, e.Currency), true
}

// Expense is an out-of-pocket cost attached to an entry. Amounts are always
// recorded in INR regardless of the matter currency.
type Expense struct {
	ID          snowflake.ID          `gorm:"primaryKey" json:"id"`
	FirmID      snowflake.ID          `gorm:"not null;index" json:"firm_id"`
	EntryID     snowflake.ID          `gorm:"not null;index" json:"entry_id"`
	Category    string                `gorm:"type:text;not null" json:"category"`
	SubCategory string                `gorm:"type:text" json:"sub_category,omitempty"`
	Description string                `gorm:"type:text" json:"description"`
	Amount      decimal.Decimal       `gorm:"type:decimal(16,4);not null" json:"amount"`
	Vendor      string                `gorm:"type:text" json:"vendor,omitempty"`
	Included    bool                  `gorm:"not null;default:false" json:"expense_included"`
	Status      ExpenseStatus         `gorm:"type:text;not null;default:'PENDING'" json:"status"`
	CreatedAt   time.Time             `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time             `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Expense) TableName() string { return "timesheet_expenses" }

// Money returns the expense amount in INR.
func (x Expense) Money() currencydomain.Money {
	return currencydomain.New(x.Amount, currencydomain.INR)
}
