// Package domain contains client and matter records. A matter is a single
// engagement under a client and fixes the billing currency for its
// timesheet entries.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
)

// ClientType distinguishes corporate from individual clients.
type ClientType string

const (
	ClientTypeCompany    ClientType = "COMPANY"
	ClientTypeIndividual ClientType = "INDIVIDUAL"
)

// ClientStatus is the lifecycle state of a client record.
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "ACTIVE"
	ClientStatusInactive ClientStatus = "INACTIVE"
)

type Client struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	FirmID    snowflake.ID `gorm:"not null;index" json:"firm_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Type      ClientType   `gorm:"type:text;not null;default:'COMPANY'" json:"type"`
	Email     string       `gorm:"type:text" json:"email,omitempty"`
	Phone     string       `gorm:"type:text" json:"phone,omitempty"`
	Address   string       `gorm:"type:text" json:"address,omitempty"`
	City      string       `gorm:"type:text" json:"city,omitempty"`
	State     string       `gorm:"type:text" json:"state,omitempty"`
	Country   string       `gorm:"type:text" json:"country,omitempty"`
	GSTIN     string       `gorm:"type:text" json:"gstin,omitempty"`
	LeadID    *snowflake.ID `gorm:"index" json:"lead_id,omitempty"`
	Status    ClientStatus `gorm:"type:text;not null;default:'ACTIVE'" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

// MatterStatus is the lifecycle state of a matter.
type MatterStatus string

const (
	MatterStatusOpen   MatterStatus = "OPEN"
	MatterStatusClosed MatterStatus = "CLOSED"
)

type Matter struct {
	ID        snowflake.ID        `gorm:"primaryKey" json:"id"`
	FirmID    snowflake.ID        `gorm:"not null;index" json:"firm_id"`
	ClientID  snowflake.ID        `gorm:"not null;index" json:"client_id"`
	Title     string              `gorm:"type:text;not null" json:"title"`
	Currency  currencydomain.Code `gorm:"type:text;not null;default:'INR'" json:"currency"`
	Status    MatterStatus        `gorm:"type:text;not null;default:'OPEN'" json:"status"`
	CreatedAt time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time           `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Matter) TableName() string { return "matters" }
