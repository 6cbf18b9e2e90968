// Package domain contains contact person records tied to clients or leads.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Contact struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	FirmID      snowflake.ID  `gorm:"not null;index" json:"firm_id"`
	ClientID    *snowflake.ID `gorm:"index" json:"client_id,omitempty"`
	LeadID      *snowflake.ID `gorm:"index" json:"lead_id,omitempty"`
	Name        string        `gorm:"type:text;not null" json:"name"`
	Email       string        `gorm:"type:text" json:"email,omitempty"`
	Phone       string        `gorm:"type:text" json:"phone,omitempty"`
	Designation string        `gorm:"type:text" json:"designation,omitempty"`
	IsPrimary   bool          `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Contact) TableName() string { return "contacts" }
