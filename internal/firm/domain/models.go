package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Firm is the tenant boundary. Every other record carries its FirmID.
type Firm struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Slug      string       `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Firm) TableName() string { return "firms" }
