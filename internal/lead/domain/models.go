package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusContacted LeadStatus = "CONTACTED"
	LeadStatusQualified LeadStatus = "QUALIFIED"
	LeadStatusConverted LeadStatus = "CONVERTED"
	LeadStatusLost      LeadStatus = "LOST"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

type Lead struct {
	ID         snowflake.ID  `json:"id" gorm:"primaryKey"`
	FirmID     snowflake.ID  `json:"firm_id" gorm:"index"`
	Name       string        `json:"name"`
	Company    string        `json:"company"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone"`
	Source     string        `json:"source"`
	Status     LeadStatus    `json:"status" gorm:"index"`
	AssignedTo *snowflake.ID `json:"assigned_to,omitempty"`
	Notes      string        `json:"notes"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (Lead) TableName() string { return "leads" }
