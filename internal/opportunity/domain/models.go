package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/shopspring/decimal"
)

type OpportunityStage string

const (
	StageProspecting OpportunityStage = "PROSPECTING"
	StageProposal    OpportunityStage = "PROPOSAL"
	StageNegotiation OpportunityStage = "NEGOTIATION"
	StageWon         OpportunityStage = "WON"
	StageLost        OpportunityStage = "LOST"
)

func (s OpportunityStage) Valid() bool {
	switch s {
	case StageProspecting, StageProposal, StageNegotiation, StageWon, StageLost:
		return true
	}
	return false
}

type Opportunity struct {
	ID                snowflake.ID        `json:"id" gorm:"primaryKey"`
	FirmID            snowflake.ID        `json:"firm_id" gorm:"index"`
	ClientID          *snowflake.ID       `json:"client_id,omitempty" gorm:"index"`
	LeadID            *snowflake.ID       `json:"lead_id,omitempty" gorm:"index"`
	Title             string              `json:"title"`
	Stage             OpportunityStage    `json:"stage" gorm:"index"`
	EstimatedValue    decimal.Decimal     `json:"estimated_value" gorm:"type:decimal(20,4)"`
	Currency          currencydomain.Code `json:"currency"`
	ExpectedCloseDate *time.Time          `json:"expected_close_date,omitempty"`
	Notes             string              `json:"notes"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

func (Opportunity) TableName() string { return "opportunities" }
