package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type InteractionKind string

const (
	KindCall    InteractionKind = "CALL"
	KindEmail   InteractionKind = "EMAIL"
	KindMeeting InteractionKind = "MEETING"
	KindNote    InteractionKind = "NOTE"
)

func (k InteractionKind) Valid() bool {
	switch k {
	case KindCall, KindEmail, KindMeeting, KindNote:
		return true
	}
	return false
}

// Interaction is an append-only log entry against a lead or a client.
type Interaction struct {
	ID         snowflake.ID    `json:"id" gorm:"primaryKey"`
	FirmID     snowflake.ID    `json:"firm_id" gorm:"index"`
	LeadID     *snowflake.ID   `json:"lead_id,omitempty" gorm:"index"`
	ClientID   *snowflake.ID   `json:"client_id,omitempty" gorm:"index"`
	ContactID  *snowflake.ID   `json:"contact_id,omitempty"`
	Kind       InteractionKind `json:"kind"`
	Subject    string          `json:"subject"`
	Notes      string          `json:"notes"`
	OccurredAt time.Time       `json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (Interaction) TableName() string { return "interactions" }
