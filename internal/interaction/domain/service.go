package domain

import (
	"context"
	"errors"
	"time"
)

type CreateInteractionRequest struct {
	LeadID     *string         `json:"lead_id,omitempty"`
	ClientID   *string         `json:"client_id,omitempty"`
	ContactID  *string         `json:"contact_id,omitempty"`
	Kind       InteractionKind `json:"kind" binding:"required"`
	Subject    string          `json:"subject" binding:"required"`
	Notes      string          `json:"notes"`
	OccurredAt *time.Time      `json:"occurred_at,omitempty"`
}

type ListInteractionRequest struct {
	LeadID   string `form:"lead_id"`
	ClientID string `form:"client_id"`
	Limit    int    `form:"limit"`
}

type Service interface {
	Create(ctx context.Context, req CreateInteractionRequest) (Interaction, error)
	List(ctx context.Context, req ListInteractionRequest) ([]Interaction, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidFirm    = errors.New("invalid_firm")
	ErrInvalidID      = errors.New("invalid_interaction_id")
	ErrInvalidKind    = errors.New("invalid_interaction_kind")
	ErrInvalidSubject = errors.New("invalid_subject")
	ErrMissingTarget  = errors.New("interaction_target_required")
	ErrNotFound       = errors.New("interaction_not_found")
)
