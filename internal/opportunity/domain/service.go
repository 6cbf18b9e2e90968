package domain

import (
	"context"
	"errors"
	"time"

	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/shopspring/decimal"
)

type CreateOpportunityRequest struct {
	ClientID          *string             `json:"client_id,omitempty"`
	LeadID            *string             `json:"lead_id,omitempty"`
	Title             string              `json:"title" binding:"required"`
	EstimatedValue    decimal.Decimal     `json:"estimated_value"`
	Currency          currencydomain.Code `json:"currency"`
	ExpectedCloseDate *time.Time          `json:"expected_close_date,omitempty"`
	Notes             string              `json:"notes"`
}

type UpdateOpportunityRequest struct {
	Title             *string           `json:"title,omitempty"`
	Stage             *OpportunityStage `json:"stage,omitempty"`
	EstimatedValue    *decimal.Decimal  `json:"estimated_value,omitempty"`
	ExpectedCloseDate *time.Time        `json:"expected_close_date,omitempty"`
	Notes             *string           `json:"notes,omitempty"`
}

type ListOpportunityRequest struct {
	Stage    OpportunityStage `form:"stage"`
	ClientID string           `form:"client_id"`
	LeadID   string           `form:"lead_id"`
}

type Service interface {
	Create(ctx context.Context, req CreateOpportunityRequest) (Opportunity, error)
	List(ctx context.Context, req ListOpportunityRequest) ([]Opportunity, error)
	GetByID(ctx context.Context, id string) (Opportunity, error)
	Update(ctx context.Context, id string, req UpdateOpportunityRequest) (Opportunity, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidFirm  = errors.New("invalid_firm")
	ErrInvalidID    = errors.New("invalid_opportunity_id")
	ErrInvalidTitle = errors.New("invalid_title")
	ErrInvalidStage = errors.New("invalid_stage")
	ErrInvalidValue = errors.New("invalid_estimated_value")
	ErrNotFound     = errors.New("opportunity_not_found")
)
