package domain

import (
	"context"
	"errors"

	"github.com/praxislegal/praxis/pkg/db/pagination"
)

type CreateLeadRequest struct {
	Name       string  `json:"name" binding:"required"`
	Company    string  `json:"company"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Source     string  `json:"source"`
	AssignedTo *string `json:"assigned_to,omitempty"`
	Notes      string  `json:"notes"`
}

type UpdateLeadRequest struct {
	Name       *string     `json:"name,omitempty"`
	Company    *string     `json:"company,omitempty"`
	Email      *string     `json:"email,omitempty"`
	Phone      *string     `json:"phone,omitempty"`
	Source     *string     `json:"source,omitempty"`
	Status     *LeadStatus `json:"status,omitempty"`
	AssignedTo *string     `json:"assigned_to,omitempty"`
	Notes      *string     `json:"notes,omitempty"`
}

type ListLeadRequest struct {
	Status    LeadStatus `form:"status"`
	Source    string     `form:"source"`
	PageToken string     `form:"page_token"`
	PageSize  int32      `form:"page_size"`
}

type ListLeadResponse struct {
	pagination.PageInfo
	Leads []Lead `json:"leads"`
}

type Service interface {
	Create(ctx context.Context, req CreateLeadRequest) (Lead, error)
	List(ctx context.Context, req ListLeadRequest) (ListLeadResponse, error)
	GetByID(ctx context.Context, id string) (Lead, error)
	Update(ctx context.Context, id string, req UpdateLeadRequest) (Lead, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidFirm   = errors.New("invalid_firm")
	ErrInvalidID     = errors.New("invalid_lead_id")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidStatus = errors.New("invalid_lead_status")
	ErrNotFound      = errors.New("lead_not_found")
)
