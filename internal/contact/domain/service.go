package domain

import (
	"context"
	"errors"
)

type CreateContactRequest struct {
	ClientID    *string `json:"client_id,omitempty"`
	LeadID      *string `json:"lead_id,omitempty"`
	Name        string  `json:"name" binding:"required"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Designation string  `json:"designation"`
	IsPrimary   bool    `json:"is_primary"`
}

type UpdateContactRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Designation *string `json:"designation,omitempty"`
	IsPrimary   *bool   `json:"is_primary,omitempty"`
}

type ListContactRequest struct {
	ClientID string `form:"client_id"`
	LeadID   string `form:"lead_id"`
}

type Service interface {
	Create(ctx context.Context, req CreateContactRequest) (Contact, error)
	List(ctx context.Context, req ListContactRequest) ([]Contact, error)
	GetByID(ctx context.Context, id string) (Contact, error)
	Update(ctx context.Context, id string, req UpdateContactRequest) (Contact, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidFirm = errors.New("invalid_firm")
	ErrInvalidID   = errors.New("invalid_contact_id")
	ErrInvalidName = errors.New("invalid_name")
	ErrNotFound    = errors.New("contact_not_found")
)
