package domain

import (
	"context"
	"errors"

	contactdomain "github.com/praxislegal/praxis/internal/contact/domain"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/praxislegal/praxis/pkg/db/pagination"
)

type ContactInput struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Designation string `json:"designation"`
}

type CreateClientRequest struct {
	Name     string     `json:"name" binding:"required"`
	Type     ClientType `json:"type"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Address  string     `json:"address"`
	City     string     `json:"city"`
	State    string     `json:"state"`
	Country  string     `json:"country"`
	GSTIN    string     `json:"gstin"`
	LeadID   *string    `json:"lead_id,omitempty"`
	// PrimaryContact and AdditionalContacts are saved as follow-up steps
	// after the client record itself.
	PrimaryContact     *ContactInput  `json:"primary_contact,omitempty"`
	AdditionalContacts []ContactInput `json:"additional_contacts,omitempty"`
}

// StepResult reports one step of a multi-step save. Steps run in order and
// a failed step does not roll back the ones before it.
type StepResult struct {
	Step  string `json:"step"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// CreateClientResponse carries the saved client plus the outcome of each
// contact-save step. Client is set whenever the first step succeeded, even
// if later steps failed.
type CreateClientResponse struct {
	Client   Client                  `json:"client"`
	Contacts []contactdomain.Contact `json:"contacts,omitempty"`
	Steps    []StepResult            `json:"steps"`
}

type UpdateClientRequest struct {
	Name    *string       `json:"name,omitempty"`
	Email   *string       `json:"email,omitempty"`
	Phone   *string       `json:"phone,omitempty"`
	Address *string       `json:"address,omitempty"`
	City    *string       `json:"city,omitempty"`
	State   *string       `json:"state,omitempty"`
	Country *string       `json:"country,omitempty"`
	GSTIN   *string       `json:"gstin,omitempty"`
	Status  *ClientStatus `json:"status,omitempty"`
}

type ListClientRequest struct {
	Name      string       `form:"name"`
	Status    ClientStatus `form:"status"`
	Type      ClientType   `form:"type"`
	PageToken string       `form:"page_token"`
	PageSize  int32        `form:"page_size"`
}

type ListClientResponse struct {
	pagination.PageInfo
	Clients []Client `json:"clients"`
}

type CreateMatterRequest struct {
	Title    string              `json:"title" binding:"required"`
	Currency currencydomain.Code `json:"currency"`
}

type Service interface {
	// Create saves the client, then its contacts, as independent steps.
	Create(ctx context.Context, req CreateClientRequest) (CreateClientResponse, error)
	List(ctx context.Context, req ListClientRequest) (ListClientResponse, error)
	GetByID(ctx context.Context, id string) (Client, error)
	Update(ctx context.Context, id string, req UpdateClientRequest) (Client, error)
	CreateMatter(ctx context.Context, clientID string, req CreateMatterRequest) (Matter, error)
	ListMatters(ctx context.Context, clientID string) ([]Matter, error)
}

var (
	ErrInvalidFirm   = errors.New("invalid_firm")
	ErrInvalidID     = errors.New("invalid_client_id")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrNotFound      = errors.New("client_not_found")
	ErrInvalidMatter = errors.New("invalid_matter")
)
