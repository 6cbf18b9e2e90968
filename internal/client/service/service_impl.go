package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/praxislegal/praxis/internal/client/domain"
	"github.com/praxislegal/praxis/internal/clock"
	contactdomain "github.com/praxislegal/praxis/internal/contact/domain"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/praxislegal/praxis/internal/firmctx"
	"github.com/praxislegal/praxis/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// Create executes a multi-step save: the client record first, then the
// primary contact, then each additional contact. Steps are independent
// calls; a failure partway leaves the prior steps committed and is
// reported in the step results instead of being compensated.
func (s *Service) Create(ctx context.Context, req domain.CreateClientRequest) (domain.CreateClientResponse, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.CreateClientResponse{}, domain.ErrInvalidFirm
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.CreateClientResponse{}, domain.ErrInvalidName
	}
	if email := strings.TrimSpace(req.Email); email != "" && !strings.Contains(email, "@") {
		return domain.CreateClientResponse{}, domain.ErrInvalidEmail
	}

	clientType := req.Type
	if clientType == "" {
		clientType = domain.ClientTypeCompany
	}

	now := s.clock.Now()
	client := domain.Client{
		ID:        s.genID.Generate(),
		FirmID:    firmID,
		Name:      name,
		Type:      clientType,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		City:      strings.TrimSpace(req.City),
		State:     strings.TrimSpace(req.State),
		Country:   strings.TrimSpace(req.Country),
		GSTIN:     strings.TrimSpace(req.GSTIN),
		Status:    domain.ClientStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.LeadID != nil {
		leadID, err := snowflake.ParseString(strings.TrimSpace(*req.LeadID))
		if err != nil {
			return domain.CreateClientResponse{}, domain.ErrInvalidID
		}
		client.LeadID = &leadID
	}

	resp := domain.CreateClientResponse{}
	if err := s.repo.Insert(ctx, s.db, &client); err != nil {
		return domain.CreateClientResponse{}, err
	}
	resp.Client = client
	resp.Steps = append(resp.Steps, domain.StepResult{Step: "client", OK: true})

	if req.PrimaryContact != nil {
		s.saveContactStep(ctx, &resp, client, *req.PrimaryContact, true, "primary_contact")
	}
	for i, input := range req.AdditionalContacts {
		s.saveContactStep(ctx, &resp, client, input, false, "contact_"+strconv.Itoa(i+1))
	}

	return resp, nil
}

func (s *Service) saveContactStep(ctx context.Context, resp *domain.CreateClientResponse, client domain.Client, input domain.ContactInput, primary bool, step string) {
	now := s.clock.Now()
	clientID := client.ID
	contact := contactdomain.Contact{
		ID:          s.genID.Generate(),
		FirmID:      client.FirmID,
		ClientID:    &clientID,
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.TrimSpace(input.Email),
		Phone:       strings.TrimSpace(input.Phone),
		Designation: strings.TrimSpace(input.Designation),
		IsPrimary:   primary,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if contact.Name == "" {
		resp.Steps = append(resp.Steps, domain.StepResult{Step: step, OK: false, Error: "invalid_name"})
		return
	}
	if err := s.db.WithContext(ctx).Create(&contact).Error; err != nil {
		s.log.Warn("contact save step failed",
			zap.String("step", step),
			zap.String("client_id", client.ID.String()),
			zap.Error(err),
		)
		resp.Steps = append(resp.Steps, domain.StepResult{Step: step, OK: false, Error: err.Error()})
		return
	}
	resp.Contacts = append(resp.Contacts, contact)
	resp.Steps = append(resp.Steps, domain.StepResult{Step: step, OK: true})
}

func (s *Service) List(ctx context.Context, req domain.ListClientRequest) (domain.ListClientResponse, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.ListClientResponse{}, domain.ErrInvalidFirm
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, firmID, domain.ListClientFilter{
		Name:   strings.TrimSpace(req.Name),
		Status: req.Status,
		Type:   req.Type,
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListClientResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(client *domain.Client) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        client.ID.String(),
			CreatedAt: client.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	clients := make([]domain.Client, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		clients = append(clients, *item)
	}

	resp := domain.ListClientResponse{Clients: clients}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Client, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Client{}, domain.ErrInvalidFirm
	}

	clientID, err := s.parseID(id)
	if err != nil {
		return domain.Client{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, firmID, clientID)
	if err != nil {
		return domain.Client{}, err
	}
	if item == nil {
		return domain.Client{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateClientRequest) (domain.Client, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Client{}, domain.ErrInvalidFirm
	}

	clientID, err := s.parseID(id)
	if err != nil {
		return domain.Client{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, firmID, clientID)
	if err != nil {
		return domain.Client{}, err
	}
	if item == nil {
		return domain.Client{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Client{}, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" && !strings.Contains(email, "@") {
			return domain.Client{}, domain.ErrInvalidEmail
		}
		item.Email = email
	}
	if req.Phone != nil {
		item.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		item.Address = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		item.City = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		item.State = strings.TrimSpace(*req.State)
	}
	if req.Country != nil {
		item.Country = strings.TrimSpace(*req.Country)
	}
	if req.GSTIN != nil {
		item.GSTIN = strings.TrimSpace(*req.GSTIN)
	}
	if req.Status != nil {
		item.Status = *req.Status
	}
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Client{}, err
	}
	return *item, nil
}

func (s *Service) CreateMatter(ctx context.Context, clientID string, req domain.CreateMatterRequest) (domain.Matter, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Matter{}, domain.ErrInvalidFirm
	}

	parsedClientID, err := s.parseID(clientID)
	if err != nil {
		return domain.Matter{}, err
	}
	client, err := s.repo.FindByID(ctx, s.db, firmID, parsedClientID)
	if err != nil {
		return domain.Matter{}, err
	}
	if client == nil {
		return domain.Matter{}, domain.ErrNotFound
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Matter{}, domain.ErrInvalidMatter
	}
	currency := req.Currency
	if currency == "" {
		currency = currencydomain.INR
	}
	if !currencydomain.IsSupported(currency) {
		return domain.Matter{}, currencydomain.ErrUnsupportedCurrency
	}

	now := s.clock.Now()
	matter := domain.Matter{
		ID:        s.genID.Generate(),
		FirmID:    firmID,
		ClientID:  parsedClientID,
		Title:     title,
		Currency:  currency,
		Status:    domain.MatterStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertMatter(ctx, s.db, &matter); err != nil {
		return domain.Matter{}, err
	}
	return matter, nil
}

func (s *Service) ListMatters(ctx context.Context, clientID string) ([]domain.Matter, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return nil, domain.ErrInvalidFirm
	}

	parsedClientID, err := s.parseID(clientID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListMatters(ctx, s.db, firmID, parsedClientID)
	if err != nil {
		return nil, err
	}
	matters := make([]domain.Matter, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		matters = append(matters, *item)
	}
	return matters, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
