package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/praxislegal/praxis/internal/clock"
	"github.com/praxislegal/praxis/internal/contact/domain"
	"github.com/praxislegal/praxis/internal/firmctx"
	"github.com/praxislegal/praxis/pkg/db/option"
	"github.com/praxislegal/praxis/pkg/repository"
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
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	contactrepo repository.Repository[domain.Contact]
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("contact.service"),
		genID: p.GenID,
		clock: p.Clock,

		contactrepo: repository.ProvideStore[domain.Contact](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateContactRequest) (domain.Contact, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Contact{}, domain.ErrInvalidFirm
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Contact{}, domain.ErrInvalidName
	}

	now := s.clock.Now()
	contact := domain.Contact{
		ID:          s.genID.Generate(),
		FirmID:      firmID,
		Name:        name,
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Designation: strings.TrimSpace(req.Designation),
		IsPrimary:   req.IsPrimary,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.ClientID != nil {
		clientID, err := snowflake.ParseString(strings.TrimSpace(*req.ClientID))
		if err != nil {
			return domain.Contact{}, domain.ErrInvalidID
		}
		contact.ClientID = &clientID
	}
	if req.LeadID != nil {
		leadID, err := snowflake.ParseString(strings.TrimSpace(*req.LeadID))
		if err != nil {
			return domain.Contact{}, domain.ErrInvalidID
		}
		contact.LeadID = &leadID
	}

	if err := s.contactrepo.Create(ctx, &contact); err != nil {
		return domain.Contact{}, err
	}
	return contact, nil
}

func (s *Service) List(ctx context.Context, req domain.ListContactRequest) ([]domain.Contact, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return nil, domain.ErrInvalidFirm
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{}),
	}
	if clientID := strings.TrimSpace(req.ClientID); clientID != "" {
		id, err := snowflake.ParseString(clientID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "client_id", Operator: option.EQ, Value: id}))
	}
	if leadID := strings.TrimSpace(req.LeadID); leadID != "" {
		id, err := snowflake.ParseString(leadID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "lead_id", Operator: option.EQ, Value: id}))
	}

	items, err := s.contactrepo.Find(ctx, &domain.Contact{FirmID: firmID}, opts...)
	if err != nil {
		return nil, err
	}

	contacts := make([]domain.Contact, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		contacts = append(contacts, *item)
	}
	return contacts, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Contact, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Contact{}, domain.ErrInvalidFirm
	}

	contactID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || contactID == 0 {
		return domain.Contact{}, domain.ErrInvalidID
	}

	item, err := s.contactrepo.FindOne(ctx, &domain.Contact{ID: contactID, FirmID: firmID})
	if err != nil {
		return domain.Contact{}, err
	}
	if item == nil {
		return domain.Contact{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateContactRequest) (domain.Contact, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Contact{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Contact{}, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Email != nil {
		item.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		item.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Designation != nil {
		item.Designation = strings.TrimSpace(*req.Designation)
	}
	if req.IsPrimary != nil {
		item.IsPrimary = *req.IsPrimary
	}
	item.UpdatedAt = s.clock.Now()

	if err := s.contactrepo.BatchUpdate(ctx, []*domain.Contact{&item}); err != nil {
		return domain.Contact{}, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.contactrepo.Delete(ctx, item.ID.String())
}
