package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/praxislegal/praxis/internal/clock"
	"github.com/praxislegal/praxis/internal/firmctx"
	"github.com/praxislegal/praxis/internal/interaction/domain"
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

	logrepo repository.Repository[domain.Interaction]
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("interaction.service"),
		genID: p.GenID,
		clock: p.Clock,

		logrepo: repository.ProvideStore[domain.Interaction](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInteractionRequest) (domain.Interaction, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Interaction{}, domain.ErrInvalidFirm
	}

	if !req.Kind.Valid() {
		return domain.Interaction{}, domain.ErrInvalidKind
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return domain.Interaction{}, domain.ErrInvalidSubject
	}
	if req.LeadID == nil && req.ClientID == nil {
		return domain.Interaction{}, domain.ErrMissingTarget
	}

	now := s.clock.Now()
	occurredAt := now
	if req.OccurredAt != nil && !req.OccurredAt.IsZero() {
		occurredAt = *req.OccurredAt
	}

	entry := domain.Interaction{
		ID:         s.genID.Generate(),
		FirmID:     firmID,
		Kind:       req.Kind,
		Subject:    subject,
		Notes:      req.Notes,
		OccurredAt: occurredAt,
		CreatedAt:  now,
	}
	if req.LeadID != nil {
		leadID, err := snowflake.ParseString(strings.TrimSpace(*req.LeadID))
		if err != nil {
			return domain.Interaction{}, domain.ErrInvalidID
		}
		entry.LeadID = &leadID
	}
	if req.ClientID != nil {
		clientID, err := snowflake.ParseString(strings.TrimSpace(*req.ClientID))
		if err != nil {
			return domain.Interaction{}, domain.ErrInvalidID
		}
		entry.ClientID = &clientID
	}
	if req.ContactID != nil {
		contactID, err := snowflake.ParseString(strings.TrimSpace(*req.ContactID))
		if err != nil {
			return domain.Interaction{}, domain.ErrInvalidID
		}
		entry.ContactID = &contactID
	}

	if err := s.logrepo.Create(ctx, &entry); err != nil {
		return domain.Interaction{}, err
	}
	return entry, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInteractionRequest) ([]domain.Interaction, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return nil, domain.ErrInvalidFirm
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{
			Allow: map[string]bool{"occurred_at": true},
			Field: "occurred_at",
			Desc:  true,
		}),
	}
	if req.Limit > 0 {
		opts = append(opts, option.WithLimit(req.Limit))
	}
	if leadID := strings.TrimSpace(req.LeadID); leadID != "" {
		id, err := snowflake.ParseString(leadID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "lead_id", Operator: option.EQ, Value: id}))
	}
	if clientID := strings.TrimSpace(req.ClientID); clientID != "" {
		id, err := snowflake.ParseString(clientID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "client_id", Operator: option.EQ, Value: id}))
	}

	items, err := s.logrepo.Find(ctx, &domain.Interaction{FirmID: firmID}, opts...)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Interaction, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		entries = append(entries, *item)
	}
	return entries, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.ErrInvalidFirm
	}

	entryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || entryID == 0 {
		return domain.ErrInvalidID
	}

	item, err := s.logrepo.FindOne(ctx, &domain.Interaction{ID: entryID, FirmID: firmID})
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return s.logrepo.Delete(ctx, item.ID.String())
}
