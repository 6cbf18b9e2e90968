package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/praxislegal/praxis/internal/clock"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/praxislegal/praxis/internal/firmctx"
	"github.com/praxislegal/praxis/internal/opportunity/domain"
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

	opprepo repository.Repository[domain.Opportunity]
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("opportunity.service"),
		genID: p.GenID,
		clock: p.Clock,

		opprepo: repository.ProvideStore[domain.Opportunity](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateOpportunityRequest) (domain.Opportunity, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Opportunity{}, domain.ErrInvalidFirm
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.Opportunity{}, domain.ErrInvalidTitle
	}
	if req.EstimatedValue.IsNegative() {
		return domain.Opportunity{}, domain.ErrInvalidValue
	}

	currency := req.Currency
	if currency == "" {
		currency = currencydomain.INR
	}
	if !currencydomain.IsSupported(currency) {
		return domain.Opportunity{}, currencydomain.ErrUnsupportedCurrency
	}

	now := s.clock.Now()
	opp := domain.Opportunity{
		ID:                s.genID.Generate(),
		FirmID:            firmID,
		Title:             title,
		Stage:             domain.StageProspecting,
		EstimatedValue:    req.EstimatedValue,
		Currency:          currency,
		ExpectedCloseDate: req.ExpectedCloseDate,
		Notes:             req.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.ClientID != nil {
		clientID, err := snowflake.ParseString(strings.TrimSpace(*req.ClientID))
		if err != nil {
			return domain.Opportunity{}, domain.ErrInvalidID
		}
		opp.ClientID = &clientID
	}
	if req.LeadID != nil {
		leadID, err := snowflake.ParseString(strings.TrimSpace(*req.LeadID))
		if err != nil {
			return domain.Opportunity{}, domain.ErrInvalidID
		}
		opp.LeadID = &leadID
	}

	if err := s.opprepo.Create(ctx, &opp); err != nil {
		return domain.Opportunity{}, err
	}
	return opp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListOpportunityRequest) ([]domain.Opportunity, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return nil, domain.ErrInvalidFirm
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{Desc: true}),
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

	items, err := s.opprepo.Find(ctx, &domain.Opportunity{FirmID: firmID, Stage: req.Stage}, opts...)
	if err != nil {
		return nil, err
	}

	opps := make([]domain.Opportunity, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		opps = append(opps, *item)
	}
	return opps, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Opportunity, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Opportunity{}, domain.ErrInvalidFirm
	}

	oppID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || oppID == 0 {
		return domain.Opportunity{}, domain.ErrInvalidID
	}

	item, err := s.opprepo.FindOne(ctx, &domain.Opportunity{ID: oppID, FirmID: firmID})
	if err != nil {
		return domain.Opportunity{}, err
	}
	if item == nil {
		return domain.Opportunity{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateOpportunityRequest) (domain.Opportunity, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Opportunity{}, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return domain.Opportunity{}, domain.ErrInvalidTitle
		}
		item.Title = title
	}
	if req.Stage != nil {
		if !req.Stage.Valid() {
			return domain.Opportunity{}, domain.ErrInvalidStage
		}
		item.Stage = *req.Stage
	}
	if req.EstimatedValue != nil {
		if req.EstimatedValue.IsNegative() {
			return domain.Opportunity{}, domain.ErrInvalidValue
		}
		item.EstimatedValue = *req.EstimatedValue
	}
	if req.ExpectedCloseDate != nil {
		item.ExpectedCloseDate = req.ExpectedCloseDate
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	item.UpdatedAt = s.clock.Now()

	if err := s.opprepo.BatchUpdate(ctx, []*domain.Opportunity{&item}); err != nil {
		return domain.Opportunity{}, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.opprepo.Delete(ctx, item.ID.String())
}
