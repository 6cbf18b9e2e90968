package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/praxislegal/praxis/internal/clock"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/praxislegal/praxis/internal/firmctx"
	"github.com/praxislegal/praxis/internal/ratecard/domain"
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
		log:   p.Log.Named("ratecard.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRateCardRequest) (domain.RateCard, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.RateCard{}, domain.ErrInvalidFirm
	}

	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil {
		return domain.RateCard{}, domain.ErrInvalidUser
	}

	serviceType := strings.TrimSpace(req.ServiceType)
	if serviceType == "" {
		return domain.RateCard{}, domain.ErrInvalidServiceType
	}

	if !currencydomain.IsSupported(req.Currency) {
		return domain.RateCard{}, domain.ErrInvalidCurrency
	}
	if req.MinRate.IsNegative() || req.MinRate.GreaterThan(req.MaxRate) {
		return domain.RateCard{}, domain.ErrInvalidRateRange
	}

	now := s.clock.Now()
	card := domain.RateCard{
		ID:            s.genID.Generate(),
		FirmID:        firmID,
		UserID:        userID,
		ServiceType:   serviceType,
		MinRate:       req.MinRate,
		MaxRate:       req.MaxRate,
		Currency:      req.Currency,
		EffectiveDate: domain.DateOnly(req.EffectiveDate),
		IsActive:      domain.DeriveActive(req.EndDate, now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.EndDate != nil {
		end := domain.DateOnly(*req.EndDate)
		card.EndDate = &end
	}

	if err := s.repo.Insert(ctx, s.db, &card); err != nil {
		return domain.RateCard{}, err
	}

	return card, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRateCardRequest) (domain.ListRateCardResponse, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.ListRateCardResponse{}, domain.ErrInvalidFirm
	}

	filter := domain.ListFilter{ServiceType: strings.TrimSpace(req.ServiceType)}
	if trimmed := strings.TrimSpace(req.UserID); trimmed != "" {
		userID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.ListRateCardResponse{}, domain.ErrInvalidUser
		}
		filter.UserID = &userID
	}

	items, err := s.repo.List(ctx, s.db, firmID, filter)
	if err != nil {
		return domain.ListRateCardResponse{}, err
	}

	// Auto-deactivate on read: cards whose end date has passed flip to
	// inactive here, not in a scheduled job.
	now := s.clock.Now()
	cards := make([]domain.RateCard, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		reconciled, changed := domain.Reconcile(*item, now)
		if changed {
			reconciled.UpdatedAt = now
			if err := s.repo.Update(ctx, s.db, &reconciled); err != nil {
				s.log.Warn("rate card reconcile persist failed",
					zap.String("rate_card_id", reconciled.ID.String()),
					zap.Error(err),
				)
				// Keep serving the derived state even when the flip did not
				// persist; the next read retries.
			}
		}
		cards = append(cards, reconciled)
	}

	return domain.ListRateCardResponse{RateCards: cards}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.RateCard, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.RateCard{}, domain.ErrInvalidFirm
	}

	cardID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.RateCard{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, firmID, cardID)
	if err != nil {
		return domain.RateCard{}, err
	}
	if item == nil {
		return domain.RateCard{}, domain.ErrNotFound
	}

	reconciled, _ := domain.Reconcile(*item, s.clock.Now())
	return reconciled, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRateCardRequest) (domain.RateCard, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.RateCard{}, domain.ErrInvalidFirm
	}

	cardID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.RateCard{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, firmID, cardID)
	if err != nil {
		return domain.RateCard{}, err
	}
	if item == nil {
		return domain.RateCard{}, domain.ErrNotFound
	}

	card := *item
	if req.MinRate != nil {
		card.MinRate = *req.MinRate
	}
	if req.MaxRate != nil {
		card.MaxRate = *req.MaxRate
	}
	if card.MinRate.IsNegative() || card.MinRate.GreaterThan(card.MaxRate) {
		// Rejected with no state change; the stored card is untouched.
		return domain.RateCard{}, domain.ErrInvalidRateRange
	}

	now := s.clock.Now()
	dateEdited := false
	if req.ClearEndDate {
		card.EndDate = nil
		dateEdited = true
	} else if req.EndDate != nil {
		end := domain.DateOnly(*req.EndDate)
		card.EndDate = &end
		dateEdited = true
	}

	if dateEdited {
		// Date edits reclassify synchronously as part of this update rather
		// than waiting for the next lazy pass.
		card.IsActive = domain.DeriveActive(card.EndDate, now)
	} else if req.IsActive != nil {
		card.IsActive = *req.IsActive
	}

	card.UpdatedAt = now
	if err := s.repo.Update(ctx, s.db, &card); err != nil {
		return domain.RateCard{}, err
	}

	return card, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.ErrInvalidFirm
	}

	cardID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	return s.repo.Delete(ctx, s.db, firmID, cardID)
}

func (s *Service) Resolve(ctx context.Context, req domain.ResolveRateRequest) (domain.RateCard, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.RateCard{}, domain.ErrInvalidFirm
	}

	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil {
		return domain.RateCard{}, domain.ErrInvalidUser
	}
	serviceType := strings.TrimSpace(req.ServiceType)
	if serviceType == "" {
		return domain.RateCard{}, domain.ErrInvalidServiceType
	}

	date := req.Date
	if date.IsZero() {
		date = s.clock.Now()
	}

	cards, err := s.repo.FindEffective(ctx, s.db, firmID, userID, serviceType, date)
	if err != nil {
		return domain.RateCard{}, err
	}
	if len(cards) == 0 || cards[0] == nil {
		return domain.RateCard{}, domain.ErrNoEffectiveRate
	}

	return *cards[0], nil
}
