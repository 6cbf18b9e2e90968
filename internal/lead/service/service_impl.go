package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/praxislegal/praxis/internal/clock"
	"github.com/praxislegal/praxis/internal/firmctx"
	"github.com/praxislegal/praxis/internal/lead/domain"
	"github.com/praxislegal/praxis/pkg/db/option"
	"github.com/praxislegal/praxis/pkg/db/pagination"
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

	leadrepo repository.Repository[domain.Lead]
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("lead.service"),
		genID: p.GenID,
		clock: p.Clock,

		leadrepo: repository.ProvideStore[domain.Lead](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateLeadRequest) (domain.Lead, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Lead{}, domain.ErrInvalidFirm
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Lead{}, domain.ErrInvalidName
	}

	now := s.clock.Now()
	lead := domain.Lead{
		ID:        s.genID.Generate(),
		FirmID:    firmID,
		Name:      name,
		Company:   strings.TrimSpace(req.Company),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Source:    strings.TrimSpace(req.Source),
		Status:    domain.LeadStatusNew,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.AssignedTo != nil {
		userID, err := snowflake.ParseString(strings.TrimSpace(*req.AssignedTo))
		if err != nil {
			return domain.Lead{}, domain.ErrInvalidID
		}
		lead.AssignedTo = &userID
	}

	if err := s.leadrepo.Create(ctx, &lead); err != nil {
		return domain.Lead{}, err
	}
	return lead, nil
}

func (s *Service) List(ctx context.Context, req domain.ListLeadRequest) (domain.ListLeadResponse, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.ListLeadResponse{}, domain.ErrInvalidFirm
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	query := domain.Lead{FirmID: firmID, Status: req.Status, Source: strings.TrimSpace(req.Source)}
	items, err := s.leadrepo.Find(ctx, &query,
		option.WithSortBy(option.QuerySortBy{Desc: true}),
		option.ApplyPagination(pagination.Pagination{
			PageToken: req.PageToken,
			PageSize:  int(pageSize),
		}),
	)
	if err != nil {
		return domain.ListLeadResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(lead *domain.Lead) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        lead.ID.String(),
			CreatedAt: lead.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	leads := make([]domain.Lead, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		leads = append(leads, *item)
	}

	resp := domain.ListLeadResponse{Leads: leads}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Lead, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Lead{}, domain.ErrInvalidFirm
	}

	leadID, err := parseID(id)
	if err != nil {
		return domain.Lead{}, err
	}

	item, err := s.leadrepo.FindOne(ctx, &domain.Lead{ID: leadID, FirmID: firmID})
	if err != nil {
		return domain.Lead{}, err
	}
	if item == nil {
		return domain.Lead{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateLeadRequest) (domain.Lead, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Lead{}, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Company != nil {
		item.Company = strings.TrimSpace(*req.Company)
	}
	if req.Email != nil {
		item.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		item.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Source != nil {
		item.Source = strings.TrimSpace(*req.Source)
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return domain.Lead{}, domain.ErrInvalidStatus
		}
		item.Status = *req.Status
	}
	if req.AssignedTo != nil {
		userID, parseErr := snowflake.ParseString(strings.TrimSpace(*req.AssignedTo))
		if parseErr != nil {
			return domain.Lead{}, domain.ErrInvalidID
		}
		item.AssignedTo = &userID
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	item.UpdatedAt = s.clock.Now()

	if err := s.leadrepo.BatchUpdate(ctx, []*domain.Lead{&item}); err != nil {
		return domain.Lead{}, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.leadrepo.Delete(ctx, item.ID.String())
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
