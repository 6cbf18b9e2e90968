package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/praxislegal/praxis/internal/firmctx"
	invoicedomain "github.com/praxislegal/praxis/internal/invoice/domain"
	"github.com/praxislegal/praxis/internal/partnershare/domain"
	"github.com/praxislegal/praxis/pkg/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node

	sharerepo repository.Repository[domain.PartnerShare]
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("partnershare.service"),
		genID: p.GenID,

		sharerepo: repository.ProvideStore[domain.PartnerShare](p.DB),
	}
}

func (s *Service) Set(ctx context.Context, invoiceID string, req domain.SetSharesRequest) ([]domain.PartnerShare, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return nil, domain.ErrInvalidFirm
	}

	invID, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil {
		return nil, domain.ErrInvalidInvoiceID
	}

	shares := make([]*domain.PartnerShare, 0, len(req.Shares))
	for _, input := range req.Shares {
		userID, err := snowflake.ParseString(strings.TrimSpace(input.UserID))
		if err != nil {
			return nil, domain.ErrInvalidUser
		}
		if input.Percentage.IsNegative() || input.Percentage.GreaterThan(hundred) {
			return nil, domain.ErrInvalidPercentage
		}
		shares = append(shares, &domain.PartnerShare{
			ID:          s.genID.Generate(),
			FirmID:      firmID,
			InvoiceID:   invID,
			UserID:      userID,
			PartnerName: strings.TrimSpace(input.PartnerName),
			Percentage:  input.Percentage,
		})
	}

	invoice, err := s.loadInvoice(ctx, firmID, invID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrInvoiceNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("firm_id = ? AND invoice_id = ?", firmID, invID).
			Delete(&domain.PartnerShare{}).Error; err != nil {
			return err
		}
		if len(shares) == 0 {
			return nil
		}
		return s.sharerepo.WithTrx(tx).BatchCreate(ctx, shares)
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.PartnerShare, 0, len(shares))
	for _, share := range shares {
		out = append(out, *share)
	}
	return out, nil
}

func (s *Service) List(ctx context.Context, invoiceID string) ([]domain.PartnerShare, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return nil, domain.ErrInvalidFirm
	}

	invID, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil {
		return nil, domain.ErrInvalidInvoiceID
	}

	items, err := s.sharerepo.Find(ctx, &domain.PartnerShare{FirmID: firmID, InvoiceID: invID})
	if err != nil {
		return nil, err
	}

	shares := make([]domain.PartnerShare, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		shares = append(shares, *item)
	}
	return shares, nil
}

func (s *Service) Report(ctx context.Context, invoiceID string) (domain.Report, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Report{}, domain.ErrInvalidFirm
	}

	invID, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil {
		return domain.Report{}, domain.ErrInvalidInvoiceID
	}

	invoice, err := s.loadInvoice(ctx, firmID, invID)
	if err != nil {
		return domain.Report{}, err
	}
	if invoice == nil {
		return domain.Report{}, domain.ErrInvoiceNotFound
	}

	shares, err := s.List(ctx, invoiceID)
	if err != nil {
		return domain.Report{}, err
	}

	return domain.Compute(invoice.FinalMoney(), shares), nil
}

func (s *Service) loadInvoice(ctx context.Context, firmID, invoiceID snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := s.db.WithContext(ctx).
		Where("firm_id = ? AND id = ?", firmID, invoiceID).
		First(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

var hundred = decimal.NewFromInt(100)
