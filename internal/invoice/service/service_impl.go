package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/praxislegal/praxis/internal/clock"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/praxislegal/praxis/internal/firmctx"
	"github.com/praxislegal/praxis/internal/invoice/aggregate"
	"github.com/praxislegal/praxis/internal/invoice/domain"
	"github.com/praxislegal/praxis/internal/invoice/render"
	partnersharedomain "github.com/praxislegal/praxis/internal/partnershare/domain"
	"github.com/praxislegal/praxis/pkg/db/option"
	"github.com/praxislegal/praxis/pkg/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Renderer render.Renderer
	ShareSvc partnersharedomain.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	invoicerepo repository.Repository[domain.Invoice]
	renderer    render.Renderer
	shareSvc    partnersharedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		clock: p.Clock,

		invoicerepo: repository.ProvideStore[domain.Invoice](p.DB),
		renderer:    p.Renderer,
		shareSvc:    p.ShareSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	firmID, err := s.firmIDFromContext(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidClientID
	}
	if !currencydomain.IsSupported(req.Currency) {
		return domain.Invoice{}, currencydomain.ErrUnsupportedCurrency
	}

	now := s.clock.Now()
	invoiceID := s.genID.Generate()
	lines := make([]domain.InvoiceLine, 0, len(req.Lines))
	for _, input := range req.Lines {
		currency := input.Currency
		if currency == "" {
			currency = req.Currency
		}
		if !currencydomain.IsSupported(currency) {
			return domain.Invoice{}, currencydomain.ErrUnsupportedCurrency
		}
		line := domain.InvoiceLine{
			ID:          s.genID.Generate(),
			FirmID:      firmID,
			InvoiceID:   invoiceID,
			Kind:        input.Kind,
			Description: strings.TrimSpace(input.Description),
			Amount:      input.Amount,
			Currency:    currency,
			CreatedAt:   now,
		}
		if input.EntryID != nil {
			entryID, err := snowflake.ParseString(strings.TrimSpace(*input.EntryID))
			if err != nil {
				return domain.Invoice{}, domain.ErrInvalidInvoiceID
			}
			line.EntryID = &entryID
		}
		lines = append(lines, line)
	}

	invoice := domain.Invoice{
		ID:          invoiceID,
		FirmID:      firmID,
		ClientID:    clientID,
		InvoiceDate: req.InvoiceDate,
		DueDate:     req.DueDate,
		Currency:    req.Currency,
		Status:      domain.InvoiceStatusDraft,
		Lines:       lines,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.MatterID != nil {
		matterID, err := snowflake.ParseString(strings.TrimSpace(*req.MatterID))
		if err != nil {
			return domain.Invoice{}, domain.ErrInvalidInvoiceID
		}
		invoice.MatterID = &matterID
	}
	invoice.DiscountType = req.DiscountType
	invoice.DiscountValue = req.DiscountValue

	if err := s.applyTotals(&invoice); err != nil {
		return domain.Invoice{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.nextInvoiceNumber(ctx, tx, firmID, req.InvoiceDate)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	return invoice, nil
}

// applyTotals recomputes subtotal and final amount from the invoice's
// lines. The stored scalars cover the lines in the invoice's own currency;
// other currencies stay in their own buckets, exposed on read, and a
// metadata flag marks the invoice as mixed.
func (s *Service) applyTotals(invoice *domain.Invoice) error {
	buckets := aggregate.Subtotals(invoice.Lines)

	subtotal := currencydomain.Zero(invoice.Currency)
	for _, bucket := range buckets {
		if bucket.Currency == invoice.Currency {
			subtotal = currencydomain.New(bucket.Subtotal, invoice.Currency)
		}
	}

	var discount *aggregate.Discount
	if invoice.DiscountType != nil && invoice.DiscountValue != nil {
		discount = &aggregate.Discount{Type: *invoice.DiscountType, Value: *invoice.DiscountValue}
	}

	_, finalAmount, err := aggregate.ApplyDiscount(subtotal, discount)
	if err != nil {
		return err
	}
	// ApplyDiscount only guards discount-driven negatives; negative lines
	// can push the subtotal below zero with no discount at all.
	if finalAmount.Amount.IsNegative() {
		return aggregate.ErrNegativeFinalAmount
	}

	invoice.Subtotal = subtotal.Amount
	invoice.FinalAmount = finalAmount.Amount
	if len(buckets) > 1 {
		if invoice.Metadata == nil {
			invoice.Metadata = datatypes.JSONMap{}
		}
		invoice.Metadata["mixed_currencies"] = true
	} else if invoice.Metadata != nil {
		delete(invoice.Metadata, "mixed_currencies")
	}
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	firmID, err := s.firmIDFromContext(ctx)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	filter := &domain.Invoice{FirmID: firmID}
	if req.Status != nil {
		filter.Status = *req.Status
	}
	if req.ClientID != nil {
		clientID, err := snowflake.ParseString(strings.TrimSpace(*req.ClientID))
		if err != nil {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidClientID
		}
		filter.ClientID = clientID
	}
	if req.ParentsOnly {
		filter.IsParent = true
	}

	options := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"invoice_date": true, "created_at": true}}),
	}
	if req.InvoiceDateFrom != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field: "invoice_date", Operator: option.GTE, Value: *req.InvoiceDateFrom,
		}))
	}
	if req.InvoiceDateTo != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field: "invoice_date", Operator: option.LTE, Value: *req.InvoiceDateTo,
		}))
	}
	if req.DueFrom != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field: "due_date", Operator: option.GTE, Value: *req.DueFrom,
		}))
	}
	if req.DueTo != nil {
		options = append(options, option.ApplyOperator(option.Condition{
			Field: "due_date", Operator: option.LTE, Value: *req.DueTo,
		}))
	}

	items, err := s.invoicerepo.Find(ctx, filter, options...)
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	// Overdue is derived for display on every read, never persisted here.
	now := s.clock.Now()
	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoice := *item
		invoice.Status = aggregate.DeriveStatus(invoice, now)
		invoices = append(invoices, invoice)
	}

	return domain.ListInvoiceResponse{Invoices: invoices}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.GetInvoiceResponse, error) {
	firmID, err := s.firmIDFromContext(ctx)
	if err != nil {
		return domain.GetInvoiceResponse{}, err
	}

	invoice, err := s.loadInvoice(ctx, firmID, id)
	if err != nil {
		return domain.GetInvoiceResponse{}, err
	}

	now := s.clock.Now()
	invoice.Status = aggregate.DeriveStatus(*invoice, now)
	resp := domain.GetInvoiceResponse{Invoice: *invoice}

	if invoice.IsParent {
		children, err := s.loadChildren(ctx, firmID, invoice.ID)
		if err != nil {
			return domain.GetInvoiceResponse{}, err
		}
		for i := range children {
			children[i].Status = aggregate.DeriveStatus(children[i], now)
		}
		resp.Children = children
		summary := aggregate.SummarizeSplits(children)
		resp.SplitPaymentSummary = &summary
	}

	return resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	firmID, err := s.firmIDFromContext(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.loadInvoice(ctx, firmID, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice.Status == domain.InvoiceStatusVoid {
		return domain.Invoice{}, domain.ErrInvoiceVoided
	}

	if req.Status != nil {
		// OVERDUE is a read-time derivation, not a settable state.
		switch *req.Status {
		case domain.InvoiceStatusDraft, domain.InvoiceStatusSent,
			domain.InvoiceStatusPartiallyPaid, domain.InvoiceStatusPaid,
			domain.InvoiceStatusVoid:
			invoice.Status = *req.Status
		default:
			return domain.Invoice{}, domain.ErrInvalidStatus
		}
	}
	if req.DueDate != nil {
		invoice.DueDate = *req.DueDate
	}
	if req.ClearDiscount {
		invoice.DiscountType = nil
		invoice.DiscountValue = nil
	}
	if req.DiscountType != nil {
		invoice.DiscountType = req.DiscountType
	}
	if req.DiscountValue != nil {
		invoice.DiscountValue = req.DiscountValue
	}

	if err := s.applyTotals(invoice); err != nil {
		return domain.Invoice{}, err
	}
	invoice.UpdatedAt = s.clock.Now()

	if err := s.db.WithContext(ctx).Omit("Lines").Save(invoice).Error; err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	firmID, err := s.firmIDFromContext(ctx)
	if err != nil {
		return err
	}

	invoice, err := s.loadInvoice(ctx, firmID, id)
	if err != nil {
		return err
	}

	ids := []snowflake.ID{invoice.ID}
	if invoice.IsParent {
		children, err := s.loadChildren(ctx, firmID, invoice.ID)
		if err != nil {
			return err
		}
		for _, child := range children {
			ids = append(ids, child.ID)
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("firm_id = ? AND invoice_id IN ?", firmID, ids).
			Delete(&domain.Payment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("firm_id = ? AND invoice_id IN ?", firmID, ids).
			Delete(&domain.InvoiceLine{}).Error; err != nil {
			return err
		}
		return tx.Where("firm_id = ? AND id IN ?", firmID, ids).
			Delete(&domain.Invoice{}).Error
	})
}

func (s *Service) Split(ctx context.Context, id string, req domain.SplitInvoiceRequest) (domain.GetInvoiceResponse, error) {
	firmID, err := s.firmIDFromContext(ctx)
	if err != nil {
		return domain.GetInvoiceResponse{}, err
	}

	invoice, err := s.loadInvoice(ctx, firmID, id)
	if err != nil {
		return domain.GetInvoiceResponse{}, err
	}
	if invoice.IsParent || invoice.ParentID != nil {
		return domain.GetInvoiceResponse{}, domain.ErrAlreadySplit
	}
	if invoice.Status == domain.InvoiceStatusVoid {
		return domain.GetInvoiceResponse{}, domain.ErrInvoiceVoided
	}
	if len(req.Allocations) < 2 {
		return domain.GetInvoiceResponse{}, domain.ErrSplitAmountMismatch
	}

	uniform := true
	total := decimal.Zero
	for _, alloc := range req.Allocations {
		if !alloc.Amount.IsPositive() {
			return domain.GetInvoiceResponse{}, domain.ErrSplitAmountMismatch
		}
		currency := alloc.Currency
		if currency == "" {
			currency = invoice.Currency
		}
		if !currencydomain.IsSupported(currency) {
			return domain.GetInvoiceResponse{}, currencydomain.ErrUnsupportedCurrency
		}
		if currency != invoice.Currency {
			uniform = false
		}
		total = total.Add(alloc.Amount)
	}
	// Amounts only reconcile against the parent total when every
	// allocation shares the parent's currency.
	if uniform && !total.Equal(invoice.FinalAmount) {
		return domain.GetInvoiceResponse{}, domain.ErrSplitAmountMismatch
	}

	now := s.clock.Now()
	children := make([]domain.Invoice, 0, len(req.Allocations))
	for i, alloc := range req.Allocations {
		currency := alloc.Currency
		if currency == "" {
			currency = invoice.Currency
		}
		clientID := invoice.ClientID
		if alloc.ClientID != nil {
			parsed, err := snowflake.ParseString(strings.TrimSpace(*alloc.ClientID))
			if err != nil {
				return domain.GetInvoiceResponse{}, domain.ErrInvalidClientID
			}
			clientID = parsed
		}
		parentID := invoice.ID
		children = append(children, domain.Invoice{
			ID:            s.genID.Generate(),
			FirmID:        firmID,
			InvoiceNumber: fmt.Sprintf("%s-S%d", invoice.InvoiceNumber, i+1),
			ClientID:      clientID,
			MatterID:      invoice.MatterID,
			InvoiceDate:   invoice.InvoiceDate,
			DueDate:       invoice.DueDate,
			Subtotal:      alloc.Amount,
			FinalAmount:   alloc.Amount,
			Currency:      currency,
			Status:        domain.InvoiceStatusSent,
			ParentID:      &parentID,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&children).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Invoice{}).
			Where("firm_id = ? AND id = ?", firmID, invoice.ID).
			Updates(map[string]any{"is_parent": true, "updated_at": now}).Error
	})
	if err != nil {
		return domain.GetInvoiceResponse{}, err
	}

	invoice.IsParent = true
	invoice.UpdatedAt = now
	summary := aggregate.SummarizeSplits(children)
	return domain.GetInvoiceResponse{Invoice: *invoice, Children: children, SplitPaymentSummary: &summary}, nil
}

func (s *Service) RecordPayment(ctx context.Context, id string, req domain.RecordPaymentRequest) (domain.Invoice, error) {
	firmID, err := s.firmIDFromContext(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.loadInvoice(ctx, firmID, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice.Status == domain.InvoiceStatusVoid {
		return domain.Invoice{}, domain.ErrInvoiceVoided
	}
	// A split parent is not payable; each child settles on its own.
	if invoice.IsParent {
		return domain.Invoice{}, domain.ErrInvalidStatus
	}
	if req.Currency != invoice.Currency {
		return domain.Invoice{}, domain.ErrPaymentCurrency
	}
	if !req.Amount.IsPositive() {
		return domain.Invoice{}, domain.ErrOverpayment
	}

	remaining := invoice.FinalAmount.Sub(invoice.AmountPaid)
	if req.Amount.GreaterThan(remaining) {
		return domain.Invoice{}, domain.ErrOverpayment
	}

	now := s.clock.Now()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	payment := domain.Payment{
		ID:        s.genID.Generate(),
		FirmID:    firmID,
		InvoiceID: invoice.ID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		PaidAt:    paidAt,
		Method:    strings.TrimSpace(req.Method),
		Reference: strings.TrimSpace(req.Reference),
		CreatedAt: now,
	}

	invoice.AmountPaid = invoice.AmountPaid.Add(req.Amount)
	if invoice.AmountPaid.GreaterThanOrEqual(invoice.FinalAmount) {
		invoice.Status = domain.InvoiceStatusPaid
	} else {
		invoice.Status = domain.InvoiceStatusPartiallyPaid
	}
	invoice.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Invoice{}).
			Where("firm_id = ? AND id = ?", firmID, invoice.ID).
			Updates(map[string]any{
				"amount_paid": invoice.AmountPaid,
				"status":      invoice.Status,
				"updated_at":  now,
			}).Error
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	return *invoice, nil
}

func (s *Service) loadInvoice(ctx context.Context, firmID snowflake.ID, id string) (*domain.Invoice, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidInvoiceID
	}

	var invoice domain.Invoice
	err = s.db.WithContext(ctx).
		Preload("Lines").
		Where("firm_id = ? AND id = ?", firmID, invoiceID).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (s *Service) loadChildren(ctx context.Context, firmID, parentID snowflake.ID) ([]domain.Invoice, error) {
	var children []domain.Invoice
	err := s.db.WithContext(ctx).
		Where("firm_id = ? AND parent_id = ?", firmID, parentID).
		Order("invoice_number asc").
		Find(&children).Error
	if err != nil {
		return nil, err
	}
	return children, nil
}

func (s *Service) loadPayments(ctx context.Context, firmID, invoiceID snowflake.ID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := s.db.WithContext(ctx).
		Where("firm_id = ? AND invoice_id = ?", firmID, invoiceID).
		Order("paid_at asc").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *Service) firmIDFromContext(ctx context.Context) (snowflake.ID, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return 0, domain.ErrInvalidFirm
	}
	return firmID, nil
}
