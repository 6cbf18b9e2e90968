package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/praxislegal/praxis/internal/clock"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/praxislegal/praxis/internal/firmctx"
	ratecarddomain "github.com/praxislegal/praxis/internal/ratecard/domain"
	"github.com/praxislegal/praxis/internal/timesheet/calc"
	"github.com/praxislegal/praxis/internal/timesheet/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Capability  firmctx.Capability
	RateCardSvc ratecarddomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	capability  firmctx.Capability
	rateCardSvc ratecarddomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("timesheet.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		capability:  p.Capability,
		rateCardSvc: p.RateCardSvc,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateEntryRequest) (domain.Entry, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Entry{}, domain.ErrInvalidFirm
	}

	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil {
		return domain.Entry{}, domain.ErrInvalidUser
	}
	matterID, err := snowflake.ParseString(strings.TrimSpace(req.MatterID))
	if err != nil {
		return domain.Entry{}, domain.ErrInvalidMatter
	}
	var clientID snowflake.ID
	if trimmed := strings.TrimSpace(req.ClientID); trimmed != "" {
		clientID, err = snowflake.ParseString(trimmed)
		if err != nil {
			return domain.Entry{}, domain.ErrInvalidID
		}
	}

	// Zero-duration entries are rejected before any amount derivation.
	if err := calc.ValidateDuration(req.BillableMinutes, req.NonBillableMinutes); err != nil {
		return domain.Entry{}, err
	}

	if !currencydomain.IsSupported(req.Currency) {
		return domain.Entry{}, domain.ErrInvalidCurrency
	}

	if req.HourlyRate != nil {
		if err := s.checkRateAgainstCard(ctx, req); err != nil {
			return domain.Entry{}, err
		}
	}

	for _, expense := range req.Expenses {
		if strings.TrimSpace(expense.Category) == "" || expense.Amount.IsNegative() {
			return domain.Entry{}, domain.ErrInvalidExpense
		}
	}

	now := s.clock.Now()
	entry := domain.Entry{
		ID:                 s.genID.Generate(),
		FirmID:             firmID,
		UserID:             userID,
		ClientID:           clientID,
		MatterID:           matterID,
		WorkDate:           ratecarddomain.DateOnly(req.WorkDate),
		BillableMinutes:    req.BillableMinutes,
		NonBillableMinutes: req.NonBillableMinutes,
		ActivityType:       strings.TrimSpace(req.ActivityType),
		HourlyRate:         req.HourlyRate,
		Currency:           req.Currency,
		Status:             domain.EntryStatusDraft,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if rate, ok := entry.RateMoney(); ok {
		charge := calc.TimeCharge(entry.BillableMinutes, rate)
		entry.CalculatedAmount = &charge.Amount
	}

	for _, input := range req.Expenses {
		entry.Expenses = append(entry.Expenses, domain.Expense{
			ID:          s.genID.Generate(),
			FirmID:      firmID,
			EntryID:     entry.ID,
			Category:    strings.TrimSpace(input.Category),
			SubCategory: strings.TrimSpace(input.SubCategory),
			Description: strings.TrimSpace(input.Description),
			Amount:      input.Amount,
			Vendor:      strings.TrimSpace(input.Vendor),
			Included:    input.Included,
			Status:      domain.ExpenseStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return domain.Entry{}, err
	}

	return entry, nil
}

// checkRateAgainstCard validates the submitted rate against the effective
// rate card range when one exists. Entries without a governing card pass
// through unchecked.
func (s *Service) checkRateAgainstCard(ctx context.Context, req domain.CreateEntryRequest) error {
	card, err := s.rateCardSvc.Resolve(ctx, ratecarddomain.ResolveRateRequest{
		UserID:      req.UserID,
		ServiceType: strings.TrimSpace(req.ActivityType),
		Date:        req.WorkDate,
	})
	if err != nil {
		if err == ratecarddomain.ErrNoEffectiveRate || err == ratecarddomain.ErrInvalidServiceType {
			return nil
		}
		return err
	}

	if card.Currency != req.Currency {
		return domain.ErrRateOutOfRange
	}
	if req.HourlyRate.LessThan(card.MinRate) || req.HourlyRate.GreaterThan(card.MaxRate) {
		return domain.ErrRateOutOfRange
	}
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListEntryRequest) (domain.ListEntryResponse, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.ListEntryResponse{}, domain.ErrInvalidFirm
	}

	stmt := s.db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("firm_id = ?", firmID).
		Preload("Expenses")

	if trimmed := strings.TrimSpace(req.UserID); trimmed != "" {
		userID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.ListEntryResponse{}, domain.ErrInvalidUser
		}
		stmt = stmt.Where("user_id = ?", userID)
	}
	if trimmed := strings.TrimSpace(req.MatterID); trimmed != "" {
		matterID, err := snowflake.ParseString(trimmed)
		if err != nil {
			return domain.ListEntryResponse{}, domain.ErrInvalidMatter
		}
		stmt = stmt.Where("matter_id = ?", matterID)
	}
	if req.DateFrom != nil {
		stmt = stmt.Where("work_date >= ?", ratecarddomain.DateOnly(*req.DateFrom))
	}
	if req.DateTo != nil {
		stmt = stmt.Where("work_date <= ?", ratecarddomain.DateOnly(*req.DateTo))
	}
	if req.Status != nil {
		stmt = stmt.Where("status = ?", *req.Status)
	}

	var entries []domain.Entry
	if err := stmt.Order("work_date asc, id asc").Find(&entries).Error; err != nil {
		return domain.ListEntryResponse{}, err
	}

	return domain.ListEntryResponse{Entries: entries}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Entry, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Entry{}, domain.ErrInvalidFirm
	}

	entryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Entry{}, domain.ErrInvalidID
	}

	return s.loadEntry(ctx, firmID, entryID)
}

func (s *Service) Approve(ctx context.Context, id string) (domain.Entry, error) {
	return s.review(ctx, id, domain.EntryStatusApproved)
}

func (s *Service) Reject(ctx context.Context, id string) (domain.Entry, error) {
	return s.review(ctx, id, domain.EntryStatusRejected)
}

func (s *Service) review(ctx context.Context, id string, status domain.EntryStatus) (domain.Entry, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Entry{}, domain.ErrInvalidFirm
	}

	if !s.capability.CanApproveTimesheets(ctx) {
		return domain.Entry{}, domain.ErrApprovalDenied
	}

	entryID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Entry{}, domain.ErrInvalidID
	}

	entry, err := s.loadEntry(ctx, firmID, entryID)
	if err != nil {
		return domain.Entry{}, err
	}

	now := s.clock.Now()
	if err := s.db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("id = ?", entryID).
		Updates(map[string]any{"status": status, "updated_at": now}).Error; err != nil {
		return domain.Entry{}, err
	}

	entry.Status = status
	entry.UpdatedAt = now
	return entry, nil
}

func (s *Service) SetExpenseInclusion(ctx context.Context, entryID string, updates []domain.ExpenseInclusionUpdate) (domain.Entry, error) {
	firmID, ok := firmctx.FirmIDFromContext(ctx)
	if !ok || firmID == 0 {
		return domain.Entry{}, domain.ErrInvalidFirm
	}

	id, err := snowflake.ParseString(strings.TrimSpace(entryID))
	if err != nil {
		return domain.Entry{}, domain.ErrInvalidID
	}

	entry, err := s.loadEntry(ctx, firmID, id)
	if err != nil {
		return domain.Entry{}, err
	}

	known := make(map[snowflake.ID]bool, len(entry.Expenses))
	for _, expense := range entry.Expenses {
		known[expense.ID] = true
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			expenseID, err := snowflake.ParseString(strings.TrimSpace(update.ExpenseID))
			if err != nil || !known[expenseID] {
				return domain.ErrExpenseNotFound
			}
			if err := tx.Model(&domain.Expense{}).
				Where("id = ? AND entry_id = ?", expenseID, id).
				Updates(map[string]any{"included": update.Included, "updated_at": now}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Entry{}, err
	}

	return s.loadEntry(ctx, firmID, id)
}

func (s *Service) loadEntry(ctx context.Context, firmID, id snowflake.ID) (domain.Entry, error) {
	var entry domain.Entry
	err := s.db.WithContext(ctx).
		Where("firm_id = ? AND id = ?", firmID, id).
		Preload("Expenses").
		First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Entry{}, domain.ErrNotFound
		}
		return domain.Entry{}, err
	}
	return entry, nil
}
