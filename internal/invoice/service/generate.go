package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/praxislegal/praxis/internal/invoice/domain"
	invoiceformat "github.com/praxislegal/praxis/internal/invoice/format"
	timesheetdomain "github.com/praxislegal/praxis/internal/timesheet/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Generate builds an invoice from the client's approved timesheet entries
// inside the billing period. Each entry with a calculated amount becomes a
// time-charge line in the entry's currency; each included expense becomes
// an INR expense line.
func (s *Service) Generate(ctx context.Context, req domain.GenerateInvoiceRequest) (domain.Invoice, error) {
	firmID, err := s.firmIDFromContext(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}

	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidClientID
	}
	if !req.PeriodEnd.After(req.PeriodStart) {
		return domain.Invoice{}, domain.ErrInvalidPeriod
	}

	entries, err := s.listBillableEntries(ctx, firmID, clientID, req)
	if err != nil {
		return domain.Invoice{}, err
	}
	if len(entries) == 0 {
		return domain.Invoice{}, domain.ErrNoBillableEntries
	}

	now := s.clock.Now()
	invoiceID := s.genID.Generate()

	var lines []domain.InvoiceLine
	var currency currencydomain.Code
	for i := range entries {
		entry := entries[i]
		if entry.CalculatedAmount != nil && !entry.CalculatedAmount.IsZero() {
			if currency == "" {
				currency = entry.Currency
			}
			entryID := entry.ID
			lines = append(lines, domain.InvoiceLine{
				ID:          s.genID.Generate(),
				FirmID:      firmID,
				InvoiceID:   invoiceID,
				EntryID:     &entryID,
				Kind:        domain.LineKindTimeCharge,
				Description: describeEntry(entry),
				Amount:      *entry.CalculatedAmount,
				Currency:    entry.Currency,
				CreatedAt:   now,
			})
		}
		for _, expense := range entry.Expenses {
			if !expense.Included {
				continue
			}
			entryID := entry.ID
			lines = append(lines, domain.InvoiceLine{
				ID:          s.genID.Generate(),
				FirmID:      firmID,
				InvoiceID:   invoiceID,
				EntryID:     &entryID,
				Kind:        domain.LineKindExpense,
				Description: expense.Category,
				Amount:      expense.Amount,
				Currency:    currencydomain.INR,
				CreatedAt:   now,
			})
		}
	}
	if len(lines) == 0 {
		return domain.Invoice{}, domain.ErrNoBillableEntries
	}
	if currency == "" {
		currency = currencydomain.INR
	}

	invoice := domain.Invoice{
		ID:            invoiceID,
		FirmID:        firmID,
		ClientID:      clientID,
		InvoiceDate:   now,
		DueDate:       req.DueDate,
		Currency:      currency,
		Status:        domain.InvoiceStatusDraft,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		Lines:         lines,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.MatterID != nil {
		matterID, err := snowflake.ParseString(strings.TrimSpace(*req.MatterID))
		if err != nil {
			return domain.Invoice{}, domain.ErrInvalidInvoiceID
		}
		invoice.MatterID = &matterID
	}

	if err := s.applyTotals(&invoice); err != nil {
		return domain.Invoice{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.nextInvoiceNumber(ctx, tx, firmID, now)
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return domain.Invoice{}, err
	}

	s.log.Info("invoice generated from timesheets",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Int("lines", len(lines)),
	)
	return invoice, nil
}

func (s *Service) listBillableEntries(ctx context.Context, firmID, clientID snowflake.ID, req domain.GenerateInvoiceRequest) ([]timesheetdomain.Entry, error) {
	query := s.db.WithContext(ctx).
		Preload("Expenses").
		Where("firm_id = ? AND client_id = ? AND status = ?",
			firmID, clientID, timesheetdomain.EntryStatusApproved).
		Where("work_date >= ? AND work_date < ?", req.PeriodStart, req.PeriodEnd)
	if req.MatterID != nil {
		matterID, err := snowflake.ParseString(strings.TrimSpace(*req.MatterID))
		if err != nil {
			return nil, domain.ErrInvalidInvoiceID
		}
		query = query.Where("matter_id = ?", matterID)
	}

	var entries []timesheetdomain.Entry
	if err := query.Order("work_date asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// nextInvoiceNumber allocates the next per-firm sequence for the fiscal
// year inside the open transaction. The sequence restarts every fiscal
// year, matching the numbering template.
func (s *Service) nextInvoiceNumber(ctx context.Context, tx *gorm.DB, firmID snowflake.ID, issuedAt time.Time) (string, error) {
	prefix := "INV-" + invoiceformat.FiscalYear(issuedAt) + "-"

	var last string
	err := tx.WithContext(ctx).Model(&domain.Invoice{}).
		Where("firm_id = ? AND invoice_number LIKE ? AND parent_id IS NULL", firmID, prefix+"%").
		Order("invoice_number desc").
		Limit(1).
		Pluck("invoice_number", &last).Error
	if err != nil {
		return "", err
	}

	var seq int64 = 1
	if last != "" {
		if parsed, err := strconv.ParseInt(strings.TrimPrefix(last, prefix), 10, 64); err == nil {
			seq = parsed + 1
		}
	}
	return invoiceformat.InvoiceNumber(invoiceformat.DefaultInvoiceNumberTemplate, issuedAt, seq)
}

func describeEntry(entry timesheetdomain.Entry) string {
	hours := float64(entry.BillableMinutes) / 60.0
	if entry.ActivityType == "" {
		return fmt.Sprintf("Professional services, %.2f hours", hours)
	}
	return fmt.Sprintf("%s, %.2f hours", entry.ActivityType, hours)
}
