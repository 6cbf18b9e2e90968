package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/praxislegal/praxis/internal/client/domain"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/praxislegal/praxis/internal/invoice/domain"
	"github.com/praxislegal/praxis/internal/invoice/render"
	partnersharedomain "github.com/praxislegal/praxis/internal/partnershare/domain"
	timesheetcalc "github.com/praxislegal/praxis/internal/timesheet/calc"
	timesheetdomain "github.com/praxislegal/praxis/internal/timesheet/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Render projects the invoice into the seven-section document and returns
// it as HTML. Document building is best-effort: lookups that fail are
// logged and their sections degrade to placeholders instead of aborting
// the export.
func (s *Service) Render(ctx context.Context, id string) (domain.RenderInvoiceResponse, error) {
	firmID, err := s.firmIDFromContext(ctx)
	if err != nil {
		return domain.RenderInvoiceResponse{}, err
	}

	invoice, err := s.loadInvoice(ctx, firmID, id)
	if err != nil {
		return domain.RenderInvoiceResponse{}, err
	}

	data := s.buildRenderData(ctx, firmID, invoice)
	html, err := s.renderer.RenderHTML(render.Render(data))
	if err != nil {
		return domain.RenderInvoiceResponse{}, err
	}
	return domain.RenderInvoiceResponse{RenderedHTML: html}, nil
}

// Document builds the section projection without an HTML pass. Download
// handlers feed it to their format-specific writer.
func (s *Service) Document(ctx context.Context, id string) (render.Document, error) {
	firmID, err := s.firmIDFromContext(ctx)
	if err != nil {
		return render.Document{}, err
	}

	invoice, err := s.loadInvoice(ctx, firmID, id)
	if err != nil {
		return render.Document{}, err
	}

	return render.Render(s.buildRenderData(ctx, firmID, invoice)), nil
}

func (s *Service) buildRenderData(ctx context.Context, firmID snowflake.ID, invoice *domain.Invoice) render.Data {
	data := render.Data{
		InvoiceNumber: invoice.InvoiceNumber,
		InvoiceDate:   invoice.InvoiceDate,
		DueDate:       invoice.DueDate,
		Status:        string(invoice.Status),
		Currency:      invoice.Currency,
		Subtotal:      currencydomain.New(invoice.Subtotal, invoice.Currency),
		FinalAmount:   invoice.FinalMoney(),
		AmountPaid:    currencydomain.New(invoice.AmountPaid, invoice.Currency),
	}

	discount := invoice.Subtotal.Sub(invoice.FinalAmount)
	if discount.IsPositive() {
		amount := currencydomain.New(discount, invoice.Currency)
		data.DiscountAmount = &amount
	}

	if client := s.lookupClient(ctx, firmID, invoice.ClientID); client != nil {
		data.ClientName = client.Name
		data.ClientAddress = client.Address
	}
	if invoice.MatterID != nil {
		if matter := s.lookupMatter(ctx, firmID, *invoice.MatterID); matter != nil {
			data.MatterTitle = matter.Title
		}
	}

	entries := s.lookupEntries(ctx, firmID, invoice.Lines)
	data.TimesheetEntries = buildTimesheetLines(invoice.Lines, entries)
	data.Fees = buildFeeSummary(data.TimesheetEntries)
	data.Expenses = buildExpenseLines(invoice.Lines, entries)

	if shares, err := s.shareSvc.List(ctx, invoice.ID.String()); err == nil {
		report := partnersharedomain.Compute(invoice.FinalMoney(), shares)
		for _, share := range report.Shares {
			name := share.PartnerName
			if name == "" {
				name = share.UserID.String()
			}
			data.PartnerShares = append(data.PartnerShares, render.PartnerShareLine{
				PartnerName: name,
				Percentage:  share.Percentage,
				Amount:      share.Amount,
			})
		}
	} else {
		s.log.Warn("partner shares unavailable for render",
			zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
	}

	if payments, err := s.loadPayments(ctx, firmID, invoice.ID); err == nil {
		for _, payment := range payments {
			data.Payments = append(data.Payments, render.PaymentLine{
				PaidAt:    payment.PaidAt,
				Method:    payment.Method,
				Reference: payment.Reference,
				Amount:    currencydomain.New(payment.Amount, payment.Currency),
			})
		}
	} else {
		s.log.Warn("payments unavailable for render",
			zap.String("invoice_id", invoice.ID.String()), zap.Error(err))
	}

	return data
}

func (s *Service) lookupClient(ctx context.Context, firmID, clientID snowflake.ID) *clientdomain.Client {
	var client clientdomain.Client
	err := s.db.WithContext(ctx).
		Where("firm_id = ? AND id = ?", firmID, clientID).
		First(&client).Error
	if err != nil {
		return nil
	}
	return &client
}

func (s *Service) lookupMatter(ctx context.Context, firmID, matterID snowflake.ID) *clientdomain.Matter {
	var matter clientdomain.Matter
	err := s.db.WithContext(ctx).
		Where("firm_id = ? AND id = ?", firmID, matterID).
		First(&matter).Error
	if err != nil {
		return nil
	}
	return &matter
}

func (s *Service) lookupEntries(ctx context.Context, firmID snowflake.ID, lines []domain.InvoiceLine) map[snowflake.ID]timesheetdomain.Entry {
	ids := make([]snowflake.ID, 0, len(lines))
	seen := make(map[snowflake.ID]bool)
	for _, line := range lines {
		if line.EntryID == nil || seen[*line.EntryID] {
			continue
		}
		seen[*line.EntryID] = true
		ids = append(ids, *line.EntryID)
	}
	if len(ids) == 0 {
		return nil
	}

	var entries []timesheetdomain.Entry
	err := s.db.WithContext(ctx).
		Where("firm_id = ? AND id IN ?", firmID, ids).
		Find(&entries).Error
	if err != nil {
		s.log.Warn("timesheet entries unavailable for render", zap.Error(err))
		return nil
	}

	byID := make(map[snowflake.ID]timesheetdomain.Entry, len(entries))
	for _, entry := range entries {
		byID[entry.ID] = entry
	}
	return byID
}

func buildTimesheetLines(lines []domain.InvoiceLine, entries map[snowflake.ID]timesheetdomain.Entry) []render.TimesheetLine {
	var out []render.TimesheetLine
	for _, line := range lines {
		if line.Kind != domain.LineKindTimeCharge {
			continue
		}
		tl := render.TimesheetLine{
			Description: line.Description,
			Amount:      currencydomain.New(line.Amount, line.Currency),
		}
		if line.EntryID != nil {
			if entry, ok := entries[*line.EntryID]; ok {
				tl.WorkDate = entry.WorkDate
				tl.LawyerName = entry.UserID.String()
				tl.ActivityType = entry.ActivityType
				tl.BillableHours = timesheetcalc.Hours(entry.BillableMinutes)
			}
		}
		out = append(out, tl)
	}
	return out
}

// buildFeeSummary rolls the timesheet lines up per lawyer. Lines for one
// lawyer are assumed currency-homogeneous; the first line's currency wins.
func buildFeeSummary(lines []render.TimesheetLine) []render.LawyerFee {
	type bucket struct {
		hours  decimal.Decimal
		amount currencydomain.Money
	}
	byLawyer := make(map[string]*bucket)
	var order []string
	for _, line := range lines {
		name := line.LawyerName
		if name == "" {
			name = "-"
		}
		b, ok := byLawyer[name]
		if !ok {
			b = &bucket{amount: currencydomain.Zero(line.Amount.Currency)}
			byLawyer[name] = b
			order = append(order, name)
		}
		b.hours = b.hours.Add(line.BillableHours)
		if line.Amount.Currency == b.amount.Currency {
			b.amount = currencydomain.New(b.amount.Amount.Add(line.Amount.Amount), b.amount.Currency)
		}
	}

	fees := make([]render.LawyerFee, 0, len(order))
	for _, name := range order {
		b := byLawyer[name]
		fees = append(fees, render.LawyerFee{
			LawyerName: name,
			Hours:      b.hours,
			Amount:     b.amount,
		})
	}
	return fees
}

func buildExpenseLines(lines []domain.InvoiceLine, entries map[snowflake.ID]timesheetdomain.Entry) []render.ExpenseLine {
	var out []render.ExpenseLine
	for _, line := range lines {
		if line.Kind != domain.LineKindExpense {
			continue
		}
		el := render.ExpenseLine{
			Category: line.Description,
			Amount:   currencydomain.New(line.Amount, line.Currency),
		}
		if line.EntryID != nil {
			if entry, ok := entries[*line.EntryID]; ok {
				el.Date = entry.WorkDate
			}
		}
		out = append(out, el)
	}
	return out
}
