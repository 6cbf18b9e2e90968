package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/praxislegal/praxis/internal/client/domain"
	"github.com/praxislegal/praxis/internal/clock"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/praxislegal/praxis/internal/firmctx"
	"github.com/praxislegal/praxis/internal/invoice/aggregate"
	"github.com/praxislegal/praxis/internal/invoice/domain"
	"github.com/praxislegal/praxis/internal/invoice/render"
	partnersharedomain "github.com/praxislegal/praxis/internal/partnershare/domain"
	partnershareservice "github.com/praxislegal/praxis/internal/partnershare/service"
	timesheetdomain "github.com/praxislegal/praxis/internal/timesheet/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc      domain.Service
	shareSvc partnersharedomain.Service
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	ctx      context.Context
	firmID   snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Invoice{}, &domain.InvoiceLine{}, &domain.Payment{},
		&timesheetdomain.Entry{}, &timesheetdomain.Expense{},
		&partnersharedomain.PartnerShare{},
		&clientdomain.Client{}, &clientdomain.Matter{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	firmID := node.Generate()

	shareSvc := partnershareservice.New(partnershareservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
	})

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    fake,
		Renderer: render.NewRenderer(),
		ShareSvc: shareSvc,
	})

	return &fixture{
		svc:      svc,
		shareSvc: shareSvc,
		db:       db,
		node:     node,
		clock:    fake,
		ctx:      firmctx.WithFirmID(context.Background(), int64(firmID)),
		firmID:   firmID,
	}
}

func (f *fixture) createInvoice(t *testing.T, lines []domain.CreateLineInput, discountType *domain.DiscountType, discountValue *decimal.Decimal) domain.Invoice {
	t.Helper()
	invoice, err := f.svc.Create(f.ctx, domain.CreateInvoiceRequest{
		ClientID:      f.node.Generate().String(),
		InvoiceDate:   f.clock.Now(),
		DueDate:       f.clock.Now().AddDate(0, 1, 0),
		Currency:      currencydomain.INR,
		DiscountType:  discountType,
		DiscountValue: discountValue,
		Lines:         lines,
	})
	require.NoError(t, err)
	return invoice
}

func inr(amount int64) decimal.Decimal { return decimal.NewFromInt(amount) }

func TestCreateAppliesPercentageDiscount(t *testing.T) {
	f := newFixture(t)

	discountType := domain.DiscountTypePercentage
	discountValue := inr(10)
	invoice := f.createInvoice(t, []domain.CreateLineInput{
		{Kind: domain.LineKindTimeCharge, Amount: inr(8000), Currency: currencydomain.INR},
		{Kind: domain.LineKindExpense, Amount: inr(2000), Currency: currencydomain.INR},
	}, &discountType, &discountValue)

	assert.Equal(t, "10000", invoice.Subtotal.String())
	assert.Equal(t, "9000", invoice.FinalAmount.String())
	assert.Equal(t, domain.InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, "INV-2025-26-0001", invoice.InvoiceNumber)
}

func TestCreateRejectsDiscountExceedingSubtotal(t *testing.T) {
	f := newFixture(t)

	discountType := domain.DiscountTypeFixed
	discountValue := inr(5000)
	_, err := f.svc.Create(f.ctx, domain.CreateInvoiceRequest{
		ClientID:      f.node.Generate().String(),
		InvoiceDate:   f.clock.Now(),
		DueDate:       f.clock.Now().AddDate(0, 1, 0),
		Currency:      currencydomain.INR,
		DiscountType:  &discountType,
		DiscountValue: &discountValue,
		Lines: []domain.CreateLineInput{
			{Kind: domain.LineKindTimeCharge, Amount: inr(1000), Currency: currencydomain.INR},
		},
	})
	assert.ErrorIs(t, err, aggregate.ErrNegativeFinalAmount)
}

func TestCreateRejectsNegativeLineTotal(t *testing.T) {
	f := newFixture(t)

	// A credit line can drive the total negative without any discount.
	_, err := f.svc.Create(f.ctx, domain.CreateInvoiceRequest{
		ClientID:    f.node.Generate().String(),
		InvoiceDate: f.clock.Now(),
		DueDate:     f.clock.Now().AddDate(0, 1, 0),
		Currency:    currencydomain.INR,
		Lines: []domain.CreateLineInput{
			{Kind: domain.LineKindExpense, Amount: inr(-100), Currency: currencydomain.INR},
		},
	})
	assert.ErrorIs(t, err, aggregate.ErrNegativeFinalAmount)

	var count int64
	require.NoError(t, f.db.Model(&domain.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateMixedCurrencyKeepsInvoiceCurrencyScalar(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, []domain.CreateLineInput{
		{Kind: domain.LineKindTimeCharge, Amount: inr(1200), Currency: currencydomain.USD},
		{Kind: domain.LineKindExpense, Amount: inr(500), Currency: currencydomain.INR},
	}, nil, nil)

	// Stored scalars cover only the invoice-currency bucket.
	assert.Equal(t, "500", invoice.Subtotal.String())
	assert.Equal(t, true, invoice.Metadata["mixed_currencies"])

	buckets := aggregate.Subtotals(invoice.Lines)
	require.Len(t, buckets, 2)
	assert.Equal(t, currencydomain.INR, buckets[0].Currency)
	assert.Equal(t, currencydomain.USD, buckets[1].Currency)
}

func TestUpdateClearsMixedCurrencyFlag(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, []domain.CreateLineInput{
		{Kind: domain.LineKindTimeCharge, Amount: inr(1200), Currency: currencydomain.USD},
		{Kind: domain.LineKindExpense, Amount: inr(500), Currency: currencydomain.INR},
	}, nil, nil)
	assert.Equal(t, true, invoice.Metadata["mixed_currencies"])

	require.NoError(t, f.db.
		Where("invoice_id = ? AND currency = ?", invoice.ID, currencydomain.USD).
		Delete(&domain.InvoiceLine{}).Error)

	dueDate := f.clock.Now().AddDate(0, 2, 0)
	updated, err := f.svc.Update(f.ctx, invoice.ID.String(), domain.UpdateInvoiceRequest{DueDate: &dueDate})
	require.NoError(t, err)
	_, flagged := updated.Metadata["mixed_currencies"]
	assert.False(t, flagged)

	var stored domain.Invoice
	require.NoError(t, f.db.First(&stored, "id = ?", invoice.ID).Error)
	_, flagged = stored.Metadata["mixed_currencies"]
	assert.False(t, flagged)
}

func TestInvoiceNumberSequencePerFiscalYear(t *testing.T) {
	f := newFixture(t)

	first := f.createInvoice(t, nil, nil, nil)
	second := f.createInvoice(t, nil, nil, nil)

	assert.Equal(t, "INV-2025-26-0001", first.InvoiceNumber)
	assert.Equal(t, "INV-2025-26-0002", second.InvoiceNumber)
}

func TestListDerivesOverdueWithoutPersisting(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, nil, nil, nil)
	status := domain.InvoiceStatusSent
	_, err := f.svc.Update(f.ctx, invoice.ID.String(), domain.UpdateInvoiceRequest{Status: &status})
	require.NoError(t, err)

	f.clock.Advance(45 * 24 * time.Hour)

	resp, err := f.svc.List(f.ctx, domain.ListInvoiceRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Invoices, 1)
	assert.Equal(t, domain.InvoiceStatusOverdue, resp.Invoices[0].Status)

	var stored domain.Invoice
	require.NoError(t, f.db.First(&stored, "id = ?", invoice.ID).Error)
	assert.Equal(t, domain.InvoiceStatusSent, stored.Status)
}

func TestUpdateRejectsSettingOverdue(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, nil, nil, nil)
	status := domain.InvoiceStatusOverdue
	_, err := f.svc.Update(f.ctx, invoice.ID.String(), domain.UpdateInvoiceRequest{Status: &status})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestGenerateFromApprovedTimesheets(t *testing.T) {
	f := newFixture(t)
	clientID := f.node.Generate()

	rate := decimal.NewFromInt(200)
	charge := decimal.NewFromInt(1200)
	entry := timesheetdomain.Entry{
		ID:               f.node.Generate(),
		FirmID:           f.firmID,
		UserID:           f.node.Generate(),
		ClientID:         clientID,
		MatterID:         f.node.Generate(),
		WorkDate:         time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC),
		BillableMinutes:  360,
		ActivityType:     "Drafting",
		HourlyRate:       &rate,
		Currency:         currencydomain.USD,
		CalculatedAmount: &charge,
		Status:           timesheetdomain.EntryStatusApproved,
		Expenses: []timesheetdomain.Expense{
			{ID: f.node.Generate(), FirmID: f.firmID, Category: "Travel", Amount: inr(500), Included: true, Status: timesheetdomain.ExpenseStatusApproved},
			{ID: f.node.Generate(), FirmID: f.firmID, Category: "Courier", Amount: inr(300), Included: false, Status: timesheetdomain.ExpenseStatusApproved},
		},
	}
	require.NoError(t, f.db.Create(&entry).Error)

	// Draft entries in the same period are ignored.
	draft := timesheetdomain.Entry{
		ID:              f.node.Generate(),
		FirmID:          f.firmID,
		UserID:          entry.UserID,
		ClientID:        clientID,
		MatterID:        entry.MatterID,
		WorkDate:        time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC),
		BillableMinutes: 60,
		Currency:        currencydomain.USD,
		Status:          timesheetdomain.EntryStatusDraft,
	}
	require.NoError(t, f.db.Create(&draft).Error)

	invoice, err := f.svc.Generate(f.ctx, domain.GenerateInvoiceRequest{
		ClientID:    clientID.String(),
		PeriodStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, invoice.Lines, 2)
	assert.Equal(t, domain.LineKindTimeCharge, invoice.Lines[0].Kind)
	assert.Equal(t, "1200", invoice.Lines[0].Amount.String())
	assert.Equal(t, currencydomain.USD, invoice.Lines[0].Currency)
	assert.Equal(t, domain.LineKindExpense, invoice.Lines[1].Kind)
	assert.Equal(t, "500", invoice.Lines[1].Amount.String())
	assert.Equal(t, currencydomain.INR, invoice.Lines[1].Currency)

	// Invoice currency follows the first time charge.
	assert.Equal(t, currencydomain.USD, invoice.Currency)
	assert.Equal(t, "1200", invoice.Subtotal.String())
}

func TestGenerateWithoutEntriesRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(f.ctx, domain.GenerateInvoiceRequest{
		ClientID:    f.node.Generate().String(),
		PeriodStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, domain.ErrNoBillableEntries)
}

func TestSplitDistributesFinalAmount(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, []domain.CreateLineInput{
		{Kind: domain.LineKindTimeCharge, Amount: inr(10000), Currency: currencydomain.INR},
	}, nil, nil)

	resp, err := f.svc.Split(f.ctx, invoice.ID.String(), domain.SplitInvoiceRequest{
		Allocations: []domain.SplitAllocation{
			{Amount: inr(6000)},
			{Amount: inr(4000)},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.Invoice.IsParent)
	require.Len(t, resp.Children, 2)
	assert.Equal(t, invoice.InvoiceNumber+"-S1", resp.Children[0].InvoiceNumber)
	assert.Equal(t, "6000", resp.Children[0].FinalAmount.String())
	assert.Equal(t, &invoice.ID, resp.Children[0].ParentID)

	require.NotNil(t, resp.SplitPaymentSummary)
	require.Len(t, resp.SplitPaymentSummary.Splits, 2)
	assert.False(t, resp.SplitPaymentSummary.MixedCurrencies)
	require.NotNil(t, resp.SplitPaymentSummary.TotalDue)
	assert.Equal(t, "10000", resp.SplitPaymentSummary.TotalDue.Amount.String())
}

func TestSplitRejectsMismatchedTotal(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, []domain.CreateLineInput{
		{Kind: domain.LineKindTimeCharge, Amount: inr(10000), Currency: currencydomain.INR},
	}, nil, nil)

	_, err := f.svc.Split(f.ctx, invoice.ID.String(), domain.SplitInvoiceRequest{
		Allocations: []domain.SplitAllocation{
			{Amount: inr(6000)},
			{Amount: inr(3000)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrSplitAmountMismatch)
}

func TestSplitParentSummaryReconciles(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, []domain.CreateLineInput{
		{Kind: domain.LineKindTimeCharge, Amount: inr(10000), Currency: currencydomain.INR},
	}, nil, nil)

	resp, err := f.svc.Split(f.ctx, invoice.ID.String(), domain.SplitInvoiceRequest{
		Allocations: []domain.SplitAllocation{
			{Amount: inr(6000)},
			{Amount: inr(4000)},
		},
	})
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(f.ctx, resp.Children[0].ID.String(), domain.RecordPaymentRequest{
		Amount:   inr(6000),
		Currency: currencydomain.INR,
	})
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(f.ctx, resp.Children[1].ID.String(), domain.RecordPaymentRequest{
		Amount:   inr(1000),
		Currency: currencydomain.INR,
	})
	require.NoError(t, err)

	parent, err := f.svc.GetByID(f.ctx, invoice.ID.String())
	require.NoError(t, err)
	require.NotNil(t, parent.SplitPaymentSummary)
	summary := parent.SplitPaymentSummary

	require.NotNil(t, summary.TotalPaid)
	assert.Equal(t, "7000", summary.TotalPaid.Amount.String())
	assert.Equal(t, "3000", summary.TotalDue.Amount.String())
	assert.Equal(t, domain.InvoiceStatusPaid, parent.Children[0].Status)
	assert.Equal(t, domain.InvoiceStatusPartiallyPaid, parent.Children[1].Status)
}

func TestRecordPaymentGuards(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, []domain.CreateLineInput{
		{Kind: domain.LineKindTimeCharge, Amount: inr(5000), Currency: currencydomain.INR},
	}, nil, nil)

	_, err := f.svc.RecordPayment(f.ctx, invoice.ID.String(), domain.RecordPaymentRequest{
		Amount:   inr(5000),
		Currency: currencydomain.USD,
	})
	assert.ErrorIs(t, err, domain.ErrPaymentCurrency)

	_, err = f.svc.RecordPayment(f.ctx, invoice.ID.String(), domain.RecordPaymentRequest{
		Amount:   inr(6000),
		Currency: currencydomain.INR,
	})
	assert.ErrorIs(t, err, domain.ErrOverpayment)

	paid, err := f.svc.RecordPayment(f.ctx, invoice.ID.String(), domain.RecordPaymentRequest{
		Amount:   inr(5000),
		Currency: currencydomain.INR,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
}

func TestDeleteRemovesInvoiceWithChildren(t *testing.T) {
	f := newFixture(t)

	invoice := f.createInvoice(t, []domain.CreateLineInput{
		{Kind: domain.LineKindTimeCharge, Amount: inr(1000), Currency: currencydomain.INR},
	}, nil, nil)

	_, err := f.svc.Split(f.ctx, invoice.ID.String(), domain.SplitInvoiceRequest{
		Allocations: []domain.SplitAllocation{
			{Amount: inr(600)},
			{Amount: inr(400)},
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx, invoice.ID.String()))

	var count int64
	require.NoError(t, f.db.Model(&domain.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRenderProducesDocumentWithShares(t *testing.T) {
	f := newFixture(t)

	client := clientdomain.Client{
		ID:     f.node.Generate(),
		FirmID: f.firmID,
		Name:   "Acme Industries Pvt Ltd",
	}
	require.NoError(t, f.db.Create(&client).Error)

	discountType := domain.DiscountTypePercentage
	discountValue := inr(10)
	invoice, err := f.svc.Create(f.ctx, domain.CreateInvoiceRequest{
		ClientID:      client.ID.String(),
		InvoiceDate:   f.clock.Now(),
		DueDate:       f.clock.Now().AddDate(0, 1, 0),
		Currency:      currencydomain.INR,
		DiscountType:  &discountType,
		DiscountValue: &discountValue,
		Lines: []domain.CreateLineInput{
			{Kind: domain.LineKindTimeCharge, Amount: inr(10000), Currency: currencydomain.INR},
		},
	})
	require.NoError(t, err)

	_, err = f.shareSvc.Set(f.ctx, invoice.ID.String(), partnersharedomain.SetSharesRequest{
		Shares: []partnersharedomain.ShareInput{
			{UserID: f.node.Generate().String(), PartnerName: "A. Mehta", Percentage: inr(60)},
		},
	})
	require.NoError(t, err)

	resp, err := f.svc.Render(f.ctx, invoice.ID.String())
	require.NoError(t, err)

	assert.Contains(t, resp.RenderedHTML, "Acme Industries Pvt Ltd")
	assert.Contains(t, resp.RenderedHTML, invoice.InvoiceNumber)
	assert.Contains(t, resp.RenderedHTML, "A. Mehta")
	assert.Contains(t, resp.RenderedHTML, "Partner Split")
}
