package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/praxislegal/praxis/internal/clock"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/praxislegal/praxis/internal/firmctx"
	ratecarddomain "github.com/praxislegal/praxis/internal/ratecard/domain"
	ratecardrepo "github.com/praxislegal/praxis/internal/ratecard/repository"
	ratecardservice "github.com/praxislegal/praxis/internal/ratecard/service"
	"github.com/praxislegal/praxis/internal/timesheet/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	ctx   context.Context
}

func newFixture(t *testing.T, capability firmctx.Capability) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Entry{},
		&domain.Expense{},
		&ratecarddomain.RateCard{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	firmID := node.Generate()

	rateCardSvc := ratecardservice.New(ratecardservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  ratecardrepo.Provide(),
	})

	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fake,
		Capability:  capability,
		RateCardSvc: rateCardSvc,
	})

	return &fixture{
		svc:   svc,
		db:    db,
		node:  node,
		clock: fake,
		ctx:   firmctx.WithFirmID(context.Background(), int64(firmID)),
	}
}

func (f *fixture) createRequest() domain.CreateEntryRequest {
	rate := decimal.NewFromInt(200)
	return domain.CreateEntryRequest{
		UserID:          f.node.Generate().String(),
		MatterID:        f.node.Generate().String(),
		WorkDate:        f.clock.Now(),
		BillableMinutes: 360,
		ActivityType:    "drafting",
		HourlyRate:      &rate,
		Currency:        currencydomain.USD,
	}
}

func TestCreate_RejectsZeroDuration(t *testing.T) {
	f := newFixture(t, firmctx.AllowAll{})

	req := f.createRequest()
	req.BillableMinutes = 0
	req.NonBillableMinutes = 0

	_, err := f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrZeroDuration)
}

func TestCreate_ComputesCalculatedAmount(t *testing.T) {
	f := newFixture(t, firmctx.AllowAll{})

	entry, err := f.svc.Create(f.ctx, f.createRequest())
	require.NoError(t, err)
	require.NotNil(t, entry.CalculatedAmount)
	assert.True(t, entry.CalculatedAmount.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, currencydomain.USD, entry.Currency)
}

func TestCreate_PersistsExpenses(t *testing.T) {
	f := newFixture(t, firmctx.AllowAll{})

	req := f.createRequest()
	req.Expenses = []domain.CreateExpenseInput{
		{Category: "travel", Amount: decimal.NewFromInt(500), Included: true},
		{Category: "printing", Amount: decimal.NewFromInt(300), Included: false},
	}

	entry, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)

	stored, err := f.svc.GetByID(f.ctx, entry.ID.String())
	require.NoError(t, err)
	require.Len(t, stored.Expenses, 2)
}

func TestCreate_RateOutsideCardRangeRejected(t *testing.T) {
	f := newFixture(t, firmctx.AllowAll{})

	req := f.createRequest()

	// Governing card allows 250..400 USD for this user and activity.
	rcCtx := f.ctx
	rateCardSvc := ratecardservice.New(ratecardservice.Params{
		DB:    f.db,
		Log:   zap.NewNop(),
		GenID: f.node,
		Clock: f.clock,
		Repo:  ratecardrepo.Provide(),
	})
	_, err := rateCardSvc.Create(rcCtx, ratecarddomain.CreateRateCardRequest{
		UserID:        req.UserID,
		ServiceType:   "drafting",
		MinRate:       decimal.NewFromInt(250),
		MaxRate:       decimal.NewFromInt(400),
		Currency:      currencydomain.USD,
		EffectiveDate: f.clock.Now().AddDate(0, -1, 0),
	})
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx, req)
	assert.ErrorIs(t, err, domain.ErrRateOutOfRange)

	inRange := decimal.NewFromInt(300)
	req.HourlyRate = &inRange
	_, err = f.svc.Create(f.ctx, req)
	assert.NoError(t, err)
}

func TestApprove_DeniedWithoutCapability(t *testing.T) {
	f := newFixture(t, firmctx.Deny{})

	entry, err := f.svc.Create(f.ctx, f.createRequest())
	require.NoError(t, err)

	_, err = f.svc.Approve(f.ctx, entry.ID.String())
	assert.ErrorIs(t, err, domain.ErrApprovalDenied)
}

func TestApprove_SetsStatus(t *testing.T) {
	f := newFixture(t, firmctx.AllowAll{})

	entry, err := f.svc.Create(f.ctx, f.createRequest())
	require.NoError(t, err)

	approved, err := f.svc.Approve(f.ctx, entry.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusApproved, approved.Status)
}

func TestSetExpenseInclusion_BulkUpdate(t *testing.T) {
	f := newFixture(t, firmctx.AllowAll{})

	req := f.createRequest()
	req.Expenses = []domain.CreateExpenseInput{
		{Category: "travel", Amount: decimal.NewFromInt(500), Included: false},
		{Category: "courier", Amount: decimal.NewFromInt(120), Included: true},
	}
	entry, err := f.svc.Create(f.ctx, req)
	require.NoError(t, err)

	updates := make([]domain.ExpenseInclusionUpdate, 0, len(entry.Expenses))
	for _, expense := range entry.Expenses {
		updates = append(updates, domain.ExpenseInclusionUpdate{
			ExpenseID: expense.ID.String(),
			Included:  !expense.Included,
		})
	}

	updated, err := f.svc.SetExpenseInclusion(f.ctx, entry.ID.String(), updates)
	require.NoError(t, err)
	require.Len(t, updated.Expenses, 2)
	for _, expense := range updated.Expenses {
		for _, original := range entry.Expenses {
			if expense.ID == original.ID {
				assert.Equal(t, !original.Included, expense.Included)
			}
		}
	}
}

func TestSetExpenseInclusion_UnknownExpenseRejected(t *testing.T) {
	f := newFixture(t, firmctx.AllowAll{})

	entry, err := f.svc.Create(f.ctx, f.createRequest())
	require.NoError(t, err)

	_, err = f.svc.SetExpenseInclusion(f.ctx, entry.ID.String(), []domain.ExpenseInclusionUpdate{
		{ExpenseID: f.node.Generate().String(), Included: true},
	})
	assert.ErrorIs(t, err, domain.ErrExpenseNotFound)
}
