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
	"github.com/praxislegal/praxis/internal/opportunity/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newFixture(t *testing.T) (domain.Service, *snowflake.Node, context.Context) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Opportunity{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	firmID := node.Generate()

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)),
	})
	return svc, node, firmctx.WithFirmID(context.Background(), int64(firmID))
}

func TestOpportunityLifecycle(t *testing.T) {
	svc, node, ctx := newFixture(t)
	clientID := node.Generate().String()

	opp, err := svc.Create(ctx, domain.CreateOpportunityRequest{
		ClientID:       &clientID,
		Title:          "Retainer renewal",
		EstimatedValue: decimal.NewFromInt(250000),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StageProspecting, opp.Stage)
	assert.Equal(t, currencydomain.INR, opp.Currency)

	won := domain.StageWon
	updated, err := svc.Update(ctx, opp.ID.String(), domain.UpdateOpportunityRequest{Stage: &won})
	require.NoError(t, err)
	assert.Equal(t, domain.StageWon, updated.Stage)

	opps, err := svc.List(ctx, domain.ListOpportunityRequest{ClientID: clientID})
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.True(t, opps[0].EstimatedValue.Equal(decimal.NewFromInt(250000)))

	require.NoError(t, svc.Delete(ctx, opp.ID.String()))
	_, err = svc.GetByID(ctx, opp.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOpportunityValidation(t *testing.T) {
	svc, _, ctx := newFixture(t)

	_, err := svc.Create(ctx, domain.CreateOpportunityRequest{Title: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)

	_, err = svc.Create(ctx, domain.CreateOpportunityRequest{
		Title:          "Negative",
		EstimatedValue: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidValue)

	_, err = svc.Create(ctx, domain.CreateOpportunityRequest{
		Title:    "Bad currency",
		Currency: "XYZ",
	})
	assert.ErrorIs(t, err, currencydomain.ErrUnsupportedCurrency)

	opp, err := svc.Create(ctx, domain.CreateOpportunityRequest{Title: "OK"})
	require.NoError(t, err)

	bogus := domain.OpportunityStage("PARKED")
	_, err = svc.Update(ctx, opp.ID.String(), domain.UpdateOpportunityRequest{Stage: &bogus})
	assert.ErrorIs(t, err, domain.ErrInvalidStage)
}

func TestOpportunityStageFilter(t *testing.T) {
	svc, _, ctx := newFixture(t)

	first, err := svc.Create(ctx, domain.CreateOpportunityRequest{Title: "One"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateOpportunityRequest{Title: "Two"})
	require.NoError(t, err)

	lost := domain.StageLost
	_, err = svc.Update(ctx, first.ID.String(), domain.UpdateOpportunityRequest{Stage: &lost})
	require.NoError(t, err)

	opps, err := svc.List(ctx, domain.ListOpportunityRequest{Stage: domain.StageLost})
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "One", opps[0].Title)
}
