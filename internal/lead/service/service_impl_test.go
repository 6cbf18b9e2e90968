package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/praxislegal/praxis/internal/clock"
	"github.com/praxislegal/praxis/internal/firmctx"
	"github.com/praxislegal/praxis/internal/lead/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newFixture(t *testing.T) (domain.Service, context.Context) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Lead{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	firmID := node.Generate()

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)),
	})
	return svc, firmctx.WithFirmID(context.Background(), int64(firmID))
}

func TestLeadLifecycle(t *testing.T) {
	svc, ctx := newFixture(t)

	lead, err := svc.Create(ctx, domain.CreateLeadRequest{
		Name:    "Meera Kapoor",
		Company: "Kapoor Textiles",
		Source:  "referral",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusNew, lead.Status)

	qualified := domain.LeadStatusQualified
	updated, err := svc.Update(ctx, lead.ID.String(), domain.UpdateLeadRequest{Status: &qualified})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusQualified, updated.Status)

	got, err := svc.GetByID(ctx, lead.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusQualified, got.Status)

	require.NoError(t, svc.Delete(ctx, lead.ID.String()))
	_, err = svc.GetByID(ctx, lead.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLeadValidation(t *testing.T) {
	svc, ctx := newFixture(t)

	_, err := svc.Create(ctx, domain.CreateLeadRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	lead, err := svc.Create(ctx, domain.CreateLeadRequest{Name: "Meera Kapoor"})
	require.NoError(t, err)

	bogus := domain.LeadStatus("PENDING")
	_, err = svc.Update(ctx, lead.ID.String(), domain.UpdateLeadRequest{Status: &bogus})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.Create(context.Background(), domain.CreateLeadRequest{Name: "Meera"})
	assert.ErrorIs(t, err, domain.ErrInvalidFirm)
}

func TestLeadListFilters(t *testing.T) {
	svc, ctx := newFixture(t)

	for _, source := range []string{"referral", "website", "referral"} {
		_, err := svc.Create(ctx, domain.CreateLeadRequest{Name: "Lead " + source, Source: source})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, domain.ListLeadRequest{Source: "referral"})
	require.NoError(t, err)
	assert.Len(t, resp.Leads, 2)

	resp, err = svc.List(ctx, domain.ListLeadRequest{Status: domain.LeadStatusNew})
	require.NoError(t, err)
	assert.Len(t, resp.Leads, 3)
}
