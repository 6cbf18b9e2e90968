package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/praxislegal/praxis/internal/clock"
	"github.com/praxislegal/praxis/internal/firmctx"
	"github.com/praxislegal/praxis/internal/interaction/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc  domain.Service
	node *snowflake.Node
	ctx  context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Interaction{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	firmID := node.Generate()

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)),
	})
	return &fixture{svc: svc, node: node, ctx: firmctx.WithFirmID(context.Background(), int64(firmID))}
}

func TestInteractionCreateAndList(t *testing.T) {
	f := newFixture(t)
	leadID := f.node.Generate().String()
	clientID := f.node.Generate().String()

	earlier := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	_, err := f.svc.Create(f.ctx, domain.CreateInteractionRequest{
		LeadID:     &leadID,
		Kind:       domain.KindCall,
		Subject:    "Intro call",
		OccurredAt: &earlier,
	})
	require.NoError(t, err)

	entry, err := f.svc.Create(f.ctx, domain.CreateInteractionRequest{
		LeadID:  &leadID,
		Kind:    domain.KindMeeting,
		Subject: "Engagement terms",
	})
	require.NoError(t, err)
	// OccurredAt defaults to the clock when omitted.
	assert.Equal(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), entry.OccurredAt)

	_, err = f.svc.Create(f.ctx, domain.CreateInteractionRequest{
		ClientID: &clientID,
		Kind:     domain.KindEmail,
		Subject:  "Invoice query",
	})
	require.NoError(t, err)

	entries, err := f.svc.List(f.ctx, domain.ListInteractionRequest{LeadID: leadID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Most recent first.
	assert.Equal(t, "Engagement terms", entries[0].Subject)
	assert.Equal(t, "Intro call", entries[1].Subject)

	entries, err = f.svc.List(f.ctx, domain.ListInteractionRequest{ClientID: clientID})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestInteractionValidation(t *testing.T) {
	f := newFixture(t)
	leadID := f.node.Generate().String()

	_, err := f.svc.Create(f.ctx, domain.CreateInteractionRequest{
		LeadID:  &leadID,
		Kind:    domain.InteractionKind("FAX"),
		Subject: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	_, err = f.svc.Create(f.ctx, domain.CreateInteractionRequest{
		LeadID: &leadID,
		Kind:   domain.KindNote,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSubject)

	_, err = f.svc.Create(f.ctx, domain.CreateInteractionRequest{
		Kind:    domain.KindNote,
		Subject: "Orphan note",
	})
	assert.ErrorIs(t, err, domain.ErrMissingTarget)
}

func TestInteractionDelete(t *testing.T) {
	f := newFixture(t)
	leadID := f.node.Generate().String()

	entry, err := f.svc.Create(f.ctx, domain.CreateInteractionRequest{
		LeadID:  &leadID,
		Kind:    domain.KindNote,
		Subject: "To be removed",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx, entry.ID.String()))
	assert.ErrorIs(t, f.svc.Delete(f.ctx, entry.ID.String()), domain.ErrNotFound)
}
