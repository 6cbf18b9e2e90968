package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/praxislegal/praxis/internal/clock"
	"github.com/praxislegal/praxis/internal/contact/domain"
	"github.com/praxislegal/praxis/internal/firmctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newFixture(t *testing.T) (domain.Service, *snowflake.Node, context.Context) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Contact{}))

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

func TestContactCRUD(t *testing.T) {
	svc, node, ctx := newFixture(t)
	clientID := node.Generate().String()
	leadID := node.Generate().String()

	created, err := svc.Create(ctx, domain.CreateContactRequest{
		ClientID:    &clientID,
		Name:        "Rohan Desai",
		Email:       "rohan@acme.example",
		Designation: "CFO",
		IsPrimary:   true,
	})
	require.NoError(t, err)
	require.NotNil(t, created.ClientID)

	_, err = svc.Create(ctx, domain.CreateContactRequest{
		LeadID: &leadID,
		Name:   "Meera Kapoor",
	})
	require.NoError(t, err)

	byClient, err := svc.List(ctx, domain.ListContactRequest{ClientID: clientID})
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	assert.Equal(t, "Rohan Desai", byClient[0].Name)

	byLead, err := svc.List(ctx, domain.ListContactRequest{LeadID: leadID})
	require.NoError(t, err)
	assert.Len(t, byLead, 1)

	phone := "+91 98200 12345"
	demoted := false
	updated, err := svc.Update(ctx, created.ID.String(), domain.UpdateContactRequest{
		Phone:     &phone,
		IsPrimary: &demoted,
	})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.False(t, updated.IsPrimary)

	require.NoError(t, svc.Delete(ctx, created.ID.String()))
	_, err = svc.GetByID(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContactValidation(t *testing.T) {
	svc, _, ctx := newFixture(t)

	_, err := svc.Create(ctx, domain.CreateContactRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	bad := "not-a-snowflake"
	_, err = svc.Create(ctx, domain.CreateContactRequest{Name: "X", ClientID: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.Create(context.Background(), domain.CreateContactRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidFirm)
}
