package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/praxislegal/praxis/internal/client/domain"
	"github.com/praxislegal/praxis/internal/client/repository"
	"github.com/praxislegal/praxis/internal/clock"
	contactdomain "github.com/praxislegal/praxis/internal/contact/domain"
	currencydomain "github.com/praxislegal/praxis/internal/currency/domain"
	"github.com/praxislegal/praxis/internal/firmctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc    domain.Service
	db     *gorm.DB
	node   *snowflake.Node
	ctx    context.Context
	firmID snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Client{}, &domain.Matter{}, &contactdomain.Contact{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	firmID := node.Generate()

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})

	return &fixture{
		svc:    svc,
		db:     db,
		node:   node,
		ctx:    firmctx.WithFirmID(context.Background(), int64(firmID)),
		firmID: firmID,
	}
}

func TestCreateClientWithContacts(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(f.ctx, domain.CreateClientRequest{
		Name:  "Acme Industries Pvt Ltd",
		Type:  domain.ClientTypeCompany,
		Email: "billing@acme.example",
		GSTIN: "27AABCU9603R1ZM",
		PrimaryContact: &domain.ContactInput{
			Name:        "Rohan Desai",
			Email:       "rohan@acme.example",
			Designation: "CFO",
		},
		AdditionalContacts: []domain.ContactInput{
			{Name: "Priya Nair", Email: "priya@acme.example"},
		},
	})
	require.NoError(t, err)

	assert.NotZero(t, resp.Client.ID)
	assert.Equal(t, domain.ClientStatusActive, resp.Client.Status)
	require.Len(t, resp.Steps, 3)
	for _, step := range resp.Steps {
		assert.True(t, step.OK, step.Step)
	}
	require.Len(t, resp.Contacts, 2)
	assert.True(t, resp.Contacts[0].IsPrimary)
	assert.False(t, resp.Contacts[1].IsPrimary)

	var count int64
	f.db.Model(&contactdomain.Contact{}).Where("client_id = ?", resp.Client.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestCreateClientContactStepFailureKeepsClient(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(f.ctx, domain.CreateClientRequest{
		Name: "Sharma & Associates",
		PrimaryContact: &domain.ContactInput{
			Name: "   ",
		},
		AdditionalContacts: []domain.ContactInput{
			{Name: "Kiran Rao"},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Steps, 3)
	assert.Equal(t, domain.StepResult{Step: "client", OK: true}, resp.Steps[0])
	assert.Equal(t, domain.StepResult{Step: "primary_contact", OK: false, Error: "invalid_name"}, resp.Steps[1])
	assert.Equal(t, domain.StepResult{Step: "contact_1", OK: true}, resp.Steps[2])

	// The client record stays committed despite the failed contact step.
	got, err := f.svc.GetByID(f.ctx, resp.Client.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Sharma & Associates", got.Name)

	require.Len(t, resp.Contacts, 1)
	assert.Equal(t, "Kiran Rao", resp.Contacts[0].Name)
}

func TestCreateClientValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, domain.CreateClientRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = f.svc.Create(f.ctx, domain.CreateClientRequest{Name: "Acme", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = f.svc.Create(context.Background(), domain.CreateClientRequest{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrInvalidFirm)
}

func TestUpdateClient(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(f.ctx, domain.CreateClientRequest{Name: "Old Name"})
	require.NoError(t, err)

	newName := "New Name LLP"
	city := "Mumbai"
	inactive := domain.ClientStatusInactive
	updated, err := f.svc.Update(f.ctx, created.Client.ID.String(), domain.UpdateClientRequest{
		Name:   &newName,
		City:   &city,
		Status: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name LLP", updated.Name)
	assert.Equal(t, "Mumbai", updated.City)
	assert.Equal(t, domain.ClientStatusInactive, updated.Status)

	empty := ""
	_, err = f.svc.Update(f.ctx, created.Client.ID.String(), domain.UpdateClientRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = f.svc.Update(f.ctx, f.node.Generate().String(), domain.UpdateClientRequest{Name: &newName})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListClientsFilter(t *testing.T) {
	f := newFixture(t)

	for _, name := range []string{"Acme Industries", "Bharat Steel", "Acme Legal Services"} {
		_, err := f.svc.Create(f.ctx, domain.CreateClientRequest{Name: name})
		require.NoError(t, err)
	}

	resp, err := f.svc.List(f.ctx, domain.ListClientRequest{Name: "Acme"})
	require.NoError(t, err)
	assert.Len(t, resp.Clients, 2)

	resp, err = f.svc.List(f.ctx, domain.ListClientRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Clients, 3)
}

func TestMatters(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.Create(f.ctx, domain.CreateClientRequest{Name: "Acme"})
	require.NoError(t, err)
	clientID := created.Client.ID.String()

	matter, err := f.svc.CreateMatter(f.ctx, clientID, domain.CreateMatterRequest{Title: "Trademark dispute"})
	require.NoError(t, err)
	assert.Equal(t, currencydomain.INR, matter.Currency)
	assert.Equal(t, domain.MatterStatusOpen, matter.Status)

	_, err = f.svc.CreateMatter(f.ctx, clientID, domain.CreateMatterRequest{Title: "Arbitration", Currency: "USD"})
	require.NoError(t, err)

	_, err = f.svc.CreateMatter(f.ctx, clientID, domain.CreateMatterRequest{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidMatter)

	_, err = f.svc.CreateMatter(f.ctx, clientID, domain.CreateMatterRequest{Title: "X", Currency: "XYZ"})
	assert.ErrorIs(t, err, currencydomain.ErrUnsupportedCurrency)

	_, err = f.svc.CreateMatter(f.ctx, f.node.Generate().String(), domain.CreateMatterRequest{Title: "Orphan"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	matters, err := f.svc.ListMatters(f.ctx, clientID)
	require.NoError(t, err)
	assert.Len(t, matters, 2)
}
