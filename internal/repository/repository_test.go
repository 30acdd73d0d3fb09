package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiator/tenant-management/internal/database/databasetest"
	"github.com/javiator/tenant-management/internal/models"
	"github.com/javiator/tenant-management/internal/repository"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func setup(t *testing.T) (*repository.Repositories, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	repos := repository.New(databasetest.New(t), repository.WithActor("tester"), repository.WithClock(clock.Now))
	return repos, clock
}

func seedProperty(t *testing.T, repos *repository.Repositories, address string) *models.Property {
	p := &models.Property{Address: address, Rent: decimal.NewFromInt(1200), Maintenance: decimal.NewFromInt(100)}
	require.NoError(t, repos.Properties.Save(context.Background(), p))
	return p
}

func TestStore_SaveStampsAudit(t *testing.T) {
	ctx := context.Background()
	repos, clock := setup(t)

	p := seedProperty(t, repos, "221B Baker St")
	assert.NotZero(t, p.ID)
	assert.Equal(t, clock.t, p.CreatedDate)
	assert.Equal(t, p.CreatedDate, p.LastUpdated)
	assert.Equal(t, "tester", p.CreatedBy)
	assert.Equal(t, "tester", p.LastUpdatedBy)

	created := p.CreatedDate
	clock.Advance(time.Hour)
	p.Address = "10 Downing St"
	require.NoError(t, repos.Properties.Save(ctx, p))

	got, err := repos.Properties.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "10 Downing St", got.Address)
	assert.True(t, created.Equal(got.CreatedDate))
	assert.True(t, clock.t.Equal(got.LastUpdated))
	assert.True(t, got.Rent.Equal(decimal.NewFromInt(1200)))
}

func TestStore_FindAllOrdersByID(t *testing.T) {
	ctx := context.Background()
	repos, _ := setup(t)

	seedProperty(t, repos, "first")
	seedProperty(t, repos, "second")
	seedProperty(t, repos, "third")

	all, err := repos.Properties.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].Address)
	assert.Equal(t, "third", all[2].Address)
}

func TestStore_FindByIDMissing(t *testing.T) {
	repos, _ := setup(t)

	_, err := repos.Properties.FindByID(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_DeleteByIDIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos, _ := setup(t)
	p := seedProperty(t, repos, "gone")

	require.NoError(t, repos.Properties.DeleteByID(ctx, p.ID))
	require.NoError(t, repos.Properties.DeleteByID(ctx, p.ID))

	_, err := repos.Properties.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTenantRepository_WithProperty(t *testing.T) {
	ctx := context.Background()
	repos, _ := setup(t)
	p := seedProperty(t, repos, "221B Baker St")

	validity := models.NewDate(2030, time.June, 30)
	tenant := &models.Tenant{Name: "J. Watson", PassportValidity: &validity}
	tenant.AssignProperty(p)
	require.NoError(t, repos.Tenants.Save(ctx, tenant))

	unassigned := &models.Tenant{Name: "M. Hudson"}
	require.NoError(t, repos.Tenants.Save(ctx, unassigned))

	got, err := repos.Tenants.FindByIDWithProperty(ctx, tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Property)
	assert.Equal(t, "221B Baker St", got.Property.Address)
	require.NotNil(t, got.PassportValidity)
	assert.Equal(t, "2030-06-30", got.PassportValidity.String())

	all, err := repos.Tenants.ListWithProperty(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.NotNil(t, all[0].Property)
	assert.Nil(t, all[1].Property)
	assert.Nil(t, all[1].PropertyID)
}

func TestTenantRepository_DetachProperty(t *testing.T) {
	ctx := context.Background()
	repos, clock := setup(t)
	p := seedProperty(t, repos, "221B Baker St")

	for _, name := range []string{"a", "b"} {
		tn := &models.Tenant{Name: name}
		tn.AssignProperty(p)
		require.NoError(t, repos.Tenants.Save(ctx, tn))
	}

	clock.Advance(time.Minute)
	n, err := repos.Tenants.DetachProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err := repos.Tenants.ListWithProperty(ctx)
	require.NoError(t, err)
	for _, tn := range all {
		assert.Nil(t, tn.PropertyID)
		assert.True(t, clock.t.Equal(tn.LastUpdated))
	}
}

func TestTransactionRepository_Queries(t *testing.T) {
	ctx := context.Background()
	repos, _ := setup(t)
	p1 := seedProperty(t, repos, "one")
	p2 := seedProperty(t, repos, "two")

	tenant := &models.Tenant{Name: "J. Watson"}
	tenant.AssignProperty(p1)
	require.NoError(t, repos.Tenants.Save(ctx, tenant))

	save := func(p *models.Property, tn *models.Tenant, typ string) *models.Transaction {
		tx := &models.Transaction{
			Type:            typ,
			Amount:          decimal.RequireFromString("1200.50"),
			TransactionDate: models.NewDate(2024, time.January, 1),
		}
		tx.AssignProperty(p)
		tx.AssignTenant(tn)
		require.NoError(t, repos.Transactions.Save(ctx, tx))
		return tx
	}
	save(p1, tenant, "RENT")
	save(p1, nil, "MAINTENANCE")
	save(p2, nil, "MAINTENANCE")

	all, err := repos.Transactions.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.NotNil(t, all[0].Tenant)
	assert.Equal(t, "J. Watson", all[0].Tenant.Name)
	assert.Equal(t, "one", all[0].Property.Address)
	assert.True(t, all[0].Amount.Equal(decimal.RequireFromString("1200.5")))
	assert.Equal(t, "2024-01-01", all[0].TransactionDate.String())

	byProperty, err := repos.Transactions.ListByProperty(ctx, p1.ID)
	require.NoError(t, err)
	assert.Len(t, byProperty, 2)

	byTenant, err := repos.Transactions.ListByTenant(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, byTenant, 1)
	assert.Equal(t, "RENT", byTenant[0].Type)

	n, err := repos.Transactions.CountByProperty(ctx, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repos.Transactions.CountByTenant(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTransactionRepository_RestrictsPropertyDelete(t *testing.T) {
	ctx := context.Background()
	repos, _ := setup(t)
	p := seedProperty(t, repos, "one")

	tx := &models.Transaction{Type: "RENT", Amount: decimal.NewFromInt(1), TransactionDate: models.NewDate(2024, time.January, 1)}
	tx.AssignProperty(p)
	require.NoError(t, repos.Transactions.Save(ctx, tx))

	assert.Error(t, repos.Properties.DeleteByID(ctx, p.ID))
}

func TestRepositories_TransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repos, _ := setup(t)

	err := repos.Transaction(ctx, func(tx *repository.Repositories) error {
		seedProperty(t, tx, "rolled back")
		return repository.ErrNotFound
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := repos.Properties.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
