package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/javiator/tenant-management/internal/database/databasetest"
	"github.com/javiator/tenant-management/internal/dto"
	"github.com/javiator/tenant-management/internal/models"
	"github.com/javiator/tenant-management/internal/repository"
	"github.com/javiator/tenant-management/internal/service"
	"github.com/javiator/tenant-management/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) *decimal.Decimal { return ptr(decimal.RequireFromString(s)) }

func date(y int, m time.Month, d int) *models.Date { return ptr(models.NewDate(y, m, d)) }

func setup(t *testing.T) *service.Services {
	repos := repository.New(databasetest.New(t))
	return service.New(repos, zap.NewNop())
}

func createProperty(t *testing.T, svc *service.Services) dto.Property {
	p, err := svc.Properties.Create(context.Background(), dto.Property{
		Address:     ptr("221B Baker St"),
		Rent:        dec("1200"),
		Maintenance: dec("100"),
	})
	require.NoError(t, err)
	return p
}

func createTenant(t *testing.T, svc *service.Services, propertyID uint) dto.Tenant {
	tn, err := svc.Tenants.Create(context.Background(), dto.Tenant{
		Name:       ptr("J. Watson"),
		PropertyID: ptr(propertyID),
		Passport:   ptr("P1234567"),
		Rent:       dec("1200"),
	})
	require.NoError(t, err)
	return tn
}

func TestPropertyService_Create(t *testing.T) {
	svc := setup(t)

	p := createProperty(t, svc)
	assert.NotZero(t, p.ID)
	require.NotNil(t, p.CreatedDate)
	require.NotNil(t, p.LastUpdated)
	assert.Equal(t, *p.CreatedDate, *p.LastUpdated)
	assert.Equal(t, models.DefaultActor, *p.CreatedBy)
}

func TestPropertyService_CreateMatchesGet(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	created, err := svc.Properties.Create(ctx, dto.Property{
		Address:     ptr("1 Main St"),
		Rent:        dec("1200.555"),
		Maintenance: dec("12345678901.125"),
	})
	require.NoError(t, err)

	got, err := svc.Properties.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, created.Rent.Equal(*got.Rent), "%s != %s", created.Rent, got.Rent)
	assert.True(t, created.Maintenance.Equal(*got.Maintenance))
	assert.Equal(t, "1200.555", got.Rent.String())

	updated, err := svc.Properties.Update(ctx, created.ID, dto.Property{Maintenance: dec("0.125")})
	require.NoError(t, err)
	got, err = svc.Properties.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, updated.Maintenance.Equal(*got.Maintenance))
	assert.True(t, updated.LastUpdated.Equal(*got.LastUpdated))
}

func TestPropertyService_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	p := createProperty(t, svc)

	updated, err := svc.Properties.Update(ctx, p.ID, dto.Property{Rent: dec("1500")})
	require.NoError(t, err)
	assert.Equal(t, "221B Baker St", *updated.Address)
	assert.True(t, updated.Rent.Equal(decimal.NewFromInt(1500)))
	assert.True(t, updated.Maintenance.Equal(decimal.NewFromInt(100)))

	got, err := svc.Properties.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Rent.Equal(decimal.NewFromInt(1500)))
	assert.True(t, got.CreatedDate.Equal(*p.CreatedDate))
}

func TestPropertyService_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	_, err := svc.Properties.Get(ctx, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.Properties.Update(ctx, 999, dto.Property{})
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.Properties.Transactions(ctx, 999)
	var nf *service.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "property", nf.Resource)
	assert.Equal(t, uint(999), nf.ID)
}

func TestPropertyService_List(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	list, err := svc.Properties.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	createProperty(t, svc)
	createProperty(t, svc)
	list, err = svc.Properties.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Less(t, list[0].ID, list[1].ID)
}

func TestPropertyService_DeleteDetachesTenants(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	p := createProperty(t, svc)
	tn := createTenant(t, svc, p.ID)

	require.NoError(t, svc.Properties.Delete(ctx, p.ID))
	require.NoError(t, svc.Properties.Delete(ctx, p.ID))

	_, err := svc.Properties.Get(ctx, p.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	got, err := svc.Tenants.Get(ctx, tn.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PropertyID)
	assert.Nil(t, got.PropertyAddress)
}

func TestPropertyService_DeleteReferencedConflicts(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	p := createProperty(t, svc)
	tn := createTenant(t, svc, p.ID)

	_, err := svc.Transactions.Create(ctx, dto.Transaction{
		PropertyID:      ptr(p.ID),
		Type:            ptr("RENT"),
		Amount:          dec("1200"),
		TransactionDate: date(2024, time.January, 1),
	})
	require.NoError(t, err)

	err = svc.Properties.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, service.ErrConflict)

	// nothing was removed or detached
	_, err = svc.Properties.Get(ctx, p.ID)
	require.NoError(t, err)
	got, err := svc.Tenants.Get(ctx, tn.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, *got.PropertyID)
}

func TestTenantService_CreateResolvesProperty(t *testing.T) {
	svc := setup(t)
	p := createProperty(t, svc)

	tn := createTenant(t, svc, p.ID)
	assert.NotZero(t, tn.ID)
	assert.Equal(t, "221B Baker St", *tn.PropertyAddress)
	assert.Equal(t, "P1234567", *tn.Passport)
	assert.True(t, tn.Security.IsZero())
	assert.Nil(t, tn.MoveInDate)
}

func TestTenantService_CreateMissingPropertyPersistsNothing(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)

	_, err := svc.Tenants.Create(ctx, dto.Tenant{Name: ptr("ghost"), PropertyID: ptr(uint(42))})
	var nf *service.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "property", nf.Resource)

	list, err := svc.Tenants.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTenantService_UpdateOverwritesUnguardedFields(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	p := createProperty(t, svc)

	tn, err := svc.Tenants.Create(ctx, dto.Tenant{
		Name:             ptr("J. Watson"),
		PropertyID:       ptr(p.ID),
		Passport:         ptr("P1234567"),
		PassportValidity: date(2030, time.June, 30),
		ContactNo:        ptr("555-0100"),
		Rent:             dec("1200"),
		Security:         dec("2400"),
		MoveInDate:       date(2024, time.January, 1),
	})
	require.NoError(t, err)

	updated, err := svc.Tenants.Update(ctx, tn.ID, dto.Tenant{ContactNo: ptr("555-0199")})
	require.NoError(t, err)

	// guarded fields keep their values
	assert.Equal(t, "J. Watson", *updated.Name)
	assert.Equal(t, p.ID, *updated.PropertyID)
	assert.True(t, updated.Rent.Equal(decimal.NewFromInt(1200)))
	assert.True(t, updated.Security.Equal(decimal.NewFromInt(2400)))

	// everything else is replaced, null included
	assert.Equal(t, "555-0199", *updated.ContactNo)
	assert.Nil(t, updated.Passport)
	assert.Nil(t, updated.PassportValidity)
	assert.Nil(t, updated.MoveInDate)

	got, err := svc.Tenants.Get(ctx, tn.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Passport)
	assert.Equal(t, "221B Baker St", *got.PropertyAddress)
}

func TestTenantService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	p := createProperty(t, svc)

	in := dto.Tenant{
		Name:               ptr("J. Watson"),
		PropertyID:         ptr(p.ID),
		Passport:           ptr("P1234567"),
		PassportValidity:   date(2030, time.June, 30),
		AadharNo:           ptr("1234-5678-9012"),
		EmploymentDetails:  ptr("Army surgeon"),
		PermanentAddress:   ptr("Afghanistan"),
		ContactNo:          ptr("555-0100"),
		EmergencyContactNo: ptr("555-0101"),
		Rent:               dec("1200.50"),
		Security:           dec("2400"),
		MoveInDate:         date(2024, time.January, 1),
		ContractStartDate:  date(2024, time.January, 1),
		ContractExpiryDate: date(2024, time.December, 31),
	}
	created, err := svc.Tenants.Create(ctx, in)
	require.NoError(t, err)

	got, err := svc.Tenants.Get(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, *in.Name, *got.Name)
	assert.Equal(t, *in.AadharNo, *got.AadharNo)
	assert.Equal(t, *in.EmploymentDetails, *got.EmploymentDetails)
	assert.Equal(t, *in.PermanentAddress, *got.PermanentAddress)
	assert.Equal(t, *in.EmergencyContactNo, *got.EmergencyContactNo)
	assert.True(t, in.Rent.Equal(*got.Rent))
	assert.Equal(t, "2030-06-30", got.PassportValidity.String())
	assert.Equal(t, "2024-12-31", got.ContractExpiryDate.String())
}

func TestTenantService_GetMissing(t *testing.T) {
	_, err := setup(t).Tenants.Get(context.Background(), 5)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestTenantService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	p := createProperty(t, svc)
	tn := createTenant(t, svc, p.ID)
	other := createTenant(t, svc, p.ID)

	_, err := svc.Transactions.Create(ctx, dto.Transaction{
		PropertyID:      ptr(p.ID),
		TenantID:        ptr(tn.ID),
		Type:            ptr("RENT"),
		Amount:          dec("1200"),
		TransactionDate: date(2024, time.January, 1),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Tenants.Delete(ctx, tn.ID), service.ErrConflict)
	require.NoError(t, svc.Tenants.Delete(ctx, other.ID))
	require.NoError(t, svc.Tenants.Delete(ctx, other.ID))

	list, err := svc.Tenants.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tn.ID, list[0].ID)
}

func TestTenantService_Transactions(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	p := createProperty(t, svc)
	tn := createTenant(t, svc, p.ID)

	_, err := svc.Transactions.Create(ctx, dto.Transaction{
		PropertyID:      ptr(p.ID),
		TenantID:        ptr(tn.ID),
		Type:            ptr("RENT"),
		Amount:          dec("1200"),
		TransactionDate: date(2024, time.January, 1),
	})
	require.NoError(t, err)

	txs, err := svc.Tenants.Transactions(ctx, tn.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "J. Watson", *txs[0].TenantName)

	_, err = svc.Tenants.Transactions(ctx, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestTransactionService_Create(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	p := createProperty(t, svc)
	tn := createTenant(t, svc, p.ID)

	tx, err := svc.Transactions.Create(ctx, dto.Transaction{
		PropertyID:      ptr(p.ID),
		TenantID:        ptr(tn.ID),
		Type:            ptr("RENT"),
		ForMonth:        ptr("Jan 2024"),
		Amount:          dec("1200"),
		TransactionDate: date(2024, time.January, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, "J. Watson", *tx.TenantName)
	assert.Equal(t, "221B Baker St", *tx.PropertyAddress)
	assert.Equal(t, "Jan 2024", *tx.ForMonth)
	assert.Nil(t, tx.Comments)

	byProperty, err := svc.Properties.Transactions(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, byProperty, 1)
}

func TestTransactionService_CreateRequiresProperty(t *testing.T) {
	_, err := setup(t).Transactions.Create(context.Background(), dto.Transaction{Type: ptr("RENT")})

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "propertyId")
}

func TestTransactionService_CreateMissingReferencesPersistNothing(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	p := createProperty(t, svc)

	_, err := svc.Transactions.Create(ctx, dto.Transaction{
		PropertyID:      ptr(uint(77)),
		Type:            ptr("RENT"),
		Amount:          dec("1"),
		TransactionDate: date(2024, time.January, 1),
	})
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.Transactions.Create(ctx, dto.Transaction{
		PropertyID:      ptr(p.ID),
		TenantID:        ptr(uint(88)),
		Type:            ptr("RENT"),
		Amount:          dec("1"),
		TransactionDate: date(2024, time.January, 1),
	})
	var nf *service.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "tenant", nf.Resource)

	list, err := svc.Transactions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransactionService_UpdateClearsTenant(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	p := createProperty(t, svc)
	tn := createTenant(t, svc, p.ID)

	tx, err := svc.Transactions.Create(ctx, dto.Transaction{
		PropertyID:      ptr(p.ID),
		TenantID:        ptr(tn.ID),
		Type:            ptr("RENT"),
		Comments:        ptr("paid in cash"),
		Amount:          dec("1200"),
		TransactionDate: date(2024, time.January, 1),
	})
	require.NoError(t, err)

	updated, err := svc.Transactions.Update(ctx, tx.ID, dto.Transaction{Amount: dec("1300")})
	require.NoError(t, err)
	assert.Nil(t, updated.TenantID)
	assert.Nil(t, updated.TenantName)
	assert.Nil(t, updated.Comments)
	assert.Equal(t, "RENT", *updated.Type)
	assert.Equal(t, p.ID, *updated.PropertyID)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(1300)))
	assert.Equal(t, "2024-01-01", updated.TransactionDate.String())

	_, err = svc.Transactions.Update(ctx, 999, dto.Transaction{})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestTransactionService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := setup(t)
	p := createProperty(t, svc)

	tx, err := svc.Transactions.Create(ctx, dto.Transaction{
		PropertyID:      ptr(p.ID),
		Type:            ptr("MAINTENANCE"),
		Amount:          dec("100"),
		TransactionDate: date(2024, time.February, 1),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Transactions.Delete(ctx, tx.ID))
	require.NoError(t, svc.Transactions.Delete(ctx, tx.ID))

	_, err = svc.Transactions.Get(ctx, tx.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	// with the transaction gone the property can be deleted
	require.NoError(t, svc.Properties.Delete(ctx, p.ID))
}
