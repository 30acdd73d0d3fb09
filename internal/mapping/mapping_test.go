package mapping

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javiator/tenant-management/internal/models"
)

var stamp = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func baker() *models.Property {
	p := &models.Property{
		ID:          1,
		Address:     "221B Baker St",
		Rent:        decimal.NewFromInt(1200),
		Maintenance: decimal.NewFromInt(100),
	}
	p.StampCreate(stamp, "system")
	return p
}

func TestProperty(t *testing.T) {
	out := Property(baker())

	assert.Equal(t, uint(1), out.ID)
	assert.Equal(t, "221B Baker St", *out.Address)
	assert.True(t, out.Rent.Equal(decimal.NewFromInt(1200)))
	require.NotNil(t, out.CreatedDate)
	assert.Equal(t, stamp, *out.CreatedDate)
	assert.Equal(t, "system", *out.LastUpdatedBy)
}

func TestTenant_Denormalises(t *testing.T) {
	tenant := &models.Tenant{ID: 7, Name: "J. Watson"}
	tenant.AssignProperty(baker())

	out := Tenant(tenant)
	assert.Equal(t, uint(1), *out.PropertyID)
	assert.Equal(t, "221B Baker St", *out.PropertyAddress)
	assert.Nil(t, out.Passport)
	assert.Nil(t, out.MoveInDate)
	assert.Nil(t, out.CreatedDate)
}

func TestTenant_Unassigned(t *testing.T) {
	out := Tenant(&models.Tenant{ID: 7, Name: "J. Watson"})
	assert.Nil(t, out.PropertyID)
	assert.Nil(t, out.PropertyAddress)
}

func TestTransaction_Denormalises(t *testing.T) {
	tenant := &models.Tenant{ID: 3, Name: "J. Watson"}
	tx := &models.Transaction{
		ID:              9,
		Type:            "RENT",
		Amount:          decimal.NewFromInt(1200),
		TransactionDate: models.NewDate(2024, time.January, 1),
	}
	tx.AssignProperty(baker())
	tx.AssignTenant(tenant)

	out := Transaction(tx)
	assert.Equal(t, uint(1), *out.PropertyID)
	assert.Equal(t, "221B Baker St", *out.PropertyAddress)
	assert.Equal(t, uint(3), *out.TenantID)
	assert.Equal(t, "J. Watson", *out.TenantName)
	assert.Equal(t, "2024-01-01", out.TransactionDate.String())
	assert.Nil(t, out.ForMonth)
}

func TestTransaction_JSONShape(t *testing.T) {
	tx := &models.Transaction{
		ID:              9,
		Type:            "RENT",
		Amount:          decimal.RequireFromString("1200.50"),
		TransactionDate: models.NewDate(2024, time.January, 1),
	}
	tx.AssignProperty(baker())

	raw, err := json.Marshal(Transaction(tx))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, 1200.5, got["amount"])
	assert.Equal(t, "2024-01-01", got["transactionDate"])
	assert.Contains(t, got, "tenantId")
	assert.Nil(t, got["tenantId"])
	assert.Nil(t, got["tenantName"])
	assert.Nil(t, got["comments"])
}

func TestSlices(t *testing.T) {
	assert.Empty(t, Properties(nil))
	assert.NotNil(t, Properties(nil))
	assert.Len(t, Tenants([]models.Tenant{{Name: "a"}, {Name: "b"}}), 2)
	assert.Len(t, Transactions([]models.Transaction{{Type: "RENT"}}), 1)
}
