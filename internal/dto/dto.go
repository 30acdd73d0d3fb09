// Package dto defines the JSON transfer objects exchanged over the REST API.
//
// Every optional value is a pointer so that an absent field and an explicit
// null both decode to nil and are encoded back as null.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/javiator/tenant-management/internal/models"
)

func init() {
	// amounts go over the wire as JSON numbers; quoted strings are still accepted on input
	decimal.MarshalJSONWithoutQuotes = true
}

// AuditInfo carries the read-only write stamps. Values sent by clients are ignored.
type AuditInfo struct {
	CreatedDate   *time.Time `json:"createdDate"`
	CreatedBy     *string    `json:"createdBy"`
	LastUpdated   *time.Time `json:"lastUpdated"`
	LastUpdatedBy *string    `json:"lastUpdatedBy"`
}

type Property struct {
	ID          uint             `json:"id"`
	Address     *string          `json:"address" validate:"required,notblank,max=255"`
	Rent        *decimal.Decimal `json:"rent" validate:"required"`
	Maintenance *decimal.Decimal `json:"maintenance" validate:"required"`
	AuditInfo
}

type Tenant struct {
	ID                 uint             `json:"id"`
	Name               *string          `json:"name" validate:"required,notblank,max=100"`
	PropertyID         *uint            `json:"propertyId" validate:"required"`
	PropertyAddress    *string          `json:"propertyAddress"`
	Passport           *string          `json:"passport" validate:"omitempty,max=50"`
	PassportValidity   *models.Date     `json:"passportValidity"`
	AadharNo           *string          `json:"aadharNo" validate:"omitempty,max=20"`
	EmploymentDetails  *string          `json:"employmentDetails" validate:"omitempty,max=255"`
	PermanentAddress   *string          `json:"permanentAddress" validate:"omitempty,max=255"`
	ContactNo          *string          `json:"contactNo" validate:"omitempty,max=20"`
	EmergencyContactNo *string          `json:"emergencyContactNo" validate:"omitempty,max=20"`
	Rent               *decimal.Decimal `json:"rent"`
	Security           *decimal.Decimal `json:"security"`
	MoveInDate         *models.Date     `json:"moveInDate"`
	ContractStartDate  *models.Date     `json:"contractStartDate"`
	ContractExpiryDate *models.Date     `json:"contractExpiryDate"`
	AuditInfo
}

type Transaction struct {
	ID              uint             `json:"id"`
	PropertyID      *uint            `json:"propertyId" validate:"required"`
	PropertyAddress *string          `json:"propertyAddress"`
	TenantID        *uint            `json:"tenantId"`
	TenantName      *string          `json:"tenantName"`
	Type            *string          `json:"type" validate:"required,max=50"`
	ForMonth        *string          `json:"forMonth" validate:"omitempty,max=20"`
	Amount          *decimal.Decimal `json:"amount" validate:"required"`
	TransactionDate *models.Date     `json:"transactionDate" validate:"required"`
	Comments        *string          `json:"comments" validate:"omitempty,max=255"`
	AuditInfo
}
