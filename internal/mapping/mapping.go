// Package mapping converts entities into their flat transfer objects.
package mapping

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/javiator/tenant-management/internal/dto"
	"github.com/javiator/tenant-management/internal/models"
)

func Property(p *models.Property) dto.Property {
	return dto.Property{
		ID:          p.ID,
		Address:     stringPtr(p.Address),
		Rent:        decimalPtr(p.Rent),
		Maintenance: decimalPtr(p.Maintenance),
		AuditInfo:   audit(&p.Audit),
	}
}

// Tenant denormalises the assigned property into propertyId and propertyAddress.
func Tenant(t *models.Tenant) dto.Tenant {
	out := dto.Tenant{
		ID:                 t.ID,
		Name:               stringPtr(t.Name),
		PropertyID:         copyUint(t.PropertyID),
		Passport:           copyString(t.Passport),
		PassportValidity:   copyDate(t.PassportValidity),
		AadharNo:           copyString(t.AadharNo),
		EmploymentDetails:  copyString(t.EmploymentDetails),
		PermanentAddress:   copyString(t.PermanentAddress),
		ContactNo:          copyString(t.ContactNo),
		EmergencyContactNo: copyString(t.EmergencyContactNo),
		Rent:               decimalPtr(t.Rent),
		Security:           decimalPtr(t.Security),
		MoveInDate:         copyDate(t.MoveInDate),
		ContractStartDate:  copyDate(t.ContractStartDate),
		ContractExpiryDate: copyDate(t.ContractExpiryDate),
		AuditInfo:          audit(&t.Audit),
	}
	if t.Property != nil {
		out.PropertyID = uintPtr(t.Property.ID)
		out.PropertyAddress = stringPtr(t.Property.Address)
	}
	return out
}

// Transaction denormalises the property and, when present, the tenant.
func Transaction(tx *models.Transaction) dto.Transaction {
	out := dto.Transaction{
		ID:              tx.ID,
		PropertyID:      uintPtr(tx.PropertyID),
		TenantID:        copyUint(tx.TenantID),
		Type:            stringPtr(tx.Type),
		ForMonth:        copyString(tx.ForMonth),
		Amount:          decimalPtr(tx.Amount),
		TransactionDate: copyDate(&tx.TransactionDate),
		Comments:        copyString(tx.Comments),
		AuditInfo:       audit(&tx.Audit),
	}
	if tx.Property != nil {
		out.PropertyID = uintPtr(tx.Property.ID)
		out.PropertyAddress = stringPtr(tx.Property.Address)
	}
	if tx.Tenant != nil {
		out.TenantID = uintPtr(tx.Tenant.ID)
		out.TenantName = stringPtr(tx.Tenant.Name)
	}
	return out
}

func Properties(in []models.Property) []dto.Property {
	out := make([]dto.Property, 0, len(in))
	for i := range in {
		out = append(out, Property(&in[i]))
	}
	return out
}

func Tenants(in []models.Tenant) []dto.Tenant {
	out := make([]dto.Tenant, 0, len(in))
	for i := range in {
		out = append(out, Tenant(&in[i]))
	}
	return out
}

func Transactions(in []models.Transaction) []dto.Transaction {
	out := make([]dto.Transaction, 0, len(in))
	for i := range in {
		out = append(out, Transaction(&in[i]))
	}
	return out
}

func audit(a *models.Audit) dto.AuditInfo {
	var info dto.AuditInfo
	if !a.CreatedDate.IsZero() {
		info.CreatedDate = timePtr(a.CreatedDate)
	}
	if a.CreatedBy != "" {
		info.CreatedBy = stringPtr(a.CreatedBy)
	}
	if !a.LastUpdated.IsZero() {
		info.LastUpdated = timePtr(a.LastUpdated)
	}
	if a.LastUpdatedBy != "" {
		info.LastUpdatedBy = stringPtr(a.LastUpdatedBy)
	}
	return info
}

func stringPtr(s string) *string { return &s }

func uintPtr(v uint) *uint { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	return stringPtr(*s)
}

func copyUint(v *uint) *uint {
	if v == nil {
		return nil
	}
	return uintPtr(*v)
}

// copyDate maps a zero date to nil.
func copyDate(d *models.Date) *models.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	c := *d
	return &c
}
