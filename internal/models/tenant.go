package models

import "github.com/shopspring/decimal"

// Tenant represents a person renting a property. A tenant may be unassigned.
type Tenant struct {
	ID                 uint   `gorm:"primaryKey"`
	Name               string `gorm:"size:100;not null"`
	PropertyID         *uint
	Property           *Property `gorm:"foreignKey:PropertyID"`
	Passport           *string
	PassportValidity   *Date
	AadharNo           *string
	EmploymentDetails  *string
	PermanentAddress   *string
	ContactNo          *string
	EmergencyContactNo *string
	Rent               decimal.Decimal `gorm:"type:numeric"`
	Security           decimal.Decimal `gorm:"type:numeric"`
	MoveInDate         *Date
	ContractStartDate  *Date
	ContractExpiryDate *Date
	Audit
}

func (Tenant) TableName() string {
	return "tenant"
}

func (t *Tenant) PrimaryKey() uint {
	return t.ID
}

// AssignProperty links the tenant to p, or unassigns it when p is nil.
func (t *Tenant) AssignProperty(p *Property) {
	t.Property = p
	if p == nil {
		t.PropertyID = nil
		return
	}
	id := p.ID
	t.PropertyID = &id
}
