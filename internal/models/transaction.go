package models

import "github.com/shopspring/decimal"

// Transaction is a single ledger entry against a property, optionally attributed to a tenant
type Transaction struct {
	ID              uint      `gorm:"primaryKey"`
	PropertyID      uint      `gorm:"not null"`
	Property        *Property `gorm:"foreignKey:PropertyID"`
	TenantID        *uint
	Tenant          *Tenant         `gorm:"foreignKey:TenantID"`
	Type            string          `gorm:"size:50;not null"`
	ForMonth        *string         `gorm:"size:20"`
	Amount          decimal.Decimal `gorm:"type:numeric;not null"`
	TransactionDate Date            `gorm:"not null"`
	Comments        *string         `gorm:"size:255"`
	Audit
}

func (Transaction) TableName() string {
	return "transaction"
}

func (t *Transaction) PrimaryKey() uint {
	return t.ID
}

// AssignProperty links the transaction to p.
func (t *Transaction) AssignProperty(p *Property) {
	t.Property = p
	t.PropertyID = p.ID
}

// AssignTenant links the transaction to tn, or clears the link when tn is nil.
func (t *Transaction) AssignTenant(tn *Tenant) {
	t.Tenant = tn
	if tn == nil {
		t.TenantID = nil
		return
	}
	id := tn.ID
	t.TenantID = &id
}
