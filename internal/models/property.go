package models

import "github.com/shopspring/decimal"

// Property represents a rentable unit, the root of the ownership graph
type Property struct {
	ID          uint            `gorm:"primaryKey"`
	Address     string          `gorm:"size:255;not null"`
	Rent        decimal.Decimal `gorm:"type:numeric;not null"`
	Maintenance decimal.Decimal `gorm:"type:numeric;not null"`
	Audit
}

func (Property) TableName() string {
	return "property"
}

func (p *Property) PrimaryKey() uint {
	return p.ID
}
