package migration

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// The structs below are frozen snapshots of the tables as each migration
// created them. They must not follow later changes to internal/models.

type auditV1 struct {
	CreatedDate   time.Time `gorm:"column:created_date;not null"`
	CreatedBy     string    `gorm:"column:created_by;size:50;not null;default:'system'"`
	LastUpdated   time.Time `gorm:"column:last_updated;not null"`
	LastUpdatedBy string    `gorm:"column:last_updated_by;size:50;not null;default:'system'"`
}

type propertyV1 struct {
	ID          uint            `gorm:"primaryKey"`
	Address     string          `gorm:"size:255;not null"`
	Rent        decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	Maintenance decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	Audit       auditV1         `gorm:"embedded"`
}

func (propertyV1) TableName() string { return "property" }

type tenantV1 struct {
	ID                 uint            `gorm:"primaryKey"`
	Name               string          `gorm:"size:100;not null"`
	PropertyID         *uint           `gorm:"index"`
	Property           *propertyV1     `gorm:"foreignKey:PropertyID;constraint:OnDelete:SET NULL"`
	Passport           *string         `gorm:"size:50"`
	PassportValidity   *time.Time      `gorm:"type:date"`
	AadharNo           *string         `gorm:"size:20"`
	EmploymentDetails  *string         `gorm:"size:255"`
	PermanentAddress   *string         `gorm:"size:255"`
	ContactNo          *string         `gorm:"size:20"`
	EmergencyContactNo *string         `gorm:"size:20"`
	Rent               decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	Security           decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	MoveInDate         *time.Time      `gorm:"type:date"`
	ContractStartDate  *time.Time      `gorm:"type:date"`
	ContractExpiryDate *time.Time      `gorm:"type:date"`
	Audit              auditV1         `gorm:"embedded"`
}

func (tenantV1) TableName() string { return "tenant" }

type transactionV1 struct {
	ID              uint            `gorm:"primaryKey"`
	PropertyID      uint            `gorm:"not null;index"`
	Property        propertyV1      `gorm:"foreignKey:PropertyID;constraint:OnDelete:RESTRICT"`
	TenantID        *uint           `gorm:"index"`
	Tenant          *tenantV1       `gorm:"foreignKey:TenantID;constraint:OnDelete:RESTRICT"`
	Type            string          `gorm:"size:50;not null"`
	ForMonth        *string         `gorm:"size:20"`
	Amount          decimal.Decimal `gorm:"type:numeric;not null"`
	TransactionDate time.Time       `gorm:"type:date;not null"`
	Comments        *string         `gorm:"size:255"`
	Audit           auditV1         `gorm:"embedded"`
}

func (transactionV1) TableName() string { return "transaction" }

func init() {
	RegisterMigration(&Migration{
		Version: "20240101000001",
		Name:    "create_property",
		Up: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(&propertyV1{})
		},
		Down: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&propertyV1{})
		},
	})

	RegisterMigration(&Migration{
		Version: "20240101000002",
		Name:    "create_tenant",
		Up: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(&tenantV1{})
		},
		Down: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&tenantV1{})
		},
	})

	RegisterMigration(&Migration{
		Version: "20240101000003",
		Name:    "create_transaction",
		Up: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(&transactionV1{})
		},
		Down: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&transactionV1{})
		},
	})
}
