package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/javiator/tenant-management/internal/models"
)

type PropertyRepository struct {
	*Store[models.Property]
}

type TenantRepository struct {
	*Store[models.Tenant]
}

// ListWithProperty returns all tenants with their property loaded.
func (r *TenantRepository) ListWithProperty(ctx context.Context) ([]models.Tenant, error) {
	return r.FindAll(ctx, "Property")
}

func (r *TenantRepository) FindByIDWithProperty(ctx context.Context, id uint) (*models.Tenant, error) {
	return r.FindByID(ctx, id, "Property")
}

// DetachProperty unassigns every tenant of the property and returns how many were changed.
func (r *TenantRepository) DetachProperty(ctx context.Context, propertyID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Tenant{}).
		Where("property_id = ?", propertyID).
		Updates(map[string]interface{}{
			"property_id":     nil,
			"last_updated":    r.now(),
			"last_updated_by": r.actor,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to detach tenants from property %d: %w", propertyID, res.Error)
	}
	return res.RowsAffected, nil
}

type TransactionRepository struct {
	*Store[models.Transaction]
}

var transactionAssociations = []string{"Property", "Tenant"}

// ListAll returns every transaction with its property and tenant loaded.
func (r *TransactionRepository) ListAll(ctx context.Context) ([]models.Transaction, error) {
	return r.FindAll(ctx, transactionAssociations...)
}

func (r *TransactionRepository) FindByIDWithRelations(ctx context.Context, id uint) (*models.Transaction, error) {
	return r.FindByID(ctx, id, transactionAssociations...)
}

func (r *TransactionRepository) ListByTenant(ctx context.Context, tenantID uint) ([]models.Transaction, error) {
	return r.listWhere(ctx, "tenant_id = ?", tenantID)
}

func (r *TransactionRepository) ListByProperty(ctx context.Context, propertyID uint) ([]models.Transaction, error) {
	return r.listWhere(ctx, "property_id = ?", propertyID)
}

func (r *TransactionRepository) listWhere(ctx context.Context, query string, id uint) ([]models.Transaction, error) {
	var out []models.Transaction
	err := r.conn(ctx, transactionAssociations...).Where(query, id).Order("id").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return out, nil
}

func (r *TransactionRepository) CountByProperty(ctx context.Context, propertyID uint) (int64, error) {
	return r.countWhere(ctx, "property_id = ?", propertyID)
}

func (r *TransactionRepository) CountByTenant(ctx context.Context, tenantID uint) (int64, error) {
	return r.countWhere(ctx, "tenant_id = ?", tenantID)
}

func (r *TransactionRepository) countWhere(ctx context.Context, query string, id uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Transaction{}).Where(query, id).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

// Repositories bundles the entity repositories over one database handle.
type Repositories struct {
	db    *gorm.DB
	actor string
	now   Clock

	Properties   *PropertyRepository
	Tenants      *TenantRepository
	Transactions *TransactionRepository
}

type Option func(*Repositories)

// WithActor sets the user name written to created_by and last_updated_by.
func WithActor(actor string) Option {
	return func(r *Repositories) { r.actor = actor }
}

// WithClock replaces the clock used for audit stamps.
func WithClock(now Clock) Option {
	return func(r *Repositories) { r.now = now }
}

func New(db *gorm.DB, opts ...Option) *Repositories {
	r := &Repositories{actor: models.DefaultActor, now: UTCClock}
	for _, opt := range opts {
		opt(r)
	}
	return r.bind(db)
}

func (r *Repositories) bind(db *gorm.DB) *Repositories {
	return &Repositories{
		db:           db,
		actor:        r.actor,
		now:          r.now,
		Properties:   &PropertyRepository{NewStore[models.Property](db, r.actor, r.now)},
		Tenants:      &TenantRepository{NewStore[models.Tenant](db, r.actor, r.now)},
		Transactions: &TransactionRepository{NewStore[models.Transaction](db, r.actor, r.now)},
	}
}

// Transaction runs fn with repositories bound to a single database transaction.
// Any error returned by fn rolls the transaction back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.bind(tx))
	})
}
