// Package repository holds the GORM-backed data access for every entity.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javiator/tenant-management/internal/models"
)

// ErrNotFound is returned when no row matches the requested key.
var ErrNotFound = errors.New("record not found")

// Clock supplies the instant written into audit columns.
type Clock func() time.Time

// UTCClock truncates to microseconds so stamps survive a round trip through postgres.
func UTCClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Store implements the CRUD operations shared by every entity table.
type Store[T any] struct {
	db    *gorm.DB
	actor string
	now   Clock
}

func NewStore[T any](db *gorm.DB, actor string, now Clock) *Store[T] {
	if actor == "" {
		actor = models.DefaultActor
	}
	if now == nil {
		now = UTCClock
	}
	return &Store[T]{db: db, actor: actor, now: now}
}

func (s *Store[T]) conn(ctx context.Context, preload ...string) *gorm.DB {
	q := s.db.WithContext(ctx)
	for _, association := range preload {
		q = q.Preload(association)
	}
	return q
}

// FindAll returns every row in id order, eagerly loading the named associations.
func (s *Store[T]) FindAll(ctx context.Context, preload ...string) ([]T, error) {
	var out []T
	if err := s.conn(ctx, preload...).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list %T: %w", *new(T), err)
	}
	return out, nil
}

// FindByID returns the row with the given key or ErrNotFound.
func (s *Store[T]) FindByID(ctx context.Context, id uint, preload ...string) (*T, error) {
	var entity T
	err := s.conn(ctx, preload...).First(&entity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %T %d: %w", entity, id, err)
	}
	return &entity, nil
}

// Save inserts the entity when its key is zero and updates it otherwise.
// Audit stamps are always set here, never by the caller.
func (s *Store[T]) Save(ctx context.Context, entity *T) error {
	if e, ok := any(entity).(models.Entity); ok {
		at := s.now()
		if e.PrimaryKey() == 0 {
			e.AuditFields().StampCreate(at, s.actor)
		} else {
			e.AuditFields().StampUpdate(at, s.actor)
		}
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error; err != nil {
		return fmt.Errorf("failed to save %T: %w", *entity, err)
	}
	return nil
}

// DeleteByID removes the row if present. Deleting a missing key is not an error.
func (s *Store[T]) DeleteByID(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(new(T), id).Error; err != nil {
		return fmt.Errorf("failed to delete %T %d: %w", *new(T), id, err)
	}
	return nil
}
