package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/javiator/tenant-management/internal/dto"
	"github.com/javiator/tenant-management/internal/mapping"
	"github.com/javiator/tenant-management/internal/models"
	"github.com/javiator/tenant-management/internal/repository"
)

type PropertyService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

func NewPropertyService(repos *repository.Repositories, logger *zap.Logger) *PropertyService {
	return &PropertyService{repos: repos, logger: logger}
}

func (s *PropertyService) List(ctx context.Context) ([]dto.Property, error) {
	var out []dto.Property
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		properties, err := tx.Properties.FindAll(ctx)
		if err != nil {
			return err
		}
		out = mapping.Properties(properties)
		return nil
	})
	return out, err
}

func (s *PropertyService) Create(ctx context.Context, in dto.Property) (dto.Property, error) {
	var out dto.Property
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		p := &models.Property{}
		applyProperty(in, p)
		if err := tx.Properties.Save(ctx, p); err != nil {
			return err
		}
		saved, err := tx.Properties.FindByID(ctx, p.ID)
		if err != nil {
			return err
		}
		out = mapping.Property(saved)
		return nil
	})
	return out, err
}

func (s *PropertyService) Get(ctx context.Context, id uint) (dto.Property, error) {
	var out dto.Property
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		p, err := tx.Properties.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "property", id)
		}
		out = mapping.Property(p)
		return nil
	})
	return out, err
}

// Update overwrites only the fields present in the request.
func (s *PropertyService) Update(ctx context.Context, id uint, in dto.Property) (dto.Property, error) {
	var out dto.Property
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		p, err := tx.Properties.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "property", id)
		}
		applyProperty(in, p)
		if err := tx.Properties.Save(ctx, p); err != nil {
			return err
		}
		saved, err := tx.Properties.FindByID(ctx, p.ID)
		if err != nil {
			return err
		}
		out = mapping.Property(saved)
		return nil
	})
	return out, err
}

// Delete removes the property and unassigns its tenants. It refuses while any
// transaction still references the property. A missing id is not an error.
func (s *PropertyService) Delete(ctx context.Context, id uint) error {
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Properties.FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return err
		}

		refs, err := tx.Transactions.CountByProperty(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &ConflictError{Resource: "property", ID: id, References: refs}
		}

		detached, err := tx.Tenants.DetachProperty(ctx, id)
		if err != nil {
			return err
		}
		if detached > 0 {
			s.logger.Info("unassigned tenants from deleted property",
				zap.Uint("property_id", id),
				zap.Int64("tenants", detached),
			)
		}

		return tx.Properties.DeleteByID(ctx, id)
	})
}

// Transactions lists every transaction recorded against the property.
func (s *PropertyService) Transactions(ctx context.Context, id uint) ([]dto.Transaction, error) {
	var out []dto.Transaction
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Properties.FindByID(ctx, id); err != nil {
			return notFound(err, "property", id)
		}
		txs, err := tx.Transactions.ListByProperty(ctx, id)
		if err != nil {
			return err
		}
		out = mapping.Transactions(txs)
		return nil
	})
	return out, err
}

func applyProperty(in dto.Property, p *models.Property) {
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.Rent != nil {
		p.Rent = *in.Rent
	}
	if in.Maintenance != nil {
		p.Maintenance = *in.Maintenance
	}
}
