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

type TenantService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

func NewTenantService(repos *repository.Repositories, logger *zap.Logger) *TenantService {
	return &TenantService{repos: repos, logger: logger}
}

func (s *TenantService) List(ctx context.Context) ([]dto.Tenant, error) {
	var out []dto.Tenant
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		tenants, err := tx.Tenants.ListWithProperty(ctx)
		if err != nil {
			return err
		}
		out = mapping.Tenants(tenants)
		return nil
	})
	return out, err
}

func (s *TenantService) Create(ctx context.Context, in dto.Tenant) (dto.Tenant, error) {
	var out dto.Tenant
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		out, err = s.apply(ctx, tx, &models.Tenant{}, in)
		return err
	})
	return out, err
}

func (s *TenantService) Get(ctx context.Context, id uint) (dto.Tenant, error) {
	var out dto.Tenant
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		t, err := tx.Tenants.FindByIDWithProperty(ctx, id)
		if err != nil {
			return notFound(err, "tenant", id)
		}
		out = mapping.Tenant(t)
		return nil
	})
	return out, err
}

// Update overwrites name, rent and security only when present and re-resolves
// the property only when propertyId is present. Every other field is replaced
// by the request value, null included.
func (s *TenantService) Update(ctx context.Context, id uint, in dto.Tenant) (dto.Tenant, error) {
	var out dto.Tenant
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		t, err := tx.Tenants.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "tenant", id)
		}
		out, err = s.apply(ctx, tx, t, in)
		return err
	})
	return out, err
}

func (s *TenantService) apply(ctx context.Context, tx *repository.Repositories, t *models.Tenant, in dto.Tenant) (dto.Tenant, error) {
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.PropertyID != nil {
		p, err := tx.Properties.FindByID(ctx, *in.PropertyID)
		if err != nil {
			return dto.Tenant{}, notFound(err, "property", *in.PropertyID)
		}
		t.AssignProperty(p)
	}
	t.Passport = in.Passport
	t.PassportValidity = in.PassportValidity
	t.AadharNo = in.AadharNo
	t.EmploymentDetails = in.EmploymentDetails
	t.PermanentAddress = in.PermanentAddress
	t.ContactNo = in.ContactNo
	t.EmergencyContactNo = in.EmergencyContactNo
	if in.Rent != nil {
		t.Rent = *in.Rent
	}
	if in.Security != nil {
		t.Security = *in.Security
	}
	t.MoveInDate = in.MoveInDate
	t.ContractStartDate = in.ContractStartDate
	t.ContractExpiryDate = in.ContractExpiryDate

	if err := tx.Tenants.Save(ctx, t); err != nil {
		return dto.Tenant{}, err
	}

	saved, err := tx.Tenants.FindByIDWithProperty(ctx, t.ID)
	if err != nil {
		return dto.Tenant{}, err
	}
	return mapping.Tenant(saved), nil
}

// Delete removes the tenant unless transactions still reference it.
// A missing id is not an error.
func (s *TenantService) Delete(ctx context.Context, id uint) error {
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Tenants.FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return err
		}

		refs, err := tx.Transactions.CountByTenant(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &ConflictError{Resource: "tenant", ID: id, References: refs}
		}
		if err := tx.Tenants.DeleteByID(ctx, id); err != nil {
			return err
		}
		s.logger.Debug("deleted tenant", zap.Uint("tenant_id", id))
		return nil
	})
}

// Transactions lists every transaction attributed to the tenant.
func (s *TenantService) Transactions(ctx context.Context, id uint) ([]dto.Transaction, error) {
	var out []dto.Transaction
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Tenants.FindByID(ctx, id); err != nil {
			return notFound(err, "tenant", id)
		}
		txs, err := tx.Transactions.ListByTenant(ctx, id)
		if err != nil {
			return err
		}
		out = mapping.Transactions(txs)
		return nil
	})
	return out, err
}
