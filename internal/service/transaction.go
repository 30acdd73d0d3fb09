package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/javiator/tenant-management/internal/dto"
	"github.com/javiator/tenant-management/internal/mapping"
	"github.com/javiator/tenant-management/internal/models"
	"github.com/javiator/tenant-management/internal/repository"
	"github.com/javiator/tenant-management/internal/validation"
)

type TransactionService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

func NewTransactionService(repos *repository.Repositories, logger *zap.Logger) *TransactionService {
	return &TransactionService{repos: repos, logger: logger}
}

func (s *TransactionService) List(ctx context.Context) ([]dto.Transaction, error) {
	var out []dto.Transaction
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		txs, err := tx.Transactions.ListAll(ctx)
		if err != nil {
			return err
		}
		out = mapping.Transactions(txs)
		return nil
	})
	return out, err
}

func (s *TransactionService) Create(ctx context.Context, in dto.Transaction) (dto.Transaction, error) {
	if in.PropertyID == nil {
		return dto.Transaction{}, validation.NewError("propertyId", "must not be null")
	}

	var out dto.Transaction
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		out, err = s.apply(ctx, tx, &models.Transaction{}, in)
		return err
	})
	return out, err
}

func (s *TransactionService) Get(ctx context.Context, id uint) (dto.Transaction, error) {
	var out dto.Transaction
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		t, err := tx.Transactions.FindByIDWithRelations(ctx, id)
		if err != nil {
			return notFound(err, "transaction", id)
		}
		out = mapping.Transaction(t)
		return nil
	})
	return out, err
}

// Update reassigns the property only when propertyId is present, and clears the
// tenant link when tenantId is absent.
func (s *TransactionService) Update(ctx context.Context, id uint, in dto.Transaction) (dto.Transaction, error) {
	var out dto.Transaction
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		t, err := tx.Transactions.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "transaction", id)
		}
		out, err = s.apply(ctx, tx, t, in)
		return err
	})
	return out, err
}

func (s *TransactionService) apply(ctx context.Context, tx *repository.Repositories, t *models.Transaction, in dto.Transaction) (dto.Transaction, error) {
	if in.PropertyID != nil {
		p, err := tx.Properties.FindByID(ctx, *in.PropertyID)
		if err != nil {
			return dto.Transaction{}, notFound(err, "property", *in.PropertyID)
		}
		t.AssignProperty(p)
	}
	if in.TenantID != nil {
		tenant, err := tx.Tenants.FindByID(ctx, *in.TenantID)
		if err != nil {
			return dto.Transaction{}, notFound(err, "tenant", *in.TenantID)
		}
		t.AssignTenant(tenant)
	} else {
		t.AssignTenant(nil)
	}
	if in.Type != nil {
		t.Type = *in.Type
	}
	t.ForMonth = in.ForMonth
	if in.Amount != nil {
		t.Amount = *in.Amount
	}
	if in.TransactionDate != nil {
		t.TransactionDate = *in.TransactionDate
	}
	t.Comments = in.Comments

	if err := tx.Transactions.Save(ctx, t); err != nil {
		return dto.Transaction{}, err
	}

	saved, err := tx.Transactions.FindByIDWithRelations(ctx, t.ID)
	if err != nil {
		return dto.Transaction{}, err
	}
	return mapping.Transaction(saved), nil
}

// Delete removes the transaction. A missing id is not an error.
func (s *TransactionService) Delete(ctx context.Context, id uint) error {
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Transactions.DeleteByID(ctx, id); err != nil {
			return err
		}
		s.logger.Debug("deleted transaction", zap.Uint("transaction_id", id))
		return nil
	})
}
