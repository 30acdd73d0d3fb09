// Package service implements the CRUD use cases on top of the repositories.
// Every call runs inside a single storage transaction.
package service

import (
	"go.uber.org/zap"

	"github.com/javiator/tenant-management/internal/repository"
)

// Services bundles the entity services the HTTP handlers depend on.
type Services struct {
	Properties   *PropertyService
	Tenants      *TenantService
	Transactions *TransactionService
}

func New(repos *repository.Repositories, logger *zap.Logger) *Services {
	return &Services{
		Properties:   NewPropertyService(repos, logger.Named("property")),
		Tenants:      NewTenantService(repos, logger.Named("tenant")),
		Transactions: NewTransactionService(repos, logger.Named("transaction")),
	}
}
