package supplier

import (
	"context"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/core/tx"
	"tourops/internal/domain"
	"tourops/pkg/logger"
)

// Repository is the persistence contract for suppliers.
type Repository = domain.CatalogRepository[*Supplier]

// Service provides business operations for the supplier catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new supplier service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create validates and saves a new supplier.
func (s *Service) Create(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, sup)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "supplier created", "id", sup.ID, "name", sup.Name, "type", sup.Type)
	return nil
}

// Update validates and saves supplier changes.
func (s *Service) Update(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, sup)
	})
}

// GetByID retrieves a supplier.
func (s *Service) GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	return s.repo.GetByID(ctx, supplierID)
}

// Delete soft-deletes a supplier unless hotels, vehicles or service items
// still reference it.
func (s *Service) Delete(ctx context.Context, supplierID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		referenced, err := s.repo.IsReferenced(ctx, supplierID)
		if err != nil {
			return err
		}
		if referenced {
			return apperror.NewConflict("supplier is referenced by other records").
				WithDetail("id", supplierID.String())
		}
		return s.repo.Delete(ctx, supplierID)
	})
}

// List returns suppliers matching the filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Supplier], error) {
	return s.repo.List(ctx, filter)
}
