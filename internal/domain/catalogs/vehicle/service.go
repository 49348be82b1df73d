package vehicle

import (
	"context"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/core/tx"
	"tourops/internal/domain"
	"tourops/pkg/logger"
)

// Repository is the persistence contract for vehicles.
type Repository = domain.CatalogRepository[*Vehicle]

// Service provides business operations for the vehicle catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new vehicle service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create validates and saves a new vehicle.
func (s *Service) Create(ctx context.Context, v *Vehicle) error {
	if err := v.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, v)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "vehicle created", "id", v.ID, "name", v.Name, "type", v.Type)
	return nil
}

// Update validates and saves vehicle changes.
func (s *Service) Update(ctx context.Context, v *Vehicle) error {
	if err := v.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, v)
	})
}

// GetByID retrieves a vehicle.
func (s *Service) GetByID(ctx context.Context, vehicleID id.ID) (*Vehicle, error) {
	return s.repo.GetByID(ctx, vehicleID)
}

// Delete soft-deletes a vehicle unless rate periods or items reference it.
func (s *Service) Delete(ctx context.Context, vehicleID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		referenced, err := s.repo.IsReferenced(ctx, vehicleID)
		if err != nil {
			return err
		}
		if referenced {
			return apperror.NewConflict("vehicle is referenced by other records").
				WithDetail("id", vehicleID.String())
		}
		return s.repo.Delete(ctx, vehicleID)
	})
}

// List returns vehicles matching the filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Vehicle], error) {
	return s.repo.List(ctx, filter)
}
