package hotel

import (
	"context"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/core/tx"
	"tourops/internal/domain"
	"tourops/pkg/logger"
)

// Repository is the persistence contract for hotels.
type Repository = domain.CatalogRepository[*Hotel]

// Service provides business operations for the hotel catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new hotel service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create validates and saves a new hotel.
func (s *Service) Create(ctx context.Context, h *Hotel) error {
	if err := h.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, h)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "hotel created", "id", h.ID, "name", h.Name, "city", h.City)
	return nil
}

// Update validates and saves hotel changes.
func (s *Service) Update(ctx context.Context, h *Hotel) error {
	if err := h.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, h)
	})
}

// GetByID retrieves a hotel.
func (s *Service) GetByID(ctx context.Context, hotelID id.ID) (*Hotel, error) {
	return s.repo.GetByID(ctx, hotelID)
}

// Delete soft-deletes a hotel unless service items still reference it.
func (s *Service) Delete(ctx context.Context, hotelID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		referenced, err := s.repo.IsReferenced(ctx, hotelID)
		if err != nil {
			return err
		}
		if referenced {
			return apperror.NewConflict("hotel is referenced by service items").
				WithDetail("id", hotelID.String())
		}
		return s.repo.Delete(ctx, hotelID)
	})
}

// List returns hotels matching the filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Hotel], error) {
	return s.repo.List(ctx, filter)
}
