package client

import (
	"context"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/core/tx"
	"tourops/internal/domain"
	"tourops/pkg/logger"
)

// Repository is the persistence contract for clients.
type Repository = domain.CatalogRepository[*Client]

// Service provides business operations for the client catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new client service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create validates and saves a new client.
func (s *Service) Create(ctx context.Context, c *Client) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, c)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "client created", "id", c.ID, "name", c.Name)
	return nil
}

// Update validates and saves client changes.
func (s *Service) Update(ctx context.Context, c *Client) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, c)
	})
}

// GetByID retrieves a client.
func (s *Service) GetByID(ctx context.Context, clientID id.ID) (*Client, error) {
	return s.repo.GetByID(ctx, clientID)
}

// Delete soft-deletes a client unless bookings still reference it.
func (s *Service) Delete(ctx context.Context, clientID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		referenced, err := s.repo.IsReferenced(ctx, clientID)
		if err != nil {
			return err
		}
		if referenced {
			return apperror.NewConflict("client is referenced by bookings").
				WithDetail("id", clientID.String())
		}
		return s.repo.Delete(ctx, clientID)
	})
}

// List returns clients matching the filter.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Client], error) {
	return s.repo.List(ctx, filter)
}
