package voucher

import (
	"context"
	"fmt"
	"time"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/core/sequence"
	"tourops/internal/core/tx"
	"tourops/pkg/logger"
)

// NumberPrefix is the sequence prefix for voucher numbers.
const NumberPrefix = "VC"

// Service issues and lists vouchers.
type Service struct {
	repo      Repository
	allocator sequence.Allocator
	txManager tx.Manager
}

// NewService creates a new voucher service.
func NewService(repo Repository, allocator sequence.Allocator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		allocator: allocator,
		txManager: txManager,
	}
}

// Issue allocates a number and persists the voucher.
//
// The duplicate check runs before allocation: a re-issue for the same
// service item is rejected without burning a sequence value. The unique
// index on (service_item_id, type) closes the remaining race; a concurrent
// duplicate surfaces as the same conflict error.
func (s *Service) Issue(ctx context.Context, v *Voucher) error {
	if err := v.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.ExistsForServiceItem(ctx, v.ServiceItemID, v.Type)
	if err != nil {
		return fmt.Errorf("check existing voucher: %w", err)
	}
	if exists {
		return apperror.NewDuplicateVoucher(
			v.BookingID.String(), string(v.Type), v.ServiceItemID.String())
	}

	now := time.Now().UTC()
	number, err := s.allocator.Allocate(ctx, sequence.DefaultConfig(NumberPrefix), now)
	if err != nil {
		return fmt.Errorf("allocate voucher number: %w", err)
	}
	v.Number = number
	v.IssuedAt = now

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, v)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "voucher issued",
		"id", v.ID,
		"number", v.Number,
		"booking_id", v.BookingID,
		"type", v.Type)

	return nil
}

// GetByID retrieves a single voucher.
func (s *Service) GetByID(ctx context.Context, voucherID id.ID) (*Voucher, error) {
	return s.repo.GetByID(ctx, voucherID)
}

// ListByBooking returns a booking's vouchers.
func (s *Service) ListByBooking(ctx context.Context, bookingID id.ID) ([]*Voucher, error) {
	return s.repo.ListByBooking(ctx, bookingID)
}
