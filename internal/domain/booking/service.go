package booking

import (
	"context"
	"fmt"
	"time"

	"tourops/internal/core/apperror"
	"tourops/internal/core/audit"
	"tourops/internal/core/id"
	"tourops/internal/core/sequence"
	"tourops/internal/core/tx"
	"tourops/internal/core/types"
	"tourops/internal/observability/metrics"
	"tourops/pkg/logger"
)

// CodePrefix is the sequence prefix for booking codes.
const CodePrefix = "BK"

// Service provides business operations for bookings, their service items and
// the financial aggregation that keeps totals consistent.
//
// Every item mutation commits together with the owning booking's recompute:
// a partially applied edit with stale totals is an integrity violation, not a
// transient state.
type Service struct {
	repo      Repository
	items     ItemRepository
	allocator sequence.Allocator
	txManager tx.Manager
	audit     audit.Recorder
}

// NewService creates a new booking service.
func NewService(repo Repository, items ItemRepository, allocator sequence.Allocator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		allocator: allocator,
		txManager: txManager,
	}
}

// SetAuditRecorder enables audit trailing for booking mutations. Entries are
// written inside the mutation's transaction.
func (s *Service) SetAuditRecorder(recorder audit.Recorder) {
	s.audit = recorder
}

func (s *Service) recordAudit(ctx context.Context, bookingID id.ID, action string, changes map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, "booking", bookingID, action, changes); err != nil {
		logger.Warn(ctx, "audit record failed",
			"booking_id", bookingID,
			"action", action,
			"error", err)
	}
}

// Create validates and saves a new booking, allocating its code.
func (s *Service) Create(ctx context.Context, b *Booking) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	if b.Code == "" {
		code, err := s.allocator.Allocate(ctx, sequence.DefaultConfig(CodePrefix), time.Now())
		if err != nil {
			return fmt.Errorf("allocate booking code: %w", err)
		}
		b.Code = code
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, b)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "booking created",
		"id", b.ID,
		"code", b.Code,
		"client_id", b.ClientID)

	return nil
}

// GetByID retrieves a booking with its service items. The head record and
// the items load in one read-only transaction when the manager supports it,
// so the items always match the totals snapshot.
func (s *Service) GetByID(ctx context.Context, bookingID id.ID) (*Booking, error) {
	var b *Booking
	load := func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}

		items, err := s.items.ListByBooking(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		b.Items = items
		return nil
	}

	var err error
	if ro, ok := s.txManager.(tx.ReadOnlyManager); ok {
		err = ro.ReadOnly(ctx, load)
	} else {
		err = load(ctx)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Update applies a typed partial update to the booking head record.
func (s *Service) Update(ctx context.Context, bookingID id.ID, patch Patch) (*Booking, error) {
	var updated *Booking
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		b.Apply(patch)
		if err := b.Validate(ctx); err != nil {
			return err
		}

		// The repo expects the loaded version as its lock predicate and
		// increments the column itself; Touch only after the write lands.
		if err := s.repo.Update(ctx, b); err != nil {
			return err
		}
		b.Touch()
		updated = b
		return nil
	})
	return updated, err
}

// ChangeStatus moves the booking through the explicit transition table,
// stamping confirmedAt/completedAt exactly once.
func (s *Service) ChangeStatus(ctx context.Context, bookingID id.ID, target Status) (*Booking, error) {
	var updated *Booking
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		from := b.Status
		if err := b.TransitionTo(target, time.Now()); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, b); err != nil {
			return err
		}
		b.Touch()

		s.recordAudit(ctx, b.ID, "status_change", map[string]any{
			"from": string(from),
			"to":   string(target),
		})
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "booking status changed",
		"id", bookingID,
		"status", target)

	return updated, nil
}

// RegisterPayment records a received amount and rederives payment status.
func (s *Service) RegisterPayment(ctx context.Context, bookingID id.ID, amount types.Money) (*Booking, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount")
	}

	var updated *Booking
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		b.AmountReceived = b.AmountReceived.Add(amount)
		b.RefreshPaymentStatus()

		if err := s.repo.Update(ctx, b); err != nil {
			return err
		}
		b.Touch()

		s.recordAudit(ctx, b.ID, "update", map[string]any{
			"amountReceived": b.AmountReceived.String(),
			"paymentStatus":  string(b.PaymentStatus),
		})
		updated = b
		return nil
	})
	return updated, err
}

// List returns bookings matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) (ListResult, error) {
	return s.repo.List(ctx, filter)
}

// AddItem creates a service item and recomputes the booking's totals in one
// transaction, holding the booking row lock throughout.
func (s *Service) AddItem(ctx context.Context, item *ServiceItem) (Totals, error) {
	if err := item.Validate(ctx); err != nil {
		return Totals{}, err
	}

	var totals Totals
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetForUpdate(ctx, item.BookingID)
		if err != nil {
			return err
		}

		if err := s.items.Create(ctx, item); err != nil {
			return err
		}

		totals, err = s.recomputeLocked(ctx, b)
		return err
	})
	return totals, err
}

// UpdateItem applies a typed partial update to an item and recomputes the
// owning booking's totals in the same transaction.
func (s *Service) UpdateItem(ctx context.Context, itemID id.ID, patch ItemPatch) (Totals, error) {
	var totals Totals
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		item, err := s.items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}

		b, err := s.repo.GetForUpdate(ctx, item.BookingID)
		if err != nil {
			return err
		}

		item.Apply(patch)
		if err := item.Validate(ctx); err != nil {
			return err
		}

		if err := s.items.Update(ctx, item); err != nil {
			return err
		}
		item.Touch()

		totals, err = s.recomputeLocked(ctx, b)
		return err
	})
	return totals, err
}

// DeleteItem hard-deletes an item and recomputes the owning booking's totals
// in the same transaction.
func (s *Service) DeleteItem(ctx context.Context, itemID id.ID) (Totals, error) {
	var totals Totals
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		item, err := s.items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}

		b, err := s.repo.GetForUpdate(ctx, item.BookingID)
		if err != nil {
			return err
		}

		if err := s.items.Delete(ctx, itemID); err != nil {
			return err
		}

		totals, err = s.recomputeLocked(ctx, b)
		return err
	})
	return totals, err
}

// Recompute rebuilds the booking's derived totals from its current items.
// Idempotent: unchanged children always yield identical totals.
func (s *Service) Recompute(ctx context.Context, bookingID id.ID) (Totals, error) {
	var totals Totals
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.repo.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		totals, err = s.recomputeLocked(ctx, b)
		return err
	})
	return totals, err
}

// recomputeLocked recomputes totals for a booking whose row lock is already
// held by the enclosing transaction.
func (s *Service) recomputeLocked(ctx context.Context, b *Booking) (Totals, error) {
	items, err := s.items.ListByBooking(ctx, b.ID)
	if err != nil {
		return Totals{}, err
	}

	for _, item := range items {
		if item.BookingID != b.ID {
			err := apperror.NewIntegrity("service item references wrong booking", nil).
				WithDetail("itemId", item.ID.String()).
				WithDetail("bookingId", b.ID.String())
			logger.Error(ctx, "aggregation integrity violation",
				"booking_id", b.ID,
				"item_id", item.ID)
			return Totals{}, err
		}
	}

	totals, err := ComputeTotals(items)
	if err != nil {
		logger.Error(ctx, "aggregation integrity violation",
			"booking_id", b.ID,
			"error", err)
		return Totals{}, err
	}

	b.TotalCostPrice = totals.TotalCostPrice
	b.TotalSellPrice = totals.TotalSellPrice
	b.GrossProfit = totals.GrossProfit
	b.RefreshPaymentStatus()

	if err := s.repo.UpdateTotals(ctx, b.ID, totals, b.PaymentStatus); err != nil {
		return Totals{}, err
	}

	s.recordAudit(ctx, b.ID, "recompute", map[string]any{
		"totalCostPrice": totals.TotalCostPrice.String(),
		"totalSellPrice": totals.TotalSellPrice.String(),
		"grossProfit":    totals.GrossProfit.String(),
	})

	metrics.BookingRecomputesTotal.Inc()
	return totals, nil
}
