package booking

import (
	"context"
	"time"

	"tourops/internal/core/id"
)

// ListFilter narrows booking listings.
type ListFilter struct {
	ClientID *id.ID
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
	Limit    int
	Offset   int
}

// ListResult is a paginated booking listing.
type ListResult struct {
	Items      []*Booking `json:"items"`
	TotalCount int64      `json:"totalCount"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}

// Repository is the persistence contract for bookings.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	Update(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, bookingID id.ID) (*Booking, error)

	// GetForUpdate loads the booking with a row lock. Recompute and
	// concurrent child mutations of the same booking serialize on it;
	// different bookings proceed in parallel.
	GetForUpdate(ctx context.Context, bookingID id.ID) (*Booking, error)

	// UpdateTotals persists the derived money state and payment status.
	// The only write path for the three totals columns.
	UpdateTotals(ctx context.Context, bookingID id.ID, totals Totals, payment PaymentStatus) error

	List(ctx context.Context, filter ListFilter) (ListResult, error)
}

// ItemRepository is the persistence contract for service items.
type ItemRepository interface {
	Create(ctx context.Context, item *ServiceItem) error
	Update(ctx context.Context, item *ServiceItem) error

	// Delete hard-deletes the item. Items are children of one booking and
	// are removed immediately, never soft-marked.
	Delete(ctx context.Context, itemID id.ID) error

	GetByID(ctx context.Context, itemID id.ID) (*ServiceItem, error)
	ListByBooking(ctx context.Context, bookingID id.ID) ([]*ServiceItem, error)
}
