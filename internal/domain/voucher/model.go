// Package voucher provides service vouchers: numbered documents issued once
// per (booking, type, service item).
package voucher

import (
	"context"
	"time"

	"tourops/internal/core/apperror"
	"tourops/internal/core/entity"
	"tourops/internal/core/id"
)

// Type classifies the voucher by the service it covers.
type Type string

const (
	TypeHotel    Type = "hotel"
	TypeTour     Type = "tour"
	TypeTransfer Type = "transfer"
)

// Voucher is a numbered document handed to a supplier or client.
// The number is allocated by the sequence allocator, scoped by issue day.
type Voucher struct {
	entity.BaseEntity

	BookingID     id.ID  `db:"booking_id" json:"bookingId"`
	ServiceItemID id.ID  `db:"service_item_id" json:"serviceItemId"`
	Type          Type   `db:"type" json:"type"`
	Number        string `db:"number" json:"number"`

	IssuedAt time.Time `db:"issued_at" json:"issuedAt"`
}

// New creates an unissued voucher; number and issue time are assigned by the
// service at save time.
func New(bookingID, serviceItemID id.ID, voucherType Type) *Voucher {
	return &Voucher{
		BaseEntity:    entity.NewBaseEntity(),
		BookingID:     bookingID,
		ServiceItemID: serviceItemID,
		Type:          voucherType,
	}
}

// Validate implements entity.Validatable.
func (v *Voucher) Validate(ctx context.Context) error {
	if id.IsNil(v.BookingID) {
		return apperror.NewValidation("booking is required").
			WithDetail("field", "bookingId")
	}

	if id.IsNil(v.ServiceItemID) {
		return apperror.NewValidation("service item is required").
			WithDetail("field", "serviceItemId")
	}

	switch v.Type {
	case TypeHotel, TypeTour, TypeTransfer:
	default:
		return apperror.NewValidation("unknown voucher type").
			WithDetail("field", "type").
			WithDetail("value", string(v.Type))
	}

	return nil
}

// Repository is the persistence contract for vouchers.
type Repository interface {
	Create(ctx context.Context, v *Voucher) error
	GetByID(ctx context.Context, voucherID id.ID) (*Voucher, error)
	ListByBooking(ctx context.Context, bookingID id.ID) ([]*Voucher, error)

	// ExistsForServiceItem reports whether a voucher of the given type was
	// already issued for the service item.
	ExistsForServiceItem(ctx context.Context, serviceItemID id.ID, voucherType Type) (bool, error)
}
