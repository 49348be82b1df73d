// Package booking provides bookings, their polymorphic service items, and
// the financial aggregation engine that keeps booking totals consistent.
package booking

import (
	"context"
	"time"

	"tourops/internal/core/apperror"
	"tourops/internal/core/entity"
	"tourops/internal/core/id"
	"tourops/internal/core/types"
)

// PaymentStatus reflects amountReceived against totalSellPrice.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// Booking is the aggregate root owning service items and vouchers.
//
// TotalCostPrice, TotalSellPrice and GrossProfit are derived state, written
// exclusively by Recompute. No other code path may set them.
type Booking struct {
	entity.BaseDocument

	// Code is the human-readable sequential identifier (BK-YYYYMMDD-NNNN)
	Code string `db:"code" json:"code"`

	ClientID id.ID `db:"client_id" json:"clientId"`

	Status Status `db:"status" json:"status"`

	// Travel window (optional until quoted)
	StartDate *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"endDate,omitempty"`

	PaxCount int    `db:"pax_count" json:"paxCount"`
	Currency string `db:"currency" json:"currency"`

	// Derived money totals, owned by the aggregator
	TotalCostPrice types.Money `db:"total_cost_price" json:"totalCostPrice"`
	TotalSellPrice types.Money `db:"total_sell_price" json:"totalSellPrice"`
	GrossProfit    types.Money `db:"gross_profit" json:"grossProfit"`

	PaymentStatus  PaymentStatus `db:"payment_status" json:"paymentStatus"`
	AmountReceived types.Money   `db:"amount_received" json:"amountReceived"`

	// Set exactly once, on the transition into the status
	ConfirmedAt *time.Time `db:"confirmed_at" json:"confirmedAt,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`

	Notes string `db:"notes" json:"notes,omitempty"`

	// Items are loaded separately (child table)
	Items []*ServiceItem `db:"-" json:"items,omitempty"`
}

// NewBooking creates a booking in the inquiry state. The code is assigned by
// the sequence allocator at save time.
func NewBooking(clientID id.ID, paxCount int, currency string) *Booking {
	return &Booking{
		BaseDocument:   entity.NewBaseDocument(),
		ClientID:       clientID,
		Status:         StatusInquiry,
		PaxCount:       paxCount,
		Currency:       currency,
		TotalCostPrice: types.Zero(),
		TotalSellPrice: types.Zero(),
		GrossProfit:    types.Zero(),
		AmountReceived: types.Zero(),
		PaymentStatus:  PaymentUnpaid,
	}
}

// Validate implements entity.Validatable.
func (b *Booking) Validate(ctx context.Context) error {
	if id.IsNil(b.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}

	if b.PaxCount < 0 {
		return apperror.NewValidation("pax count must not be negative").
			WithDetail("field", "paxCount")
	}

	if b.Currency == "" {
		return apperror.NewValidation("currency is required").
			WithDetail("field", "currency")
	}

	if !IsValidStatus(b.Status) {
		return apperror.NewValidation("unknown booking status").
			WithDetail("field", "status").
			WithDetail("value", string(b.Status))
	}

	if b.StartDate != nil && b.EndDate != nil && b.StartDate.After(*b.EndDate) {
		return apperror.NewMalformedInterval(
			types.FormatDate(*b.StartDate), types.FormatDate(*b.EndDate))
	}

	return nil
}

// TransitionTo moves the booking to the target status after validating the
// transition, stamping confirmedAt/completedAt exactly once.
func (b *Booking) TransitionTo(target Status, now time.Time) error {
	if err := CheckTransition(b.Status, target); err != nil {
		return err
	}

	b.Status = target
	switch target {
	case StatusConfirmed:
		if b.ConfirmedAt == nil {
			t := now.UTC()
			b.ConfirmedAt = &t
		}
	case StatusCompleted:
		if b.CompletedAt == nil {
			t := now.UTC()
			b.CompletedAt = &t
		}
	}
	return nil
}

// RefreshPaymentStatus rederives payment status from amountReceived and the
// current sell total. Anything received against a zero sell total already
// covers it, so that counts as paid.
func (b *Booking) RefreshPaymentStatus() {
	switch {
	case b.AmountReceived.IsZero() || b.AmountReceived.IsNegative():
		b.PaymentStatus = PaymentUnpaid
	case b.AmountReceived.GreaterThanOrEqual(b.TotalSellPrice):
		b.PaymentStatus = PaymentPaid
	default:
		b.PaymentStatus = PaymentPartial
	}
}

// Patch is a typed partial update: every updatable field is an explicit
// optional value. The engine iterates this fixed set rather than
// interpreting dynamic key presence on inbound requests.
type Patch struct {
	ClientID  *id.ID
	StartDate *time.Time
	EndDate   *time.Time
	PaxCount  *int
	Currency  *string
	Notes     *string
}

// Apply copies the set fields onto the booking. Derived totals, code and
// status are deliberately not patchable here.
func (b *Booking) Apply(p Patch) {
	if p.ClientID != nil {
		b.ClientID = *p.ClientID
	}
	if p.StartDate != nil {
		d := types.DateOnly(*p.StartDate)
		b.StartDate = &d
	}
	if p.EndDate != nil {
		d := types.DateOnly(*p.EndDate)
		b.EndDate = &d
	}
	if p.PaxCount != nil {
		b.PaxCount = *p.PaxCount
	}
	if p.Currency != nil {
		b.Currency = *p.Currency
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
}
