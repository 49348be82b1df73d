package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/core/types"
	"tourops/internal/domain/booking"
	"tourops/internal/domain/voucher"
)

// CreateBookingRequest opens a new booking in inquiry status.
type CreateBookingRequest struct {
	ClientID  string `json:"clientId" binding:"required"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	PaxCount  int    `json:"paxCount" binding:"required"`
	Currency  string `json:"currency" binding:"required"`
	Notes     string `json:"notes"`
}

// ToEntity converts the request to a domain booking.
func (r CreateBookingRequest) ToEntity() (*booking.Booking, error) {
	clientID, err := id.Parse(r.ClientID)
	if err != nil {
		return nil, apperror.NewValidation("invalid clientId").WithDetail("field", "clientId")
	}

	b := booking.NewBooking(clientID, r.PaxCount, r.Currency)
	b.Notes = r.Notes

	if r.StartDate != "" {
		d, err := types.ParseDate(r.StartDate)
		if err != nil {
			return nil, apperror.NewValidation("invalid startDate, expected YYYY-MM-DD").
				WithDetail("field", "startDate")
		}
		b.StartDate = &d
	}
	if r.EndDate != "" {
		d, err := types.ParseDate(r.EndDate)
		if err != nil {
			return nil, apperror.NewValidation("invalid endDate, expected YYYY-MM-DD").
				WithDetail("field", "endDate")
		}
		b.EndDate = &d
	}

	return b, nil
}

// UpdateBookingRequest is a partial booking update; absent fields stay as
// they are.
type UpdateBookingRequest struct {
	ClientID  *string `json:"clientId"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	PaxCount  *int    `json:"paxCount"`
	Currency  *string `json:"currency"`
	Notes     *string `json:"notes"`
}

// ToPatch converts the request to a typed domain patch.
func (r UpdateBookingRequest) ToPatch() (booking.Patch, error) {
	var p booking.Patch

	if r.ClientID != nil {
		clientID, err := id.Parse(*r.ClientID)
		if err != nil {
			return p, apperror.NewValidation("invalid clientId").WithDetail("field", "clientId")
		}
		p.ClientID = &clientID
	}
	if r.StartDate != nil {
		d, err := types.ParseDate(*r.StartDate)
		if err != nil {
			return p, apperror.NewValidation("invalid startDate, expected YYYY-MM-DD").
				WithDetail("field", "startDate")
		}
		p.StartDate = &d
	}
	if r.EndDate != nil {
		d, err := types.ParseDate(*r.EndDate)
		if err != nil {
			return p, apperror.NewValidation("invalid endDate, expected YYYY-MM-DD").
				WithDetail("field", "endDate")
		}
		p.EndDate = &d
	}
	p.PaxCount = r.PaxCount
	p.Currency = r.Currency
	p.Notes = r.Notes

	return p, nil
}

// ChangeStatusRequest moves a booking through its lifecycle.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RegisterPaymentRequest records an incoming payment.
type RegisterPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreateItemRequest adds a service item to a booking. Which fields matter
// depends on the item type.
type CreateItemRequest struct {
	Type        string  `json:"type" binding:"required"`
	Description string  `json:"description"`
	ServiceDate *string `json:"serviceDate"`

	HotelID      *string          `json:"hotelId"`
	CostPerNight *decimal.Decimal `json:"costPerNight"`
	Nights       *int             `json:"nights"`
	Rooms        *int             `json:"rooms"`

	SupplierOperated *bool            `json:"supplierOperated"`
	SupplierID       *string          `json:"supplierId"`
	SupplierCost     *decimal.Decimal `json:"supplierCost"`
	GuideCost        *decimal.Decimal `json:"guideCost"`
	VehicleCost      *decimal.Decimal `json:"vehicleCost"`
	EntranceFees     *decimal.Decimal `json:"entranceFees"`
	OtherCosts       *decimal.Decimal `json:"otherCosts"`

	VehicleID *string `json:"vehicleId"`

	CostPrice *decimal.Decimal `json:"costPrice"`
	SellPrice *decimal.Decimal `json:"sellPrice"`
}

// ToEntity converts the request to a domain service item.
func (r CreateItemRequest) ToEntity(bookingID id.ID) (*booking.ServiceItem, error) {
	item := booking.NewServiceItem(bookingID, booking.ItemType(r.Type))
	item.Description = r.Description

	patch, err := r.asPatch()
	if err != nil {
		return nil, err
	}
	item.Apply(patch)

	return item, nil
}

// asPatch reuses the patch plumbing for the initial field assignment.
func (r CreateItemRequest) asPatch() (booking.ItemPatch, error) {
	var p booking.ItemPatch

	if r.ServiceDate != nil {
		d, err := types.ParseDate(*r.ServiceDate)
		if err != nil {
			return p, apperror.NewValidation("invalid serviceDate, expected YYYY-MM-DD").
				WithDetail("field", "serviceDate")
		}
		p.ServiceDate = &d
	}
	if r.HotelID != nil {
		hotelID, err := id.Parse(*r.HotelID)
		if err != nil {
			return p, apperror.NewValidation("invalid hotelId").WithDetail("field", "hotelId")
		}
		p.HotelID = &hotelID
	}
	if r.SupplierID != nil {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return p, apperror.NewValidation("invalid supplierId").WithDetail("field", "supplierId")
		}
		p.SupplierID = &supplierID
	}
	if r.VehicleID != nil {
		vehicleID, err := id.Parse(*r.VehicleID)
		if err != nil {
			return p, apperror.NewValidation("invalid vehicleId").WithDetail("field", "vehicleId")
		}
		p.VehicleID = &vehicleID
	}

	p.CostPerNight = r.CostPerNight
	p.Nights = r.Nights
	p.Rooms = r.Rooms
	p.SupplierOperated = r.SupplierOperated
	p.SupplierCost = r.SupplierCost
	p.GuideCost = r.GuideCost
	p.VehicleCost = r.VehicleCost
	p.EntranceFees = r.EntranceFees
	p.OtherCosts = r.OtherCosts
	p.CostPrice = r.CostPrice
	p.SellPrice = r.SellPrice

	return p, nil
}

// UpdateItemRequest is a partial service item update. The item type and
// owning booking never change.
type UpdateItemRequest struct {
	Description *string `json:"description"`
	ServiceDate *string `json:"serviceDate"`

	HotelID      *string          `json:"hotelId"`
	CostPerNight *decimal.Decimal `json:"costPerNight"`
	Nights       *int             `json:"nights"`
	Rooms        *int             `json:"rooms"`

	SupplierOperated *bool            `json:"supplierOperated"`
	SupplierID       *string          `json:"supplierId"`
	SupplierCost     *decimal.Decimal `json:"supplierCost"`
	GuideCost        *decimal.Decimal `json:"guideCost"`
	VehicleCost      *decimal.Decimal `json:"vehicleCost"`
	EntranceFees     *decimal.Decimal `json:"entranceFees"`
	OtherCosts       *decimal.Decimal `json:"otherCosts"`

	VehicleID *string `json:"vehicleId"`

	CostPrice *decimal.Decimal `json:"costPrice"`
	SellPrice *decimal.Decimal `json:"sellPrice"`
}

// ToPatch converts the request to a typed domain patch.
func (r UpdateItemRequest) ToPatch() (booking.ItemPatch, error) {
	create := CreateItemRequest{
		ServiceDate:      r.ServiceDate,
		HotelID:          r.HotelID,
		CostPerNight:     r.CostPerNight,
		Nights:           r.Nights,
		Rooms:            r.Rooms,
		SupplierOperated: r.SupplierOperated,
		SupplierID:       r.SupplierID,
		SupplierCost:     r.SupplierCost,
		GuideCost:        r.GuideCost,
		VehicleCost:      r.VehicleCost,
		EntranceFees:     r.EntranceFees,
		OtherCosts:       r.OtherCosts,
		VehicleID:        r.VehicleID,
		CostPrice:        r.CostPrice,
		SellPrice:        r.SellPrice,
	}

	p, err := create.asPatch()
	if err != nil {
		return p, err
	}
	p.Description = r.Description
	return p, nil
}

// IssueVoucherRequest issues a voucher for one service item.
type IssueVoucherRequest struct {
	ServiceItemID string `json:"serviceItemId" binding:"required"`
	Type          string `json:"type" binding:"required"`
}

// ToEntity converts the request to a domain voucher.
func (r IssueVoucherRequest) ToEntity(bookingID id.ID) (*voucher.Voucher, error) {
	itemID, err := id.Parse(r.ServiceItemID)
	if err != nil {
		return nil, apperror.NewValidation("invalid serviceItemId").
			WithDetail("field", "serviceItemId")
	}

	return voucher.New(bookingID, itemID, voucher.Type(r.Type)), nil
}

// BookingWithTotalsResponse pairs a booking mutation result with the
// freshly recomputed totals.
type BookingWithTotalsResponse struct {
	BookingID string         `json:"bookingId"`
	Totals    booking.Totals `json:"totals"`
	At        time.Time      `json:"at"`
}
