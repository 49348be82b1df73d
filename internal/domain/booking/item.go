package booking

import (
	"context"
	"time"

	"tourops/internal/core/apperror"
	"tourops/internal/core/entity"
	"tourops/internal/core/id"
	"tourops/internal/core/types"
)

// ItemType discriminates the service item variants.
type ItemType string

const (
	ItemHotelStay ItemType = "hotel_stay"
	ItemTour      ItemType = "tour"
	ItemTransfer  ItemType = "transfer"
	ItemFlight    ItemType = "flight"
)

// ServiceItem is a polymorphic line item attached to exactly one booking.
// Items are owned by their booking; deletion is immediate (hard delete) and
// always followed by a totals recompute in the same transaction.
type ServiceItem struct {
	entity.BaseDocument

	BookingID id.ID    `db:"booking_id" json:"bookingId"`
	Type      ItemType `db:"item_type" json:"type"`

	Description string     `db:"description" json:"description"`
	ServiceDate *time.Time `db:"service_date" json:"serviceDate,omitempty"`

	// Hotel stay fields
	HotelID      *id.ID      `db:"hotel_id" json:"hotelId,omitempty"`
	CostPerNight types.Money `db:"cost_per_night" json:"costPerNight"`
	Nights       int         `db:"nights" json:"nights"`
	Rooms        int         `db:"rooms" json:"rooms"`

	// Tour fields. A supplier-operated tour carries a single supplier cost;
	// an own-operated tour is composed from guide/vehicle/entrance/other.
	SupplierOperated bool        `db:"supplier_operated" json:"supplierOperated"`
	SupplierID       *id.ID      `db:"supplier_id" json:"supplierId,omitempty"`
	SupplierCost     types.Money `db:"supplier_cost" json:"supplierCost"`
	GuideCost        types.Money `db:"guide_cost" json:"guideCost"`
	VehicleCost      types.Money `db:"vehicle_cost" json:"vehicleCost"`
	EntranceFees     types.Money `db:"entrance_fees" json:"entranceFees"`
	OtherCosts       types.Money `db:"other_costs" json:"otherCosts"`

	// Transfer fields
	VehicleID *id.ID `db:"vehicle_id" json:"vehicleId,omitempty"`

	// Stored price pair. Primary for transfers and flights, available as an
	// override on the other types.
	CostPrice types.Money `db:"cost_price" json:"costPrice"`
	SellPrice types.Money `db:"sell_price" json:"sellPrice"`
}

// NewServiceItem creates an item of the given type for a booking.
func NewServiceItem(bookingID id.ID, itemType ItemType) *ServiceItem {
	return &ServiceItem{
		BaseDocument: entity.NewBaseDocument(),
		BookingID:    bookingID,
		Type:         itemType,
		CostPerNight: types.Zero(),
		SupplierCost: types.Zero(),
		GuideCost:    types.Zero(),
		VehicleCost:  types.Zero(),
		EntranceFees: types.Zero(),
		OtherCosts:   types.Zero(),
		CostPrice:    types.Zero(),
		SellPrice:    types.Zero(),
	}
}

// Cost computes the item's cost contribution per variant:
//
//	hotel stay: costPerNight * nights * rooms
//	tour:       supplierCost when supplier-operated, else
//	            guideCost + vehicleCost + entranceFees + otherCosts
//	transfer:   costPrice
//	flight:     costPrice
func (i *ServiceItem) Cost() types.Money {
	switch i.Type {
	case ItemHotelStay:
		return i.CostPerNight.
			Mul(types.NewMoney(float64(i.Nights))).
			Mul(types.NewMoney(float64(i.Rooms)))
	case ItemTour:
		if i.SupplierOperated {
			return i.SupplierCost
		}
		return i.GuideCost.Add(i.VehicleCost).Add(i.EntranceFees).Add(i.OtherCosts)
	default:
		return i.CostPrice
	}
}

// Sell computes the item's sell contribution. Flights without an explicit
// sell price sell at cost (zero margin, never null).
func (i *ServiceItem) Sell() types.Money {
	if i.Type == ItemFlight && i.SellPrice.IsZero() {
		return i.Cost()
	}
	return i.SellPrice
}

// Validate implements entity.Validatable.
func (i *ServiceItem) Validate(ctx context.Context) error {
	if id.IsNil(i.BookingID) {
		return apperror.NewValidation("booking is required").
			WithDetail("field", "bookingId")
	}

	switch i.Type {
	case ItemHotelStay:
		if i.Nights <= 0 {
			return apperror.NewValidation("nights must be positive").
				WithDetail("field", "nights")
		}
		if i.Rooms <= 0 {
			return apperror.NewValidation("rooms must be positive").
				WithDetail("field", "rooms")
		}
		if i.CostPerNight.IsNegative() {
			return apperror.NewValidation("cost per night must not be negative").
				WithDetail("field", "costPerNight")
		}
	case ItemTour:
		if i.SupplierOperated && i.SupplierCost.IsNegative() {
			return apperror.NewValidation("supplier cost must not be negative").
				WithDetail("field", "supplierCost")
		}
		for field, v := range map[string]types.Money{
			"guideCost":    i.GuideCost,
			"vehicleCost":  i.VehicleCost,
			"entranceFees": i.EntranceFees,
			"otherCosts":   i.OtherCosts,
		} {
			if v.IsNegative() {
				return apperror.NewValidation("tour cost component must not be negative").
					WithDetail("field", field)
			}
		}
	case ItemTransfer, ItemFlight:
		if i.CostPrice.IsNegative() {
			return apperror.NewValidation("cost price must not be negative").
				WithDetail("field", "costPrice")
		}
	default:
		return apperror.NewValidation("unknown service item type").
			WithDetail("field", "type").
			WithDetail("value", string(i.Type))
	}

	if i.SellPrice.IsNegative() {
		return apperror.NewValidation("sell price must not be negative").
			WithDetail("field", "sellPrice")
	}

	return nil
}

// ItemPatch is the typed partial update for service items. Every updatable
// field is an explicit optional value; the type and owning booking are
// immutable.
type ItemPatch struct {
	Description *string
	ServiceDate *time.Time

	HotelID      *id.ID
	CostPerNight *types.Money
	Nights       *int
	Rooms        *int

	SupplierOperated *bool
	SupplierID       *id.ID
	SupplierCost     *types.Money
	GuideCost        *types.Money
	VehicleCost      *types.Money
	EntranceFees     *types.Money
	OtherCosts       *types.Money

	VehicleID *id.ID

	CostPrice *types.Money
	SellPrice *types.Money
}

// Apply copies the set fields onto the item.
func (i *ServiceItem) Apply(p ItemPatch) {
	if p.Description != nil {
		i.Description = *p.Description
	}
	if p.ServiceDate != nil {
		d := types.DateOnly(*p.ServiceDate)
		i.ServiceDate = &d
	}
	if p.HotelID != nil {
		i.HotelID = p.HotelID
	}
	if p.CostPerNight != nil {
		i.CostPerNight = *p.CostPerNight
	}
	if p.Nights != nil {
		i.Nights = *p.Nights
	}
	if p.Rooms != nil {
		i.Rooms = *p.Rooms
	}
	if p.SupplierOperated != nil {
		i.SupplierOperated = *p.SupplierOperated
	}
	if p.SupplierID != nil {
		i.SupplierID = p.SupplierID
	}
	if p.SupplierCost != nil {
		i.SupplierCost = *p.SupplierCost
	}
	if p.GuideCost != nil {
		i.GuideCost = *p.GuideCost
	}
	if p.VehicleCost != nil {
		i.VehicleCost = *p.VehicleCost
	}
	if p.EntranceFees != nil {
		i.EntranceFees = *p.EntranceFees
	}
	if p.OtherCosts != nil {
		i.OtherCosts = *p.OtherCosts
	}
	if p.VehicleID != nil {
		i.VehicleID = p.VehicleID
	}
	if p.CostPrice != nil {
		i.CostPrice = *p.CostPrice
	}
	if p.SellPrice != nil {
		i.SellPrice = *p.SellPrice
	}
}
