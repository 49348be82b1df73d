// Package vehicle provides the Vehicle catalog for transfers and tours.
package vehicle

import (
	"context"

	"tourops/internal/core/apperror"
	"tourops/internal/core/entity"
	"tourops/internal/core/id"
)

// VehicleType classifies passenger capacity class.
type VehicleType string

const (
	TypeSedan   VehicleType = "sedan"
	TypeMinivan VehicleType = "minivan"
	TypeVan     VehicleType = "van"
	TypeBus     VehicleType = "bus"
)

// Vehicle represents a transport unit owned or contracted by the operator.
type Vehicle struct {
	entity.Catalog

	Type       VehicleType `db:"type" json:"type"`
	Capacity   int         `db:"capacity" json:"capacity"`
	Plate      *string     `db:"plate" json:"plate,omitempty"`
	SupplierID *id.ID      `db:"supplier_id" json:"supplierId,omitempty"`
	Notes      *string     `db:"notes" json:"notes,omitempty"`
}

// NewVehicle creates a new Vehicle with required fields.
func NewVehicle(code, name string, vehicleType VehicleType, capacity int) *Vehicle {
	return &Vehicle{
		Catalog:  entity.NewCatalog(code, name),
		Type:     vehicleType,
		Capacity: capacity,
	}
}

// Validate implements entity.Validatable.
func (v *Vehicle) Validate(ctx context.Context) error {
	if err := v.Catalog.Validate(ctx); err != nil {
		return err
	}

	switch v.Type {
	case TypeSedan, TypeMinivan, TypeVan, TypeBus:
	default:
		return apperror.NewValidation("invalid vehicle type").
			WithDetail("field", "type").
			WithDetail("value", string(v.Type))
	}

	if v.Capacity <= 0 {
		return apperror.NewValidation("capacity must be positive").
			WithDetail("field", "capacity")
	}

	return nil
}
