// Package hotel provides the Hotel catalog.
package hotel

import (
	"context"

	"tourops/internal/core/apperror"
	"tourops/internal/core/entity"
	"tourops/internal/core/id"
	"tourops/internal/domain/pricing"
)

// Hotel represents a bookable property. Its id doubles as the pricing scope
// for hotel rate periods.
type Hotel struct {
	entity.Catalog

	City       string  `db:"city" json:"city"`
	Stars      int     `db:"stars" json:"stars"`
	SupplierID *id.ID  `db:"supplier_id" json:"supplierId,omitempty"`
	Address    *string `db:"address" json:"address,omitempty"`
	Phone      *string `db:"phone" json:"phone,omitempty"`
	Notes      *string `db:"notes" json:"notes,omitempty"`
}

// NewHotel creates a new Hotel with required fields.
func NewHotel(code, name, city string, stars int) *Hotel {
	return &Hotel{
		Catalog: entity.NewCatalog(code, name),
		City:    city,
		Stars:   stars,
	}
}

// RateScope returns the pricing scope key for this hotel's rate periods.
func (h *Hotel) RateScope() pricing.Scope {
	return pricing.Scope("hotel:" + h.ID.String())
}

// Validate implements entity.Validatable.
func (h *Hotel) Validate(ctx context.Context) error {
	if err := h.Catalog.Validate(ctx); err != nil {
		return err
	}

	if h.City == "" {
		return apperror.NewValidation("city is required").
			WithDetail("field", "city")
	}

	if h.Stars < 0 || h.Stars > 5 {
		return apperror.NewValidation("stars must be between 0 and 5").
			WithDetail("field", "stars")
	}

	return nil
}
