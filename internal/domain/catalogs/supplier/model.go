// Package supplier provides the Supplier catalog: hotels chains, transport
// companies, guides and other vendors the operator buys services from.
package supplier

import (
	"context"

	"tourops/internal/core/apperror"
	"tourops/internal/core/entity"
)

// SupplierType classifies the services a supplier provides.
type SupplierType string

const (
	TypeHotel     SupplierType = "hotel"
	TypeTransport SupplierType = "transport"
	TypeGuide     SupplierType = "guide"
	TypeOther     SupplierType = "other"
)

// Supplier represents a service vendor.
type Supplier struct {
	entity.Catalog

	Type SupplierType `db:"type" json:"type"`

	City          *string `db:"city" json:"city,omitempty"`
	Phone         *string `db:"phone" json:"phone,omitempty"`
	Email         *string `db:"email" json:"email,omitempty"`
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`
	Notes         *string `db:"notes" json:"notes,omitempty"`
}

// NewSupplier creates a new Supplier with required fields.
func NewSupplier(code, name string, supplierType SupplierType) *Supplier {
	return &Supplier{
		Catalog: entity.NewCatalog(code, name),
		Type:    supplierType,
	}
}

// Validate implements entity.Validatable.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	switch s.Type {
	case TypeHotel, TypeTransport, TypeGuide, TypeOther:
	default:
		return apperror.NewValidation("invalid supplier type").
			WithDetail("field", "type").
			WithDetail("value", string(s.Type))
	}

	return nil
}
