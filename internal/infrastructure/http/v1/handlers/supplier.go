package handlers

import (
	"tourops/internal/domain/catalogs/supplier"
	"tourops/internal/infrastructure/http/v1/dto"
)

// SupplierHTTPHandler keeps route registration signatures short.
type SupplierHTTPHandler = CatalogHandler[
	*supplier.Supplier,
	dto.CreateSupplierRequest,
	dto.UpdateSupplierRequest,
]

// NewSupplierHandler wires the supplier catalog service into the generic handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[
		*supplier.Supplier,
		dto.CreateSupplierRequest,
		dto.UpdateSupplierRequest,
	]{
		Service:    service,
		EntityName: "supplier",
		MapCreateDTO: func(req dto.CreateSupplierRequest) (*supplier.Supplier, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdateSupplierRequest, existing *supplier.Supplier) error {
			req.ApplyTo(existing)
			return nil
		},
	})
}
