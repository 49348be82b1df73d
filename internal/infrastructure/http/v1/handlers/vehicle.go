package handlers

import (
	"tourops/internal/domain/catalogs/vehicle"
	"tourops/internal/infrastructure/http/v1/dto"
)

// VehicleHTTPHandler keeps route registration signatures short.
type VehicleHTTPHandler = CatalogHandler[
	*vehicle.Vehicle,
	dto.CreateVehicleRequest,
	dto.UpdateVehicleRequest,
]

// NewVehicleHandler wires the vehicle catalog service into the generic handler.
func NewVehicleHandler(base *BaseHandler, service *vehicle.Service) *VehicleHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[
		*vehicle.Vehicle,
		dto.CreateVehicleRequest,
		dto.UpdateVehicleRequest,
	]{
		Service:    service,
		EntityName: "vehicle",
		MapCreateDTO: func(req dto.CreateVehicleRequest) (*vehicle.Vehicle, error) {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateVehicleRequest, existing *vehicle.Vehicle) error {
			return req.ApplyTo(existing)
		},
	})
}
