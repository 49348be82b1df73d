package handlers

import (
	"tourops/internal/domain/catalogs/hotel"
	"tourops/internal/infrastructure/http/v1/dto"
)

// HotelHTTPHandler keeps route registration signatures short.
type HotelHTTPHandler = CatalogHandler[
	*hotel.Hotel,
	dto.CreateHotelRequest,
	dto.UpdateHotelRequest,
]

// NewHotelHandler wires the hotel catalog service into the generic handler.
func NewHotelHandler(base *BaseHandler, service *hotel.Service) *HotelHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[
		*hotel.Hotel,
		dto.CreateHotelRequest,
		dto.UpdateHotelRequest,
	]{
		Service:    service,
		EntityName: "hotel",
		MapCreateDTO: func(req dto.CreateHotelRequest) (*hotel.Hotel, error) {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateHotelRequest, existing *hotel.Hotel) error {
			return req.ApplyTo(existing)
		},
	})
}
