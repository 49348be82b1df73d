package handlers

import (
	"tourops/internal/domain/catalogs/client"
	"tourops/internal/infrastructure/http/v1/dto"
)

// ClientHTTPHandler keeps route registration signatures short.
type ClientHTTPHandler = CatalogHandler[
	*client.Client,
	dto.CreateClientRequest,
	dto.UpdateClientRequest,
]

// NewClientHandler wires the client catalog service into the generic handler.
func NewClientHandler(base *BaseHandler, service *client.Service) *ClientHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[
		*client.Client,
		dto.CreateClientRequest,
		dto.UpdateClientRequest,
	]{
		Service:    service,
		EntityName: "client",
		MapCreateDTO: func(req dto.CreateClientRequest) (*client.Client, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(req dto.UpdateClientRequest, existing *client.Client) error {
			req.ApplyTo(existing)
			return nil
		},
	})
}
