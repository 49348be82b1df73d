package dto

import (
	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/domain/catalogs/client"
	"tourops/internal/domain/catalogs/hotel"
	"tourops/internal/domain/catalogs/supplier"
	"tourops/internal/domain/catalogs/vehicle"
)

// --- Client ---

// CreateClientRequest creates a client catalog entry.
type CreateClientRequest struct {
	Code          string  `json:"code" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Country       *string `json:"country"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	ContactPerson *string `json:"contactPerson"`
	Notes         *string `json:"notes"`
}

// ToEntity converts the request to a domain client.
func (r CreateClientRequest) ToEntity() *client.Client {
	c := client.NewClient(r.Code, r.Name)
	c.Country = r.Country
	c.Phone = r.Phone
	c.Email = r.Email
	c.ContactPerson = r.ContactPerson
	c.Notes = r.Notes
	return c
}

// UpdateClientRequest is a partial client update.
type UpdateClientRequest struct {
	Name          *string `json:"name"`
	Country       *string `json:"country"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	ContactPerson *string `json:"contactPerson"`
	Notes         *string `json:"notes"`
	Version       int     `json:"version" binding:"required"`
}

// ApplyTo copies the set fields onto an existing client.
func (r UpdateClientRequest) ApplyTo(c *client.Client) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Country != nil {
		c.Country = r.Country
	}
	if r.Phone != nil {
		c.Phone = r.Phone
	}
	if r.Email != nil {
		c.Email = r.Email
	}
	if r.ContactPerson != nil {
		c.ContactPerson = r.ContactPerson
	}
	if r.Notes != nil {
		c.Notes = r.Notes
	}
	c.Version = r.Version
}

// --- Supplier ---

// CreateSupplierRequest creates a supplier catalog entry.
type CreateSupplierRequest struct {
	Code          string  `json:"code" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	Type          string  `json:"type" binding:"required"`
	City          *string `json:"city"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	ContactPerson *string `json:"contactPerson"`
	Notes         *string `json:"notes"`
}

// ToEntity converts the request to a domain supplier.
func (r CreateSupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.NewSupplier(r.Code, r.Name, supplier.SupplierType(r.Type))
	s.City = r.City
	s.Phone = r.Phone
	s.Email = r.Email
	s.ContactPerson = r.ContactPerson
	s.Notes = r.Notes
	return s
}

// UpdateSupplierRequest is a partial supplier update.
type UpdateSupplierRequest struct {
	Name          *string `json:"name"`
	Type          *string `json:"type"`
	City          *string `json:"city"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	ContactPerson *string `json:"contactPerson"`
	Notes         *string `json:"notes"`
	Version       int     `json:"version" binding:"required"`
}

// ApplyTo copies the set fields onto an existing supplier.
func (r UpdateSupplierRequest) ApplyTo(s *supplier.Supplier) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Type != nil {
		s.Type = supplier.SupplierType(*r.Type)
	}
	if r.City != nil {
		s.City = r.City
	}
	if r.Phone != nil {
		s.Phone = r.Phone
	}
	if r.Email != nil {
		s.Email = r.Email
	}
	if r.ContactPerson != nil {
		s.ContactPerson = r.ContactPerson
	}
	if r.Notes != nil {
		s.Notes = r.Notes
	}
	s.Version = r.Version
}

// --- Hotel ---

// CreateHotelRequest creates a hotel catalog entry.
type CreateHotelRequest struct {
	Code       string  `json:"code" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	City       string  `json:"city" binding:"required"`
	Stars      int     `json:"stars"`
	SupplierID *string `json:"supplierId"`
	Address    *string `json:"address"`
	Phone      *string `json:"phone"`
	Notes      *string `json:"notes"`
}

// ToEntity converts the request to a domain hotel.
func (r CreateHotelRequest) ToEntity() (*hotel.Hotel, error) {
	h := hotel.NewHotel(r.Code, r.Name, r.City, r.Stars)
	h.Address = r.Address
	h.Phone = r.Phone
	h.Notes = r.Notes

	if r.SupplierID != nil {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return nil, apperror.NewValidation("invalid supplierId").
				WithDetail("field", "supplierId")
		}
		h.SupplierID = &supplierID
	}

	return h, nil
}

// UpdateHotelRequest is a partial hotel update.
type UpdateHotelRequest struct {
	Name       *string `json:"name"`
	City       *string `json:"city"`
	Stars      *int    `json:"stars"`
	SupplierID *string `json:"supplierId"`
	Address    *string `json:"address"`
	Phone      *string `json:"phone"`
	Notes      *string `json:"notes"`
	Version    int     `json:"version" binding:"required"`
}

// ApplyTo copies the set fields onto an existing hotel.
func (r UpdateHotelRequest) ApplyTo(h *hotel.Hotel) error {
	if r.Name != nil {
		h.Name = *r.Name
	}
	if r.City != nil {
		h.City = *r.City
	}
	if r.Stars != nil {
		h.Stars = *r.Stars
	}
	if r.SupplierID != nil {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return apperror.NewValidation("invalid supplierId").
				WithDetail("field", "supplierId")
		}
		h.SupplierID = &supplierID
	}
	if r.Address != nil {
		h.Address = r.Address
	}
	if r.Phone != nil {
		h.Phone = r.Phone
	}
	if r.Notes != nil {
		h.Notes = r.Notes
	}
	h.Version = r.Version
	return nil
}

// --- Vehicle ---

// CreateVehicleRequest creates a vehicle catalog entry.
type CreateVehicleRequest struct {
	Code       string  `json:"code" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	Type       string  `json:"type" binding:"required"`
	Capacity   int     `json:"capacity" binding:"required"`
	Plate      *string `json:"plate"`
	SupplierID *string `json:"supplierId"`
	Notes      *string `json:"notes"`
}

// ToEntity converts the request to a domain vehicle.
func (r CreateVehicleRequest) ToEntity() (*vehicle.Vehicle, error) {
	v := vehicle.NewVehicle(r.Code, r.Name, vehicle.VehicleType(r.Type), r.Capacity)
	v.Plate = r.Plate
	v.Notes = r.Notes

	if r.SupplierID != nil {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return nil, apperror.NewValidation("invalid supplierId").
				WithDetail("field", "supplierId")
		}
		v.SupplierID = &supplierID
	}

	return v, nil
}

// UpdateVehicleRequest is a partial vehicle update.
type UpdateVehicleRequest struct {
	Name       *string `json:"name"`
	Type       *string `json:"type"`
	Capacity   *int    `json:"capacity"`
	Plate      *string `json:"plate"`
	SupplierID *string `json:"supplierId"`
	Notes      *string `json:"notes"`
	Version    int     `json:"version" binding:"required"`
}

// ApplyTo copies the set fields onto an existing vehicle.
func (r UpdateVehicleRequest) ApplyTo(v *vehicle.Vehicle) error {
	if r.Name != nil {
		v.Name = *r.Name
	}
	if r.Type != nil {
		v.Type = vehicle.VehicleType(*r.Type)
	}
	if r.Capacity != nil {
		v.Capacity = *r.Capacity
	}
	if r.Plate != nil {
		v.Plate = r.Plate
	}
	if r.SupplierID != nil {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return apperror.NewValidation("invalid supplierId").
				WithDetail("field", "supplierId")
		}
		v.SupplierID = &supplierID
	}
	if r.Notes != nil {
		v.Notes = r.Notes
	}
	v.Version = r.Version
	return nil
}
