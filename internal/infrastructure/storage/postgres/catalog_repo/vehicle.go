package catalog_repo

import (
	"context"

	"tourops/internal/core/id"
	"tourops/internal/domain/catalogs/vehicle"
	"tourops/internal/infrastructure/storage/postgres"
)

const vehicleTable = "cat_vehicles"

// VehicleRepo implements vehicle.Repository.
type VehicleRepo struct {
	*BaseCatalogRepo[*vehicle.Vehicle]
}

// NewVehicleRepo creates a new vehicle repository.
func NewVehicleRepo(txm *postgres.TxManager) *VehicleRepo {
	return &VehicleRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			vehicleTable,
			postgres.ExtractDBColumns[vehicle.Vehicle](),
			func() *vehicle.Vehicle { return &vehicle.Vehicle{} },
		),
	}
}

// Delete soft-deletes via the deletion mark; the row stays for history.
func (r *VehicleRepo) Delete(ctx context.Context, vehicleID id.ID) error {
	return r.SetDeletionMark(ctx, vehicleID, true)
}

// IsReferenced reports whether any transfer item points at the vehicle.
func (r *VehicleRepo) IsReferenced(ctx context.Context, vehicleID id.ID) (bool, error) {
	return r.referencedBy(ctx, vehicleID,
		tableRef{table: "booking_service_items", column: "vehicle_id"},
	)
}
