package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tourops/internal/core/id"
	"tourops/internal/domain/catalogs/hotel"
	"tourops/internal/infrastructure/storage/postgres"
)

const hotelTable = "cat_hotels"

// HotelRepo implements hotel.Repository.
type HotelRepo struct {
	*BaseCatalogRepo[*hotel.Hotel]
}

// NewHotelRepo creates a new hotel repository.
func NewHotelRepo(txm *postgres.TxManager) *HotelRepo {
	return &HotelRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			hotelTable,
			postgres.ExtractDBColumns[hotel.Hotel](),
			func() *hotel.Hotel { return &hotel.Hotel{} },
		),
	}
}

// Delete soft-deletes via the deletion mark; the row stays for history.
func (r *HotelRepo) Delete(ctx context.Context, hotelID id.ID) error {
	return r.SetDeletionMark(ctx, hotelID, true)
}

// IsReferenced reports whether service items or rate periods point at the
// hotel. Rate periods reference hotels through their pricing scope.
func (r *HotelRepo) IsReferenced(ctx context.Context, hotelID id.ID) (bool, error) {
	referenced, err := r.referencedBy(ctx, hotelID,
		tableRef{table: "booking_service_items", column: "hotel_id"},
	)
	if err != nil || referenced {
		return referenced, err
	}

	h := hotel.Hotel{}
	h.ID = hotelID
	var found int
	err = r.querier(ctx).QueryRow(ctx,
		"SELECT 1 FROM rate_periods WHERE scope = $1 LIMIT 1",
		string(h.RateScope()),
	).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check rate period references: %w", err)
	}
	return true, nil
}
