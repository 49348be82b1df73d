package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tourops/internal/core/id"
	"tourops/internal/domain/catalogs/supplier"
	"tourops/internal/infrastructure/storage/postgres"
)

const supplierTable = "cat_suppliers"

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txm *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			supplierTable,
			postgres.ExtractDBColumns[supplier.Supplier](),
			func() *supplier.Supplier { return &supplier.Supplier{} },
		),
	}
}

// Delete soft-deletes via the deletion mark; the row stays for history.
func (r *SupplierRepo) Delete(ctx context.Context, supplierID id.ID) error {
	return r.SetDeletionMark(ctx, supplierID, true)
}

// IsReferenced reports whether hotels, vehicles or service items point at
// the supplier.
func (r *SupplierRepo) IsReferenced(ctx context.Context, supplierID id.ID) (bool, error) {
	return r.referencedBy(ctx, supplierID,
		tableRef{table: "cat_hotels", column: "supplier_id"},
		tableRef{table: "cat_vehicles", column: "supplier_id"},
		tableRef{table: "booking_service_items", column: "supplier_id"},
	)
}

// ListByType retrieves active suppliers of one type.
func (r *SupplierRepo) ListByType(ctx context.Context, supplierType supplier.SupplierType) ([]*supplier.Supplier, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"type": supplierType}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*supplier.Supplier
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list by type: %w", err)
	}

	return items, nil
}
