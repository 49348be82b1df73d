package booking_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/domain/booking"
	"tourops/internal/infrastructure/storage/postgres"
)

const itemTable = "booking_service_items"

// Compile-time check.
var _ booking.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implements booking.ItemRepository.
type ItemRepo struct {
	txm        *postgres.TxManager
	selectCols []string
}

// NewItemRepo creates a new service item repository.
func NewItemRepo(txm *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		txm:        txm,
		selectCols: postgres.ExtractDBColumns[booking.ServiceItem](),
	}
}

func (r *ItemRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new service item.
func (r *ItemRepo) Create(ctx context.Context, item *booking.ServiceItem) error {
	data := postgres.StructToMap(item)

	q := r.builder().
		Insert(itemTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert service item: %w", err)
	}

	return nil
}

// Update modifies an existing service item with optimistic locking.
func (r *ItemRepo) Update(ctx context.Context, item *booking.ServiceItem) error {
	data := postgres.StructToMap(item)
	delete(data, "id")
	version, _ := data["version"].(int)
	delete(data, "version")
	delete(data, "updated_at")
	delete(data, "booking_id") // items never move between bookings

	q := r.builder().
		Update(itemTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": item.ID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update service item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrency(itemTable, item.ID.String())
	}

	return nil
}

// Delete hard-deletes the item.
func (r *ItemRepo) Delete(ctx context.Context, itemID id.ID) error {
	q := r.builder().
		Delete(itemTable).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete service item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("service item", itemID.String())
	}

	return nil
}

// GetByID retrieves a service item by ID.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*booking.ServiceItem, error) {
	q := r.builder().
		Select(r.selectCols...).
		From(itemTable).
		Where(squirrel.Eq{"id": itemID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item booking.ServiceItem
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("service item", itemID.String())
		}
		return nil, fmt.Errorf("get service item: %w", err)
	}

	return &item, nil
}

// ListByBooking retrieves all items of one booking in creation order.
func (r *ItemRepo) ListByBooking(ctx context.Context, bookingID id.ID) ([]*booking.ServiceItem, error) {
	q := r.builder().
		Select(r.selectCols...).
		From(itemTable).
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*booking.ServiceItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return items, nil
}
