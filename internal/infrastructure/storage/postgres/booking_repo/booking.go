// Package booking_repo provides PostgreSQL implementations for bookings,
// their service items and vouchers.
package booking_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/domain/booking"
	"tourops/internal/infrastructure/storage/postgres"
)

const bookingTable = "bookings"

// Compile-time check.
var _ booking.Repository = (*BookingRepo)(nil)

// BookingRepo implements booking.Repository.
type BookingRepo struct {
	txm        *postgres.TxManager
	selectCols []string
}

// NewBookingRepo creates a new booking repository.
func NewBookingRepo(txm *postgres.TxManager) *BookingRepo {
	return &BookingRepo{
		txm:        txm,
		selectCols: postgres.ExtractDBColumns[booking.Booking](),
	}
}

func (r *BookingRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BookingRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(bookingTable)
}

// Create inserts a new booking.
func (r *BookingRepo) Create(ctx context.Context, b *booking.Booking) error {
	data := postgres.StructToMap(b)

	q := r.builder().
		Insert(bookingTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("booking code already exists").
				WithDetail("code", b.Code).
				WithCause(err)
		}
		return fmt.Errorf("insert booking: %w", err)
	}

	return nil
}

// Update modifies an existing booking with optimistic locking. Derived totals
// are excluded; UpdateTotals is their only write path. Payment state stays:
// RegisterPayment persists through here.
func (r *BookingRepo) Update(ctx context.Context, b *booking.Booking) error {
	data := postgres.StructToMap(b)
	delete(data, "id")
	version, _ := data["version"].(int)
	delete(data, "version")
	delete(data, "updated_at")
	delete(data, "total_cost_price")
	delete(data, "total_sell_price")
	delete(data, "gross_profit")

	q := r.builder().
		Update(bookingTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": b.ID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrency(bookingTable, b.ID.String())
	}

	return nil
}

// GetByID retrieves a booking by ID.
func (r *BookingRepo) GetByID(ctx context.Context, bookingID id.ID) (*booking.Booking, error) {
	return r.get(ctx, bookingID, false)
}

// GetForUpdate retrieves a booking by ID with a row lock. Concurrent item
// mutations of the same booking serialize on it.
func (r *BookingRepo) GetForUpdate(ctx context.Context, bookingID id.ID) (*booking.Booking, error) {
	return r.get(ctx, bookingID, true)
}

func (r *BookingRepo) get(ctx context.Context, bookingID id.ID, forUpdate bool) (*booking.Booking, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": bookingID})

	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b booking.Booking
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("booking", bookingID.String())
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}

	return &b, nil
}

// UpdateTotals persists the derived money state and payment status.
func (r *BookingRepo) UpdateTotals(ctx context.Context, bookingID id.ID, totals booking.Totals, payment booking.PaymentStatus) error {
	q := r.builder().
		Update(bookingTable).
		Set("total_cost_price", totals.TotalCostPrice).
		Set("total_sell_price", totals.TotalSellPrice).
		Set("gross_profit", totals.GrossProfit).
		Set("payment_status", payment).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": bookingID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build totals update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update totals: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("booking", bookingID.String())
	}

	return nil
}

// List retrieves bookings with filtering and pagination.
func (r *BookingRepo) List(ctx context.Context, filter booking.ListFilter) (booking.ListResult, error) {
	result := booking.ListResult{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false})

	if filter.ClientID != nil {
		q = q.Where(squirrel.Eq{"client_id": *filter.ClientID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"start_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"start_date": *filter.DateTo})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"code": pattern},
			squirrel.ILike{"notes": pattern},
		})
	}

	countQ := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list bookings: %w", err)
	}

	return result, nil
}
