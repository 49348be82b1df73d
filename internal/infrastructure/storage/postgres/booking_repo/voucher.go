package booking_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"tourops/internal/core/apperror"
	"tourops/internal/core/id"
	"tourops/internal/domain/voucher"
	"tourops/internal/infrastructure/storage/postgres"
)

const voucherTable = "vouchers"

// Compile-time check.
var _ voucher.Repository = (*VoucherRepo)(nil)

// VoucherRepo implements voucher.Repository. A unique index on
// (service_item_id, type) closes the race the service-level existence check
// cannot.
type VoucherRepo struct {
	txm        *postgres.TxManager
	selectCols []string
}

// NewVoucherRepo creates a new voucher repository.
func NewVoucherRepo(txm *postgres.TxManager) *VoucherRepo {
	return &VoucherRepo{
		txm:        txm,
		selectCols: postgres.ExtractDBColumns[voucher.Voucher](),
	}
}

func (r *VoucherRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new voucher.
func (r *VoucherRepo) Create(ctx context.Context, v *voucher.Voucher) error {
	data := postgres.StructToMap(v)

	q := r.builder().
		Insert(voucherTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewDuplicateVoucher(
				v.BookingID.String(), string(v.Type), v.ServiceItemID.String(),
			).WithCause(err)
		}
		return fmt.Errorf("insert voucher: %w", err)
	}

	return nil
}

// GetByID retrieves a voucher by ID.
func (r *VoucherRepo) GetByID(ctx context.Context, voucherID id.ID) (*voucher.Voucher, error) {
	q := r.builder().
		Select(r.selectCols...).
		From(voucherTable).
		Where(squirrel.Eq{"id": voucherID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var v voucher.Voucher
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &v, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("voucher", voucherID.String())
		}
		return nil, fmt.Errorf("get voucher: %w", err)
	}

	return &v, nil
}

// ListByBooking retrieves all vouchers issued for a booking.
func (r *VoucherRepo) ListByBooking(ctx context.Context, bookingID id.ID) ([]*voucher.Voucher, error) {
	q := r.builder().
		Select(r.selectCols...).
		From(voucherTable).
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("issued_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var vouchers []*voucher.Voucher
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &vouchers, sql, args...); err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}

	return vouchers, nil
}

// ExistsForServiceItem reports whether a voucher of the given type was
// already issued for the service item.
func (r *VoucherRepo) ExistsForServiceItem(ctx context.Context, serviceItemID id.ID, voucherType voucher.Type) (bool, error) {
	q := r.builder().
		Select("1").
		From(voucherTable).
		Where(squirrel.Eq{"service_item_id": serviceItemID}).
		Where(squirrel.Eq{"type": voucherType}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var found int
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check voucher existence: %w", err)
	}

	return true, nil
}
