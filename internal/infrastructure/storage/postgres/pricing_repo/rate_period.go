// Package pricing_repo provides the PostgreSQL implementation of the rate
// period catalog.
package pricing_repo

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
	"tourops/internal/domain/pricing"
	"tourops/internal/infrastructure/storage/postgres"
)

const ratePeriodTable = "rate_periods"

// Compile-time check.
var _ pricing.Repository = (*RatePeriodRepo)(nil)

// RatePeriodRepo implements pricing.Repository. Tiers are stored as JSONB;
// the scope+interval exclusion constraint in the schema is the storage-level
// backstop for the overlap validation done in the service.
type RatePeriodRepo struct {
	txm        *postgres.TxManager
	selectCols []string
}

// NewRatePeriodRepo creates a new rate period repository.
func NewRatePeriodRepo(txm *postgres.TxManager) *RatePeriodRepo {
	return &RatePeriodRepo{
		txm:        txm,
		selectCols: postgres.ExtractDBColumns[pricing.RatePeriod](),
	}
}

func (r *RatePeriodRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *RatePeriodRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(ratePeriodTable)
}

// Create inserts a new rate period.
func (r *RatePeriodRepo) Create(ctx context.Context, period *pricing.RatePeriod) error {
	data := postgres.StructToMap(period)

	q := r.builder().
		Insert(ratePeriodTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return mapOverlapError(err, period)
	}

	return nil
}

// Update modifies an existing rate period with optimistic locking.
func (r *RatePeriodRepo) Update(ctx context.Context, period *pricing.RatePeriod) error {
	data := postgres.StructToMap(period)
	delete(data, "id")
	version, _ := data["version"].(int)
	delete(data, "version")
	delete(data, "updated_at")

	q := r.builder().
		Update(ratePeriodTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": period.ID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return mapOverlapError(err, period)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrency(ratePeriodTable, period.ID.String())
	}

	return nil
}

// GetByID retrieves a rate period by ID.
func (r *RatePeriodRepo) GetByID(ctx context.Context, periodID id.ID) (*pricing.RatePeriod, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": periodID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var period pricing.RatePeriod
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &period, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("rate period", periodID.String())
		}
		return nil, fmt.Errorf("get rate period: %w", err)
	}

	return &period, nil
}

// ListByScope returns a scope's periods, newest interval first.
func (r *RatePeriodRepo) ListByScope(ctx context.Context, scope pricing.Scope, activeOnly bool) ([]*pricing.RatePeriod, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"scope": scope}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("valid_from DESC")

	if activeOnly {
		q = q.Where(squirrel.Eq{"active": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var periods []*pricing.RatePeriod
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &periods, sql, args...); err != nil {
		return nil, fmt.Errorf("list by scope: %w", err)
	}

	return periods, nil
}

// FindCovering returns the active periods of scope whose closed interval
// contains date.
func (r *RatePeriodRepo) FindCovering(ctx context.Context, scope pricing.Scope, date time.Time) ([]*pricing.RatePeriod, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"scope": scope}).
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.LtOrEq{"valid_from": date}).
		Where(squirrel.GtOrEq{"valid_to": date})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var periods []*pricing.RatePeriod
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &periods, sql, args...); err != nil {
		return nil, fmt.Errorf("find covering: %w", err)
	}

	return periods, nil
}

// mapOverlapError translates the exclusion constraint violation (23P01) into
// the domain overlap error. Everything else goes through the common mapping.
func mapOverlapError(err error, period *pricing.RatePeriod) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
		return apperror.NewRatePeriodOverlap(string(period.Scope), "").
			WithCause(err)
	}
	if mapped := postgres.MapError(err); mapped != err {
		return mapped
	}
	return fmt.Errorf("write %s: %w", ratePeriodTable, err)
}
