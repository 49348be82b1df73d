package pricing

import (
	"context"
	"time"

	"tourops/internal/core/id"
)

// ListFilter narrows rate period listings.
type ListFilter struct {
	Scope          Scope
	ActiveOnly     bool
	CoveringDate   *time.Time
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// Repository is the persistence contract for the rate period catalog.
type Repository interface {
	Create(ctx context.Context, period *RatePeriod) error
	Update(ctx context.Context, period *RatePeriod) error
	GetByID(ctx context.Context, periodID id.ID) (*RatePeriod, error)

	// ListByScope returns the scope's periods; used by the interval
	// validator (activeOnly) and the catalog listing endpoints.
	ListByScope(ctx context.Context, scope Scope, activeOnly bool) ([]*RatePeriod, error)

	// FindCovering returns the active periods of scope whose closed
	// interval contains date. Pure read.
	FindCovering(ctx context.Context, scope Scope, date time.Time) ([]*RatePeriod, error)
}
