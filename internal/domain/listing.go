// Package domain provides shared contracts for domain repositories.
package domain

import (
	"context"

	"tourops/internal/core/id"
)

// ListFilter contains standard catalog listing parameters.
type ListFilter struct {
	Search         string
	IncludeDeleted bool
	OrderBy        string
	Limit          int
	Offset         int
}

// ListResult is a paginated listing.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// CatalogRepository is the common contract for reference-data repositories.
type CatalogRepository[T any] interface {
	Create(ctx context.Context, entity T) error
	Update(ctx context.Context, entity T) error
	GetByID(ctx context.Context, entityID id.ID) (T, error)
	GetByCode(ctx context.Context, code string) (T, error)
	Delete(ctx context.Context, entityID id.ID) error
	List(ctx context.Context, filter ListFilter) (ListResult[T], error)

	// IsReferenced reports whether other records still point at the entity.
	// Referenced catalog entries block deletion instead of cascading.
	IsReferenced(ctx context.Context, entityID id.ID) (bool, error)
}
