package catalog_repo

import (
	"context"

	"tourops/internal/core/id"
	"tourops/internal/domain/catalogs/client"
	"tourops/internal/infrastructure/storage/postgres"
)

const clientTable = "cat_clients"

// ClientRepo implements client.Repository.
type ClientRepo struct {
	*BaseCatalogRepo[*client.Client]
}

// NewClientRepo creates a new client repository.
func NewClientRepo(txm *postgres.TxManager) *ClientRepo {
	return &ClientRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			clientTable,
			postgres.ExtractDBColumns[client.Client](),
			func() *client.Client { return &client.Client{} },
		),
	}
}

// Delete soft-deletes via the deletion mark; the row stays for history.
func (r *ClientRepo) Delete(ctx context.Context, clientID id.ID) error {
	return r.SetDeletionMark(ctx, clientID, true)
}

// IsReferenced reports whether any booking points at the client.
func (r *ClientRepo) IsReferenced(ctx context.Context, clientID id.ID) (bool, error) {
	return r.referencedBy(ctx, clientID,
		tableRef{table: "bookings", column: "client_id"},
	)
}
