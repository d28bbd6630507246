package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/catalog"
)

// CatalogRepository is the read side of the store catalog.
type CatalogRepository interface {
	// InventorySnapshot returns the product as carried by the store, or an
	// ObjectNotFoundError when the store does not carry it.
	InventorySnapshot(ctx context.Context, productID, storeID int64) (catalog.InventorySnapshot, error)
	Store(ctx context.Context, id int64) (catalog.Store, error)
}
