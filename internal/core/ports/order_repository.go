// Package ports defines the contracts between the fulfillment core and its
// infrastructure: persistence, messaging, address resolution and events.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates.
type OrderRepository interface {
	// Add inserts a new order and hands the generated identifier back via SetID.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get returns the order or an ObjectNotFoundError.
	Get(ctx context.Context, id int64) (*order.Order, error)

	// UpdateIfStatus writes status, slots and history only while the stored
	// status still equals expected. When another writer got there first it
	// returns an InvalidTransitionError and writes nothing.
	UpdateIfStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error
}
