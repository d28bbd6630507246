package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fulfillment/internal/core/domain/model/order"
)

// OrderEvent records a committed status change.
type OrderEvent struct {
	EventID      uuid.UUID
	OrderID      int64
	Status       order.Status
	ActingUserID int64
	OccurredAt   time.Time
}

// NewOrderEvent builds the event for the order's latest history entry.
func NewOrderEvent(o *order.Order) OrderEvent {
	last := o.LastEntry()
	return OrderEvent{
		EventID:      uuid.New(),
		OrderID:      o.ID(),
		Status:       last.Status,
		ActingUserID: last.ActingUserID,
		OccurredAt:   last.At,
	}
}

type OrderEventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}
