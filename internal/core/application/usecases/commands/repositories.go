// Package commands contains the operations that change fulfillment state.
// Every handler follows the same shape: validate the command, open a unit of
// work, load aggregates, apply domain behavior, persist, commit, and only then
// run best-effort side effects (notifications, events).
package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	UserRepoFactory interface {
		UserRepository() ports.UserRepository
	}

	CatalogRepoFactory interface {
		CatalogRepository() ports.CatalogRepository
	}

	// UserUoW is used by account commands that never touch orders.
	UserUoW interface {
		TxManager
		UserRepoFactory
	}

	UserUoWFactory interface {
		Create() UserUoW
	}

	// UoW spans orders, users and the catalog. Order commands read the acting
	// user and catalog inside the same transaction as the order write.
	//
	//	uow := factory.Create()
	//	if err := uow.Begin(ctx); err != nil {
	//	    return err
	//	}
	//	defer func() { _ = uow.Rollback(ctx) }()
	//	...
	//	return uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		UserRepoFactory
		CatalogRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}

	// OrderNotifier fans out the notification for an order's current status.
	// It never returns an error: delivery failures are logged per recipient.
	OrderNotifier interface {
		OrderChanged(ctx context.Context, o *order.Order)
	}
)

// announcer runs the post-commit side effects shared by order commands.
type announcer struct {
	notifier  OrderNotifier
	publisher ports.OrderEventPublisher
	logger    *slog.Logger
}

// announce runs detached from the caller's cancellation: the state change is
// already committed and must be announced even if the inbound request is gone.
func (a announcer) announce(ctx context.Context, o *order.Order) {
	ctx = context.WithoutCancel(ctx)

	if a.notifier != nil {
		a.notifier.OrderChanged(ctx, o)
	}

	if a.publisher == nil {
		return
	}
	event := ports.NewOrderEvent(o)
	if err := a.publisher.Publish(ctx, event); err != nil {
		a.logger.WarnContext(ctx, "order event not published",
			"order_id", o.ID(),
			"status", event.Status.String(),
			"error", err)
	}
}
