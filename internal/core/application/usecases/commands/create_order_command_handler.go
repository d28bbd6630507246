package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CreateOrderCommandHandler snapshots the requested lines from the store's
// inventory and persists a PENDING order. Receivers and admins are notified
// after commit.
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	announcer
}

func NewCreateOrderCommandHandler(
	uowFactory UoWFactory,
	notifier OrderNotifier,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		announcer: announcer{
			notifier:  notifier,
			publisher: publisher,
			logger:    logger.With("component", "create_order"),
		},
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.UserRepository().Get(ctx, cmd.UserID()); err != nil {
		return nil, err
	}

	catalogRepo := uow.CatalogRepository()
	if _, err := catalogRepo.Store(ctx, cmd.StoreID()); err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(cmd.Lines()))
	for _, line := range cmd.Lines() {
		snapshot, err := catalogRepo.InventorySnapshot(ctx, line.ProductID, cmd.StoreID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("product %d not available in store %d", line.ProductID, cmd.StoreID()))
		}
		if err != nil {
			return nil, err
		}

		item, err := order.NewItem(
			snapshot.ProductID,
			snapshot.ProductName,
			snapshot.ProductCode,
			line.Quantity,
			snapshot.UnitPrice,
			snapshot.Currency,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	created, err := order.NewOrder(cmd.UserID(), cmd.StoreID(), items, cmd.Address(), cmd.Location(), time.Now())
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.announce(ctx, created)
	return created, nil
}
