package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ApplyTransitionCommandHandler is the lifecycle engine entry point.
//
// Within one unit of work it reloads the acting user (so the role is the one
// held right now), loads the order, applies the transition on the aggregate
// and writes it back conditionally on the status it was read with. Of two
// concurrent attempts on the same order only one write matches; the other
// gets an InvalidTransitionError and nothing is persisted for it.
//
// Exactly one fan-out follows a committed transition. Notification and event
// failures are logged and never undo the state change.
type ApplyTransitionCommandHandler struct {
	uowFactory UoWFactory
	announcer
}

func NewApplyTransitionCommandHandler(
	uowFactory UoWFactory,
	notifier OrderNotifier,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) ApplyTransitionCommandHandler {
	return ApplyTransitionCommandHandler{
		uowFactory: uowFactory,
		announcer: announcer{
			notifier:  notifier,
			publisher: publisher,
			logger:    logger.With("component", "apply_transition"),
		},
	}
}

func (h ApplyTransitionCommandHandler) Handle(ctx context.Context, cmd ApplyTransitionCommand) (*order.Order, error) {
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

	actor, err := uow.UserRepository().Get(ctx, cmd.ActingUserID())
	if err != nil {
		return nil, err
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	expected := o.Status()
	if _, err = o.ApplyTransition(
		cmd.Target(),
		order.Actor{UserID: actor.ID(), Role: actor.Role()},
		cmd.Note(),
		time.Now(),
	); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdateIfStatus(ctx, o, expected); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order transitioned",
		"order_id", o.ID(),
		"from", expected.String(),
		"to", o.Status().String(),
		"acting_user_id", actor.ID())

	h.announce(ctx, o)
	return o, nil
}
