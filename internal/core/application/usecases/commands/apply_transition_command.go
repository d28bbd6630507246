package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrApplyTransitionCommandIsNotConstructed = errors.New(
	"ApplyTransitionCommand must be created via NewApplyTransitionCommand constructor",
)

// ApplyTransitionCommand asks to move an order to a target status on behalf
// of a user. Both bot button presses and the admin status endpoint use it.
type ApplyTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID      int64
	target       order.Status
	actingUserID int64
	note         string

	guard guard.ConstructorGuard
}

func NewApplyTransitionCommand(
	orderID int64,
	target order.Status,
	actingUserID int64,
	note string,
) (ApplyTransitionCommand, error) {
	cmd := ApplyTransitionCommand{
		note:  strings.TrimSpace(note),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActingUserID(actingUserID),
	); err != nil {
		return ApplyTransitionCommand{}, err
	}

	return cmd, nil
}

func (c ApplyTransitionCommand) Validate() error {
	return c.guard.Validate(ErrApplyTransitionCommandIsNotConstructed)
}

func (c ApplyTransitionCommand) OrderID() int64 { return c.orderID }

func (c ApplyTransitionCommand) Target() order.Status { return c.target }

func (c ApplyTransitionCommand) ActingUserID() int64 { return c.actingUserID }

// Note is empty when the transition's default note should be recorded.
func (c ApplyTransitionCommand) Note() string { return c.note }

func (c *ApplyTransitionCommand) setOrderID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsRequiredError("orderId")
	}
	c.orderID = id
	return nil
}

func (c *ApplyTransitionCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if target == order.Pending {
		return errs.NewValueIsInvalidError("status PENDING is only set on creation")
	}
	c.target = target
	return nil
}

func (c *ApplyTransitionCommand) setActingUserID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsRequiredError("userId")
	}
	c.actingUserID = id
	return nil
}
