package commands

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderLine is one requested product; prices come from the catalog.
type OrderLine struct {
	ProductID int64
	Quantity  int
}

// CreateOrderCommand asks to place a new order on behalf of a client.
//
//	cmd, err := NewCreateOrderCommand(userID, storeID, []OrderLine{{ProductID: 1, Quantity: 2}}, "", "41.31,69.28")
//	if err != nil {
//	    return err
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	userID   int64
	storeID  int64
	lines    []OrderLine
	address  string
	location *kernel.Location

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the payload shape. rawLocation is optional
// and must be "lat,lon" when present.
func NewCreateOrderCommand(
	userID, storeID int64,
	lines []OrderLine,
	address, rawLocation string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		address: strings.TrimSpace(address),
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setStoreID(storeID),
		cmd.setLines(lines),
		cmd.setLocation(rawLocation),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) UserID() int64 { return c.userID }

func (c CreateOrderCommand) StoreID() int64 { return c.storeID }

func (c CreateOrderCommand) Lines() []OrderLine { return c.lines }

func (c CreateOrderCommand) Address() string { return c.address }

func (c CreateOrderCommand) Location() *kernel.Location { return c.location }

func (c *CreateOrderCommand) setUserID(userID int64) error {
	if userID <= 0 {
		return errs.NewValueIsRequiredError("userId")
	}
	c.userID = userID
	return nil
}

func (c *CreateOrderCommand) setStoreID(storeID int64) error {
	if storeID <= 0 {
		return errs.NewValueIsRequiredError("storeId")
	}
	c.storeID = storeID
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, line := range lines {
		if line.ProductID <= 0 {
			return errs.NewValueIsRequiredError(fmt.Sprintf("items[%d].productId", i))
		}
		if line.Quantity <= 0 {
			return errs.NewValueIsOutOfRangeError(fmt.Sprintf("items[%d].quantity", i), line.Quantity, 1, "max int")
		}
	}
	c.lines = lines
	return nil
}

func (c *CreateOrderCommand) setLocation(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	loc, err := kernel.ParseLocation(raw)
	if err != nil {
		return err
	}
	c.location = &loc
	return nil
}
