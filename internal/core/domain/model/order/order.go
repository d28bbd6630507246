package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Actor is the principal performing a transition, with the role read at the
// moment of the action.
type Actor struct {
	UserID int64
	Role   kernel.Role
}

// Order is the aggregate root of the fulfilment lifecycle.
//
// Invariants:
//   - items are non-empty and frozen; totalPrice is their sum
//   - status changes only through ApplyTransition
//   - each role slot is assigned at most once
//   - history is append-only and ends with the current status
type Order struct {
	id         int64
	userID     int64
	storeID    int64
	items      []Item
	totalPrice decimal.Decimal
	currency   string
	address    string
	location   *kernel.Location
	status     Status
	receiverID *int64
	pickerID   *int64
	courierID  *int64
	history    []HistoryEntry
	createdAt  time.Time
	updatedAt  time.Time

	guard guard.ConstructorGuard
}

// NewOrder builds a PENDING order with a single creation history entry. The
// identifier is assigned by the repository on insert.
func NewOrder(
	userID, storeID int64,
	items []Item,
	address string,
	location *kernel.Location,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:    Pending,
		address:   address,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setUserID(userID),
		o.setStoreID(storeID),
		o.setItems(items),
		o.setLocation(location),
	); err != nil {
		return nil, err
	}

	o.history = []HistoryEntry{{Status: Pending, At: now, ActingUserID: userID, Note: CreationNote}}
	return o, nil
}

// RestoreParams carries persisted state back into the aggregate.
type RestoreParams struct {
	ID         int64
	UserID     int64
	StoreID    int64
	Items      []Item
	TotalPrice decimal.Decimal
	Currency   string
	Address    string
	Location   *kernel.Location
	Status     Status
	ReceiverID *int64
	PickerID   *int64
	CourierID  *int64
	History    []HistoryEntry
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RestoreOrder rebuilds an order from storage. The stored total is kept as is
// so later catalog edits cannot change it.
func RestoreOrder(p RestoreParams) (*Order, error) {
	if err := p.Status.Validate(); err != nil {
		return nil, err
	}
	if len(p.History) == 0 {
		return nil, errs.NewValueIsRequiredError("statusHistory")
	}
	if last := p.History[len(p.History)-1].Status; last != p.Status {
		return nil, errs.NewValueIsInvalidErrorWithCause("statusHistory",
			fmt.Errorf("last entry is %s, order is %s", last, p.Status))
	}

	return &Order{
		id:         p.ID,
		userID:     p.UserID,
		storeID:    p.StoreID,
		items:      slices.Clone(p.Items),
		totalPrice: p.TotalPrice,
		currency:   p.Currency,
		address:    p.Address,
		location:   p.Location,
		status:     p.Status,
		receiverID: p.ReceiverID,
		pickerID:   p.PickerID,
		courierID:  p.CourierID,
		history:    slices.Clone(p.History),
		createdAt:  p.CreatedAt,
		updatedAt:  p.UpdatedAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ApplyTransition moves the order to target on behalf of actor.
//
// Checks run in a fixed order so the error kind is stable:
//  1. the table has a row current -> target, otherwise InvalidTransition
//  2. actor's role satisfies the row, otherwise Unauthorized
//  3. the row's slot is still empty, otherwise InvalidTransition
//
// On any error the order is left unchanged. An empty note falls back to the
// row's default note.
func (o *Order) ApplyTransition(target Status, actor Actor, note string, at time.Time) (Transition, error) {
	if err := o.Validate(); err != nil {
		return Transition{}, err
	}

	t, ok := FindTransition(o.status, target)
	if !ok {
		return Transition{}, errs.NewInvalidTransitionError(o.status.String(), target.String())
	}
	if !t.Permits(actor.Role) {
		return Transition{}, errs.NewUnauthorizedError("move order to "+target.String(), actor.Role.String())
	}
	if o.slotTaken(t.Slot) {
		return Transition{}, errs.NewInvalidTransitionErrorWithCause(o.status.String(), target.String(),
			fmt.Errorf("%s slot already assigned", t.Slot))
	}

	if note == "" {
		note = t.Note
	}

	o.assignSlot(t.Slot, actor.UserID)
	o.status = target
	o.history = append(o.history, HistoryEntry{Status: target, At: at, ActingUserID: actor.UserID, Note: note})
	o.updatedAt = at
	return t, nil
}

func (o *Order) ID() int64 { return o.id }

// SetID is used by repositories to hand back the generated identifier.
func (o *Order) SetID(id int64) { o.id = id }

func (o *Order) UserID() int64 { return o.userID }

func (o *Order) StoreID() int64 { return o.storeID }

func (o *Order) Items() []Item { return slices.Clone(o.items) }

func (o *Order) TotalPrice() decimal.Decimal { return o.totalPrice }

func (o *Order) Currency() string { return o.currency }

func (o *Order) Address() string { return o.address }

// Location returns nil when the order was created without coordinates.
func (o *Order) Location() *kernel.Location { return o.location }

func (o *Order) Status() Status { return o.status }

func (o *Order) ReceiverID() *int64 { return o.receiverID }

func (o *Order) PickerID() *int64 { return o.pickerID }

func (o *Order) CourierID() *int64 { return o.courierID }

func (o *Order) History() []HistoryEntry { return slices.Clone(o.history) }

func (o *Order) CreatedAt() time.Time { return o.createdAt }

func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// LastEntry returns the most recent history entry.
func (o *Order) LastEntry() HistoryEntry {
	return o.history[len(o.history)-1]
}

func (o *Order) slotTaken(s Slot) bool {
	switch s {
	case SlotReceiver:
		return o.receiverID != nil
	case SlotPicker:
		return o.pickerID != nil
	case SlotCourier:
		return o.courierID != nil
	default:
		return false
	}
}

func (o *Order) assignSlot(s Slot, userID int64) {
	switch s {
	case SlotReceiver:
		o.receiverID = &userID
	case SlotPicker:
		o.pickerID = &userID
	case SlotCourier:
		o.courierID = &userID
	case SlotNone:
	}
}

func (o *Order) setUserID(userID int64) error {
	if userID <= 0 {
		return errs.NewValueIsRequiredError("userId")
	}
	o.userID = userID
	return nil
}

func (o *Order) setStoreID(storeID int64) error {
	if storeID <= 0 {
		return errs.NewValueIsRequiredError("storeId")
	}
	o.storeID = storeID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}

	o.items = slices.Clone(items)
	o.totalPrice = total
	o.currency = items[0].Currency()
	return nil
}

func (o *Order) setLocation(location *kernel.Location) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}
	o.location = location
	return nil
}
