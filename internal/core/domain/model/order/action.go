package order

import (
	"fmt"
	"strconv"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// ActionKind is what a button press asks for.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionAccept
	ActionCancel
	ActionStartPicking
	ActionFinishPicking
	ActionStartDelivery
	ActionCompleteDelivery
)

var actionPrefixes = map[ActionKind]string{
	ActionAccept:           "accept_order_",
	ActionCancel:           "cancel_order_",
	ActionStartPicking:     "start_picking_",
	ActionFinishPicking:    "finish_picking_",
	ActionStartDelivery:    "start_delivery_",
	ActionCompleteDelivery: "complete_delivery_",
}

var actionTargets = map[ActionKind]Status{
	ActionAccept:           Accepted,
	ActionCancel:           Cancelled,
	ActionStartPicking:     Preparing,
	ActionFinishPicking:    ReadyForDelivery,
	ActionStartDelivery:    Shipping,
	ActionCompleteDelivery: Completed,
}

// Target is the status the action moves the order into.
func (k ActionKind) Target() Status {
	return actionTargets[k]
}

func (k ActionKind) String() string {
	return strings.TrimSuffix(actionPrefixes[k], "_")
}

// Action is a decoded callback payload.
type Action struct {
	Kind    ActionKind
	OrderID int64
}

func NewAction(kind ActionKind, orderID int64) Action {
	return Action{Kind: kind, OrderID: orderID}
}

// String encodes the action as callback data, e.g. "accept_order_42".
func (a Action) String() string {
	return actionPrefixes[a.Kind] + strconv.FormatInt(a.OrderID, 10)
}

func ParseAction(data string) (Action, error) {
	for kind, prefix := range actionPrefixes {
		rest, ok := strings.CutPrefix(data, prefix)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			return Action{}, errs.NewValueIsInvalidErrorWithCause("callback data",
				fmt.Errorf("bad order id in %q", data))
		}
		return Action{Kind: kind, OrderID: id}, nil
	}
	return Action{}, errs.NewValueIsInvalidErrorWithCause("callback data", fmt.Errorf("unknown action %q", data))
}

// NextActions lists what may be pressed on an order currently in s.
func NextActions(s Status) []ActionKind {
	switch s {
	case Pending:
		return []ActionKind{ActionAccept, ActionCancel}
	case Accepted:
		return []ActionKind{ActionStartPicking}
	case Preparing:
		return []ActionKind{ActionFinishPicking}
	case ReadyForDelivery:
		return []ActionKind{ActionStartDelivery}
	case Shipping:
		return []ActionKind{ActionCompleteDelivery}
	default:
		return nil
	}
}
