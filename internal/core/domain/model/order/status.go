package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	PENDING ──┬──> ACCEPTED ──> PREPARING ──> READY_FOR_DELIVERY ──> SHIPPING ──> COMPLETED
//	          └──> CANCELLED
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	Accepted
	Preparing
	ReadyForDelivery
	Shipping
	Completed
	Cancelled
)

var statusNames = map[Status]string{
	Unknown:          "UNKNOWN",
	Pending:          "PENDING",
	Accepted:         "ACCEPTED",
	Preparing:        "PREPARING",
	ReadyForDelivery: "READY_FOR_DELIVERY",
	Shipping:         "SHIPPING",
	Completed:        "COMPLETED",
	Cancelled:        "CANCELLED",
}

// AllStatuses lists valid statuses in lifecycle order.
var AllStatuses = []Status{Pending, Accepted, Preparing, ReadyForDelivery, Shipping, Completed, Cancelled}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsActive reports whether the order is still moving through fulfilment.
func (s Status) IsActive() bool {
	return s.Validate() == nil && !s.IsTerminal()
}

func ParseStatus(raw string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	for _, s := range AllStatuses {
		if statusNames[s] == normalized {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", raw))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
