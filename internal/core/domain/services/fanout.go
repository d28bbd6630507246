package services

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// Channel is one of the five messaging endpoints. Each is bound to its own bot.
type Channel int

const (
	ChannelClient Channel = iota + 1
	ChannelAdmin
	ChannelReceiver
	ChannelPicker
	ChannelCourier
)

var channelNames = map[Channel]string{
	ChannelClient:   "client",
	ChannelAdmin:    "admin",
	ChannelReceiver: "receiver",
	ChannelPicker:   "picker",
	ChannelCourier:  "courier",
}

// AllChannels lists every channel in a stable order.
var AllChannels = []Channel{ChannelClient, ChannelAdmin, ChannelReceiver, ChannelPicker, ChannelCourier}

func (c Channel) String() string {
	return channelNames[c]
}

// StaffRoles lists who may use a staff channel. ADMIN is always included.
func (c Channel) StaffRoles() []kernel.Role {
	switch c {
	case ChannelAdmin:
		return []kernel.Role{kernel.RoleAdmin}
	case ChannelReceiver:
		return []kernel.Role{kernel.RoleOrderReceiver, kernel.RoleAdmin}
	case ChannelPicker:
		return []kernel.Role{kernel.RoleOrderPicker, kernel.RoleAdmin}
	case ChannelCourier:
		return []kernel.Role{kernel.RoleCourier, kernel.RoleAdmin}
	default:
		return nil
	}
}

// Audience is one leg of a fan-out. Either the order's own client is
// addressed, or every account holding one of Roles.
type Audience struct {
	Channel  Channel
	ToClient bool
	Roles    []kernel.Role
	Header   string
	Actions  []order.ActionKind
}

// Broadcast reports whether the audience is a role-wide broadcast, which
// receives a truncated item list.
func (a Audience) Broadcast() bool {
	return !a.ToClient
}

// FanOut returns who must be notified once an order has entered status.
func FanOut(status order.Status) []Audience {
	client := Audience{Channel: ChannelClient, ToClient: true}

	switch status {
	case order.Pending:
		return []Audience{
			{
				Channel: ChannelReceiver,
				Roles:   []kernel.Role{kernel.RoleAdmin, kernel.RoleOrderReceiver},
				Header:  HeaderNewOrder,
				Actions: order.NextActions(order.Pending),
			},
			{
				Channel: ChannelAdmin,
				Roles:   []kernel.Role{kernel.RoleAdmin},
				Header:  HeaderNewOrder,
			},
		}
	case order.Accepted:
		return []Audience{client, {
			Channel: ChannelPicker,
			Roles:   []kernel.Role{kernel.RoleOrderPicker},
			Header:  HeaderForPicking,
			Actions: order.NextActions(order.Accepted),
		}}
	case order.ReadyForDelivery:
		return []Audience{client, {
			Channel: ChannelCourier,
			Roles:   []kernel.Role{kernel.RoleCourier},
			Header:  HeaderForDelivery,
			Actions: order.NextActions(order.ReadyForDelivery),
		}}
	case order.Preparing, order.Shipping, order.Completed, order.Cancelled:
		return []Audience{client}
	default:
		return nil
	}
}

// FollowUp describes the message sent to the single principal who just took
// ownership of the next step.
type FollowUp struct {
	Channel      Channel
	Header       string
	Action       order.ActionKind
	WithLocation bool
}

// ExecutorFollowUp returns the follow-up for a transition into status, if any.
func ExecutorFollowUp(status order.Status) (FollowUp, bool) {
	switch status {
	case order.Preparing:
		return FollowUp{Channel: ChannelPicker, Header: HeaderPickingStarted, Action: order.ActionFinishPicking}, true
	case order.Shipping:
		return FollowUp{
			Channel:      ChannelCourier,
			Header:       HeaderDeliveryStarted,
			Action:       order.ActionCompleteDelivery,
			WithLocation: true,
		}, true
	default:
		return FollowUp{}, false
	}
}
