package order

import "fulfillment/internal/core/domain/model/kernel"

// Slot is the order field recording which employee performed a transition.
type Slot int

const (
	SlotNone Slot = iota
	SlotReceiver
	SlotPicker
	SlotCourier
)

func (s Slot) String() string {
	switch s {
	case SlotReceiver:
		return "receiver"
	case SlotPicker:
		return "picker"
	case SlotCourier:
		return "courier"
	default:
		return "none"
	}
}

// Transition is one row of the lifecycle table. ADMIN satisfies every Roles entry.
type Transition struct {
	From  Status
	To    Status
	Roles []kernel.Role
	Slot  Slot
	Note  string
}

var transitions = []Transition{
	{From: Pending, To: Accepted, Roles: []kernel.Role{kernel.RoleOrderReceiver}, Slot: SlotReceiver, Note: "Buyurtma qabul qilindi"},
	{From: Pending, To: Cancelled, Roles: []kernel.Role{kernel.RoleOrderReceiver}, Slot: SlotNone, Note: "Buyurtma bekor qilindi"},
	{From: Accepted, To: Preparing, Roles: []kernel.Role{kernel.RoleOrderPicker}, Slot: SlotPicker, Note: "Yig'ish boshlandi"},
	{From: Preparing, To: ReadyForDelivery, Roles: []kernel.Role{kernel.RoleOrderPicker}, Slot: SlotNone, Note: "Yig'ish yakunlandi"},
	{From: ReadyForDelivery, To: Shipping, Roles: []kernel.Role{kernel.RoleCourier}, Slot: SlotCourier, Note: "Dostavka boshlandi"},
	{From: Shipping, To: Completed, Roles: []kernel.Role{kernel.RoleCourier}, Slot: SlotNone, Note: "Dostavka yakunlandi"},
}

// CreationNote is recorded in the first history entry.
const CreationNote = "Buyurtma yaratildi"

// FindTransition returns the table row for from -> to.
func FindTransition(from, to Status) (Transition, bool) {
	for _, t := range transitions {
		if t.From == from && t.To == to {
			return t, true
		}
	}
	return Transition{}, false
}

// TransitionsInto returns every row whose target is to. Used to gate inbound
// actions on role before the order is loaded.
func TransitionsInto(to Status) []Transition {
	var result []Transition
	for _, t := range transitions {
		if t.To == to {
			result = append(result, t)
		}
	}
	return result
}

// Permits reports whether role may trigger the transition.
func (t Transition) Permits(role kernel.Role) bool {
	return role.Satisfies(t.Roles...)
}
