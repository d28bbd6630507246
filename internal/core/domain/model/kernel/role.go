package kernel

import (
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Role is the principal role assigned to a user. A user has exactly one role.
type Role int

const (
	RoleUnset Role = iota
	RoleClient
	RoleAdmin
	RoleOrderReceiver
	RoleOrderPicker
	RoleCourier
)

var roleNames = map[Role]string{
	RoleUnset:         "",
	RoleClient:        "CLIENT",
	RoleAdmin:         "ADMIN",
	RoleOrderReceiver: "ORDER_RECEIVER",
	RoleOrderPicker:   "ORDER_PICKER",
	RoleCourier:       "COURIER",
}

// AllRoles lists every assignable role.
var AllRoles = []Role{RoleClient, RoleAdmin, RoleOrderReceiver, RoleOrderPicker, RoleCourier}

func (r Role) String() string {
	return roleNames[r]
}

func (r Role) IsSet() bool {
	return r != RoleUnset
}

// Satisfies reports whether a principal holding r may perform an action
// restricted to one of allowed. ADMIN satisfies every staff role.
func (r Role) Satisfies(allowed ...Role) bool {
	if r == RoleAdmin {
		return true
	}
	for _, a := range allowed {
		if r != RoleUnset && r == a {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role belongs to fulfilment staff rather than a client.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleOrderReceiver || r == RoleOrderPicker || r == RoleCourier
}

func ParseRole(s string) (Role, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for role, name := range roleNames {
		if role != RoleUnset && name == normalized {
			return role, nil
		}
	}
	return RoleUnset, errs.NewValueIsInvalidError("role " + s)
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*r = RoleUnset
		return nil
	}
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
