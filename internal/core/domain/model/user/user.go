package user

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// DefaultName is shown when the messaging profile carries no name.
const DefaultName = "Noma'lum"

var (
	ErrTelegramIDIsRequired = errs.NewValueIsRequiredError("telegramId")
	ErrUserIsNotConstructed = errors.New("User must be created via NewUser or RestoreUser")
)

// User is an account bound to a messaging identity.
type User struct {
	id         int64
	telegramID int64
	name       string
	phone      string
	role       kernel.Role
	createdAt  time.Time
	guard      guard.ConstructorGuard
}

// NewUser creates an account. role may be RoleUnset for staff identities
// awaiting assignment by an admin.
func NewUser(telegramID int64, name, phone string, role kernel.Role, now time.Time) (*User, error) {
	if telegramID == 0 {
		return nil, ErrTelegramIDIsRequired
	}

	u := &User{
		telegramID: telegramID,
		role:       role,
		createdAt:  now,
		guard:      guard.NewConstructorGuard(),
	}
	u.UpdateContact(name, phone)
	return u, nil
}

func RestoreUser(id, telegramID int64, name, phone string, role kernel.Role, createdAt time.Time) *User {
	return &User{
		id:         id,
		telegramID: telegramID,
		name:       name,
		phone:      phone,
		role:       role,
		createdAt:  createdAt,
		guard:      guard.NewConstructorGuard(),
	}
}

func (u *User) Validate() error {
	if u == nil {
		return ErrUserIsNotConstructed
	}
	return u.guard.Validate(ErrUserIsNotConstructed)
}

func (u *User) ID() int64 { return u.id }

func (u *User) SetID(id int64) { u.id = id }

func (u *User) TelegramID() int64 { return u.telegramID }

func (u *User) Name() string { return u.name }

func (u *User) Phone() string { return u.phone }

func (u *User) Role() kernel.Role { return u.role }

func (u *User) CreatedAt() time.Time { return u.createdAt }

func (u *User) HasPhone() bool { return u.phone != "" }

// UpdateContact refreshes name and phone from a shared contact. Empty values
// keep what is already stored.
func (u *User) UpdateContact(name, phone string) {
	if name = strings.TrimSpace(name); name != "" {
		u.name = name
	}
	if u.name == "" {
		u.name = DefaultName
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		u.phone = phone
	}
}

func (u *User) ChangeRole(role kernel.Role) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if !role.IsSet() {
		return errs.NewValueIsRequiredError("role")
	}
	u.role = role
	return nil
}

