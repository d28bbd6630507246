package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrChangeUserRoleCommandIsNotConstructed = errors.New(
	"ChangeUserRoleCommand must be created via NewChangeUserRoleCommand constructor",
)

// ChangeUserRoleCommand is issued by an admin to (re)assign a role.
type ChangeUserRoleCommand struct { //nolint:recvcheck //using for validation
	userID int64
	role   kernel.Role

	guard guard.ConstructorGuard
}

func NewChangeUserRoleCommand(userID int64, role kernel.Role) (ChangeUserRoleCommand, error) {
	var err error
	if userID <= 0 {
		err = errors.Join(err, errs.NewValueIsRequiredError("userId"))
	}
	if !role.IsSet() {
		err = errors.Join(err, errs.NewValueIsRequiredError("role"))
	}
	if err != nil {
		return ChangeUserRoleCommand{}, err
	}

	return ChangeUserRoleCommand{userID: userID, role: role, guard: guard.NewConstructorGuard()}, nil
}

func (c ChangeUserRoleCommand) Validate() error {
	return c.guard.Validate(ErrChangeUserRoleCommandIsNotConstructed)
}

func (c ChangeUserRoleCommand) UserID() int64 { return c.userID }

func (c ChangeUserRoleCommand) Role() kernel.Role { return c.role }
